package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Adda-Baaj/khobor-reader/internal/config"
	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/feed"
	"github.com/Adda-Baaj/khobor-reader/internal/logger"
	"github.com/Adda-Baaj/khobor-reader/internal/preview"
	"github.com/Adda-Baaj/khobor-reader/pkg/httpclient"
	"github.com/Adda-Baaj/khobor-reader/pkg/publishers"
)

// relayTarget is one feed refreshed by the relay.
type relayTarget struct {
	feed *feed.Feed
	load feed.Loader
}

// Enricher fills missing article fields from the article page.
type Enricher interface {
	Enrich(ctx context.Context, art domain.Article, placeholder string) domain.Article
}

// Relay refreshes a set of feeds on an interval and forwards every fetched
// article to the configured publishers. Nothing is stored between rounds.
type Relay struct {
	targets     []relayTarget
	fanout      *publishers.Fanout
	interval    time.Duration
	enricher    Enricher
	placeholder string
	log         logger.Logger
}

// NewRelay builds a relay runtime from the publishers file. The headlines
// feed is always relayed, plus one feed per configured relay category.
func NewRelay(ctx context.Context, cfg *config.Config, src NewsSource, log logger.Logger) (*Relay, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if src == nil {
		return nil, fmt.Errorf("news source must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	categories := make([]domain.Category, 0)
	for _, raw := range cfg.RelayCategoryList() {
		c, err := domain.ParseCategory(raw)
		if err != nil {
			return nil, fmt.Errorf("relay_categories: %w", err)
		}
		categories = append(categories, c)
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	relay := newRelay(src, cfg.DefaultLocale, categories, publishers.NewFanout(pubClients), cfg.RelayInterval, log)
	if cfg.RelayEnrich {
		relay.enricher = preview.NewPreviewer(httpclient.NewRestyClient(cfg.RequestTimeout), map[string]string{
			"User-Agent": cfg.AppName,
		}, log)
		relay.placeholder = cfg.PlaceholderImageURL
	}
	return relay, nil
}

func newRelay(src NewsSource, locale string, categories []domain.Category, fanout *publishers.Fanout, interval time.Duration, log logger.Logger) *Relay {
	log = logger.Ensure(log)

	targets := []relayTarget{{
		feed: feed.New(FeedHeadlines, log),
		load: func(ctx context.Context) ([]domain.Article, error) {
			return src.TopHeadlines(ctx, locale)
		},
	}}
	for _, c := range categories {
		category := c
		targets = append(targets, relayTarget{
			feed: feed.New(FeedCategory+":"+string(category), log),
			load: func(ctx context.Context) ([]domain.Article, error) {
				return src.ByCategory(ctx, category, locale)
			},
		})
	}

	return &Relay{
		targets:  targets,
		fanout:   fanout,
		interval: interval,
		log:      log,
	}
}

// Run relays once immediately and then on every tick until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	if r == nil || r.fanout == nil {
		return fmt.Errorf("relay is not initialized")
	}
	defer r.closePublishers()

	r.log.InfoObj("relay loop starting", "relay_state", map[string]any{
		"feeds_count":      len(r.targets),
		"publishers_count": r.fanout.Size(),
		"interval":         r.interval.String(),
	})

	if err := r.RunOnce(ctx); err != nil {
		r.log.ErrorObj("initial relay round failed", "error", err.Error())
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.InfoObj("relay loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := r.RunOnce(ctx); err != nil {
				r.log.ErrorObj("scheduled relay round failed", "error", err.Error())
			}
		}
	}
}

// RunOnce refreshes every feed and publishes its articles. A failing feed
// does not stop the others; all failures are joined.
func (r *Relay) RunOnce(ctx context.Context) error {
	start := time.Now()
	var errs []error
	delivered := 0

	for _, t := range r.targets {
		snap, err := t.feed.Load(ctx, t.feed.Snapshot().Name, t.load)
		if err != nil {
			errs = append(errs, fmt.Errorf("feed %s: %w", snap.Name, err))
			continue
		}
		for _, art := range snap.Articles {
			if r.enricher != nil && needsEnrichment(art, r.placeholder) {
				art = r.enricher.Enrich(ctx, art, r.placeholder)
			}
			n, err := r.fanout.Publish(ctx, publishers.NewEvent(snap.Name, art))
			delivered += n
			if err != nil {
				errs = append(errs, fmt.Errorf("feed %s article %s: %w", snap.Name, art.Key, err))
			}
		}
	}

	r.log.InfoObj("relay round completed", "relay_meta", map[string]any{
		"feeds_count": len(r.targets),
		"deliveries":  delivered,
		"failures":    len(errs),
		"elapsed_ms":  time.Since(start).Milliseconds(),
	})
	return errors.Join(errs...)
}

func needsEnrichment(art domain.Article, placeholder string) bool {
	return art.Description == "" || art.ImageURL == "" || art.ImageURL == placeholder
}

func (r *Relay) closePublishers() {
	if err := r.fanout.Close(); err != nil {
		r.log.ErrorObj("publisher close failed", "error", err.Error())
	}
}
