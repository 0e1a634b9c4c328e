package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/feed"
	"github.com/Adda-Baaj/khobor-reader/internal/logger"
	"github.com/Adda-Baaj/khobor-reader/pkg/newsapi"
)

// Feed names exposed by the reader.
const (
	FeedHeadlines = "headlines"
	FeedCategory  = "category"
	FeedMixed     = "mixed"
	FeedSearch    = "search"
)

const (
	maxSearchHistory = 5
	popularTopics    = 8
)

// DefaultCategory is selected when no category is given.
const DefaultCategory = domain.CategoryTechnology

// Reader is the screen runtime behind the terminal reader: one feed per
// screen plus the search history.
type Reader struct {
	src    NewsSource
	locale string
	log    logger.Logger
	feeds  map[string]*feed.Feed

	mu      sync.Mutex
	history []string
}

// NewReader builds a reader on top of src. An empty locale lets the data
// client apply its default.
func NewReader(src NewsSource, locale string, log logger.Logger) (*Reader, error) {
	if src == nil {
		return nil, fmt.Errorf("news source must not be nil")
	}
	log = logger.Ensure(log)

	feeds := make(map[string]*feed.Feed, 4)
	for _, name := range []string{FeedHeadlines, FeedCategory, FeedMixed, FeedSearch} {
		feeds[name] = feed.New(name, log)
	}
	return &Reader{
		src:    src,
		locale: strings.TrimSpace(locale),
		log:    log,
		feeds:  feeds,
	}, nil
}

// Feed returns the named feed or nil.
func (r *Reader) Feed(name string) *feed.Feed {
	return r.feeds[name]
}

// Headlines loads the top headlines.
func (r *Reader) Headlines(ctx context.Context) (feed.Snapshot, error) {
	return r.feeds[FeedHeadlines].Load(ctx, r.localeLabel(), func(ctx context.Context) ([]domain.Article, error) {
		return r.src.TopHeadlines(ctx, r.locale)
	})
}

// Category loads one category. A blank value selects DefaultCategory; an
// unknown value is rejected before any request.
func (r *Reader) Category(ctx context.Context, raw string) (feed.Snapshot, error) {
	category := DefaultCategory
	if strings.TrimSpace(raw) != "" {
		c, err := domain.ParseCategory(raw)
		if err != nil {
			return r.feeds[FeedCategory].Snapshot(), &newsapi.ValidationError{Field: "category", Reason: err.Error()}
		}
		category = c
	}

	return r.feeds[FeedCategory].Load(ctx, string(category), func(ctx context.Context) ([]domain.Article, error) {
		return r.src.ByCategory(ctx, category, r.locale)
	})
}

// Mixed loads an aggregated feed across categories. No categories means all
// of them.
func (r *Reader) Mixed(ctx context.Context, raw []string) (feed.Snapshot, error) {
	categories := make([]domain.Category, 0, len(raw))
	for _, v := range raw {
		if strings.TrimSpace(v) == "" {
			continue
		}
		c, err := domain.ParseCategory(v)
		if err != nil {
			return r.feeds[FeedMixed].Snapshot(), &newsapi.ValidationError{Field: "categories", Reason: err.Error()}
		}
		categories = append(categories, c)
	}
	if len(categories) == 0 {
		categories = domain.Categories()
	}

	labels := make([]string, len(categories))
	for i, c := range categories {
		labels[i] = string(c)
	}
	return r.feeds[FeedMixed].Load(ctx, strings.Join(labels, ","), func(ctx context.Context) ([]domain.Article, error) {
		return r.src.ByCategories(ctx, categories, r.locale)
	})
}

// Search runs a query. A successful search is recorded in the history.
func (r *Reader) Search(ctx context.Context, query string, opts newsapi.SearchOptions) (feed.Snapshot, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return r.feeds[FeedSearch].Snapshot(), &newsapi.ValidationError{Field: "query", Reason: "must not be blank"}
	}

	snap, err := r.feeds[FeedSearch].Load(ctx, query, func(ctx context.Context) ([]domain.Article, error) {
		return r.src.Search(ctx, query, opts)
	})
	if err == nil {
		r.remember(query)
	}
	return snap, err
}

// ClearSearch drops the current query and its results. History is kept.
func (r *Reader) ClearSearch() {
	r.feeds[FeedSearch].Reset()
}

// History returns previous queries, newest first.
func (r *Reader) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.history))
	copy(out, r.history)
	return out
}

// ClearHistory forgets all previous queries.
func (r *Reader) ClearHistory() {
	r.mu.Lock()
	r.history = nil
	r.mu.Unlock()
}

// A query already present keeps its position.
func (r *Reader) remember(query string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.history {
		if q == query {
			return
		}
	}
	next := make([]string, 0, maxSearchHistory)
	next = append(next, query)
	for _, q := range r.history {
		if len(next) == maxSearchHistory {
			break
		}
		next = append(next, q)
	}
	r.history = next
}

// PopularTopics returns the topics offered as quick searches.
func (r *Reader) PopularTopics() []string {
	topics := r.src.SuggestedTopics()
	if len(topics) > popularTopics {
		topics = topics[:popularTopics]
	}
	return topics
}

// Refresh re-runs the last load of the named feed.
func (r *Reader) Refresh(ctx context.Context, name string) (feed.Snapshot, error) {
	f := r.feeds[name]
	if f == nil {
		return feed.Snapshot{}, fmt.Errorf("unknown feed %q", name)
	}
	return f.Refresh(ctx)
}

func (r *Reader) localeLabel() string {
	if r.locale == "" {
		return newsapi.DefaultLocale
	}
	return r.locale
}
