package app

import (
	"context"
	"fmt"

	"github.com/Adda-Baaj/khobor-reader/internal/config"
	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/logger"
	"github.com/Adda-Baaj/khobor-reader/pkg/httpclient"
	"github.com/Adda-Baaj/khobor-reader/pkg/newsapi"
)

// NewsSource is the data client surface the runtimes depend on.
type NewsSource interface {
	TopHeadlines(ctx context.Context, locale string) ([]domain.Article, error)
	ByCategory(ctx context.Context, category domain.Category, locale string) ([]domain.Article, error)
	ByCategories(ctx context.Context, categories []domain.Category, locale string) ([]domain.Article, error)
	Search(ctx context.Context, query string, opts newsapi.SearchOptions) ([]domain.Article, error)
	SuggestedTopics() []string
}

// NewNewsClient builds the data client from config. The provider profile
// file is optional.
func NewNewsClient(cfg *config.Config, hc httpclient.Client, log logger.Logger) (*newsapi.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)

	profile := newsapi.DefaultProfile()
	if cfg.NewsAPIProfileFile != "" {
		p, err := newsapi.LoadProfile(cfg.NewsAPIProfileFile)
		if err != nil {
			return nil, fmt.Errorf("load news api profile: %w", err)
		}
		profile = p
	}

	client, err := newsapi.New(newsapi.Config{
		BaseURL:          cfg.NewsAPIBaseURL,
		Token:            cfg.NewsAPIToken,
		Profile:          profile,
		UnwrapKey:        cfg.NewsAPIUnwrapKey,
		DefaultLocale:    cfg.DefaultLocale,
		DefaultLanguage:  cfg.DefaultLanguage,
		PlaceholderImage: cfg.PlaceholderImageURL,
		Timeout:          cfg.RequestTimeout,
	}, hc, log)
	if err != nil {
		return nil, fmt.Errorf("init news api client: %w", err)
	}

	if cfg.NewsAPIToken == "" {
		log.WarnObj("news api token is not set; requests will likely be rejected", "news_api", map[string]any{
			"base_url": cfg.NewsAPIBaseURL,
		})
	}
	log.DebugObj("news api client ready", "news_api", map[string]any{
		"base_url": cfg.NewsAPIBaseURL,
		"profile":  profile.ID,
	})
	return client, nil
}
