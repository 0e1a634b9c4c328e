package newsapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/pkg/httpclient"
	"github.com/google/uuid"
)

const (
	DefaultLocale   = "us"
	DefaultLanguage = "en"
	DefaultLimit    = 50
	MaxLimit        = 100

	defaultTimeout = 15 * time.Second
)

// HTTPClient aliases the shared httpclient.Client interface for clarity within newsapi.
type HTTPClient = httpclient.Client

// Logger defines the logging surface the client relies on.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

// Config is built once at startup and never mutated afterwards.
type Config struct {
	BaseURL string
	Token   string
	Profile Profile
	// UnwrapKey overrides Profile.UnwrapKey when set.
	UnwrapKey        string
	DefaultLocale    string
	DefaultLanguage  string
	PlaceholderImage string
	Timeout          time.Duration
}

// Client is the single point of contact between consumers and the provider.
// It holds no mutable state and is safe for concurrent use.
type Client struct {
	http        HTTPClient
	baseURL     string
	token       string
	profile     Profile
	unwrapKey   string
	locale      string
	language    string
	placeholder string
	log         Logger
	newID       func() string
}

// SearchOptions tunes Search. Zero values take the documented defaults.
type SearchOptions struct {
	Language          string
	Categories        []domain.Category
	ExcludeCategories []domain.Category
	Limit             int
	PublishedAfter    *time.Time
}

// New validates cfg and returns a client. A nil hc uses resty with
// cfg.Timeout. A missing token is not an error here; the provider rejects
// the first request instead.
func New(cfg Config, hc HTTPClient, log Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("news api base url is empty")
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse news api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("news api base url scheme must be http or https, got %q", parsed.Scheme)
	}

	profile := sanitizeProfile(cfg.Profile)
	if err := validateProfile(profile); err != nil {
		return nil, fmt.Errorf("news api profile: %w", err)
	}

	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = httpclient.NewRestyClient(timeout)
	}
	if log == nil {
		log = noopLogger{}
	}

	return &Client{
		http:        hc,
		baseURL:     base,
		token:       strings.TrimSpace(cfg.Token),
		profile:     profile,
		unwrapKey:   orDefault(cfg.UnwrapKey, profile.UnwrapKey),
		locale:      orDefault(cfg.DefaultLocale, DefaultLocale),
		language:    orDefault(cfg.DefaultLanguage, DefaultLanguage),
		placeholder: orDefault(cfg.PlaceholderImage, DefaultPlaceholderImage),
		log:         log,
		newID:       uuid.NewString,
	}, nil
}

// Profile returns the provider contract in use.
func (c *Client) Profile() Profile { return c.profile }

// TopHeadlines requests the aggregated feed for locale without a category
// filter. An empty locale uses the configured default.
func (c *Client) TopHeadlines(ctx context.Context, locale string) ([]domain.Article, error) {
	q := Query{
		Locale:   orDefault(locale, c.locale),
		Language: c.language,
	}
	return c.fetch(ctx, "top headlines", c.profile.HeadlinesPath, q)
}

// ByCategory requests headlines filtered to one category. The value is not
// validated; callers pass members of domain.Categories. An empty category is
// never sent.
func (c *Client) ByCategory(ctx context.Context, category domain.Category, locale string) ([]domain.Article, error) {
	q := Query{
		Locale:   orDefault(locale, c.locale),
		Language: c.language,
	}
	if cat := strings.TrimSpace(string(category)); cat != "" {
		q.Categories = []string{cat}
	}
	return c.fetch(ctx, "category news", c.profile.HeadlinesPath, q)
}

// ByCategories requests one aggregated feed across several categories.
func (c *Client) ByCategories(ctx context.Context, categories []domain.Category, locale string) ([]domain.Article, error) {
	cats := cleanList(categoryStrings(categories))
	if len(cats) == 0 {
		return nil, &ValidationError{Field: "categories", Reason: "at least one category is required"}
	}
	q := Query{
		Locale:     orDefault(locale, c.locale),
		Language:   c.language,
		Categories: cats,
	}
	return c.fetch(ctx, "mixed news", c.profile.HeadlinesPath, q)
}

// Search requests articles matching query, most recent first. Blank queries
// and out-of-range limits are rejected before any request is made.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) ([]domain.Article, error) {
	q, err := c.searchQuery(query, opts)
	if err != nil {
		return nil, err
	}
	return c.fetch(ctx, "search", c.profile.SearchPath, q)
}

func (c *Client) searchQuery(query string, opts SearchOptions) (Query, error) {
	term := strings.TrimSpace(query)
	if term == "" {
		return Query{}, &ValidationError{Field: "query", Reason: "search term must not be blank"}
	}

	limit := opts.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 || limit > MaxLimit {
		return Query{}, &ValidationError{Field: "limit", Reason: fmt.Sprintf("must be between 1 and %d, got %d", MaxLimit, opts.Limit)}
	}

	q := Query{
		Search:            term,
		Language:          orDefault(opts.Language, c.language),
		Categories:        categoryStrings(opts.Categories),
		ExcludeCategories: categoryStrings(opts.ExcludeCategories),
		Limit:             limit,
		Sort:              c.profile.SortValue,
	}
	if opts.PublishedAfter != nil {
		q.PublishedAfter = *opts.PublishedAfter
	}
	return q, nil
}

// SuggestedTopics returns the static popular search topics.
func (c *Client) SuggestedTopics() []string { return SuggestedTopics() }

// fetch issues exactly one GET and normalizes the response.
func (c *Client) fetch(ctx context.Context, op, path string, q Query) ([]domain.Article, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	endpoint := c.baseURL + path
	params := q.Values(c.profile.Params)
	if c.token != "" {
		params.Set(c.profile.Params.Token, c.token)
	}

	requestID := c.newID()
	headers := make(map[string]string, len(c.profile.Headers)+1)
	for k, v := range c.profile.Headers {
		headers[k] = v
	}
	headers["X-Request-ID"] = requestID

	start := time.Now()
	resp, err := c.http.Get(ctx, endpoint, params, headers)
	if err != nil {
		netErr := newNetworkError(op, endpoint, err)
		c.log.WarnObj("news api request failed", "newsapi_error", map[string]any{
			"op":         op,
			"request_id": requestID,
			"timeout":    netErr.Timeout,
			"error":      err.Error(),
		})
		return nil, netErr
	}

	status := resp.StatusCode()
	body := resp.Body()
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		provErr := &ProviderError{Status: status, Body: responseSnippet(body)}
		if code, msg, ok := errorDetail(body); ok {
			provErr.Code = code
			provErr.Message = msg
		}
		c.log.WarnObj("news api returned error status", "newsapi_error", map[string]any{
			"op":         op,
			"request_id": requestID,
			"status":     status,
			"code":       provErr.Code,
		})
		return nil, provErr
	}

	items, err := decodeCollection(status, body, c.unwrapKey)
	if err != nil {
		c.log.WarnObj("news api returned unusable payload", "newsapi_error", map[string]any{
			"op":         op,
			"request_id": requestID,
			"error":      err.Error(),
		})
		return nil, err
	}

	articles := normalizeItems(items, c.placeholder)
	c.log.DebugObj("news api request completed", "newsapi_result", map[string]any{
		"op":         op,
		"request_id": requestID,
		"articles":   len(articles),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return articles, nil
}

func categoryStrings(categories []domain.Category) []string {
	if len(categories) == 0 {
		return nil
	}
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, string(c))
	}
	return out
}
