package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Adda-Baaj/khobor-reader/internal/app"
	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/feed"
	"github.com/Adda-Baaj/khobor-reader/pkg/newsapi"
)

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"abcd", 3, "abc"},
		{"", 5, ""},
		{"test", 0, ""},
		{"খবরের শিরোনাম", 6, "খবর..."},
	}
	for _, tt := range tests {
		if got := truncateStr(tt.input, tt.n); got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		t    time.Time
		want string
	}{
		{time.Time{}, ""},
		{now.Add(-30 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-2 * 24 * time.Hour), "2d ago"},
	}
	for _, tt := range tests {
		if got := relativeTime(tt.t); got != tt.want {
			t.Errorf("relativeTime(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestRenderSnapshotStates(t *testing.T) {
	tests := []struct {
		snap feed.Snapshot
		want string
	}{
		{feed.Snapshot{Name: "search", State: feed.Empty}, "No articles found"},
		{feed.Snapshot{Name: "search", State: feed.Loading}, "Loading..."},
		{feed.Snapshot{Name: "search", State: feed.Failed, Err: &newsapi.ProviderError{Status: 401}}, "Failed to load news"},
		{feed.Snapshot{Name: "headlines", State: feed.Populated, Articles: []domain.Article{{Key: "k", Title: "Chips rally"}}}, "Chips rally"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		renderSnapshot(&buf, tt.snap, newsapi.DefaultPlaceholderImage, 60)
		if !strings.Contains(buf.String(), tt.want) {
			t.Errorf("state %s: output %q missing %q", tt.snap.State, buf.String(), tt.want)
		}
	}
}

func TestRenderCardFallbacks(t *testing.T) {
	out := renderCard(1, domain.Article{Key: "k", ImageURL: newsapi.DefaultPlaceholderImage}, newsapi.DefaultPlaceholderImage, 60)
	if !strings.Contains(out, "No Title") {
		t.Fatalf("missing title fallback: %q", out)
	}
	if strings.Contains(out, "image:") {
		t.Fatalf("placeholder image should not be listed: %q", out)
	}
}

func TestRenderCardShowsPublishedTime(t *testing.T) {
	art := domain.Article{Key: "k", Title: "Fresh", SourceName: "e.com", PublishedAt: time.Now().Add(-5 * time.Minute)}
	out := renderCard(1, art, newsapi.DefaultPlaceholderImage, 60)
	if !strings.Contains(out, "5m ago") || !strings.Contains(out, "e.com") {
		t.Fatalf("missing meta line: %q", out)
	}

	art.PublishedAt = time.Time{}
	if out := renderCard(1, art, newsapi.DefaultPlaceholderImage, 60); strings.Contains(out, "ago") {
		t.Fatalf("zero timestamp should not render a relative time: %q", out)
	}
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&newsapi.ProviderError{Status: 403}, "API token"},
		{&newsapi.ProviderError{Status: 502}, "status 502"},
		{&newsapi.NetworkError{Timeout: true, Err: context.DeadlineExceeded}, "timed out"},
		{&newsapi.NetworkError{Err: errors.New("refused")}, "unable to reach"},
		{&newsapi.ValidationError{Field: "query", Reason: "must not be blank"}, "invalid query"},
		{nil, "unknown error"},
	}
	for _, tt := range tests {
		if got := describeError(tt.err); !strings.Contains(got, tt.want) {
			t.Errorf("describeError(%v) = %q, want substring %q", tt.err, got, tt.want)
		}
	}
}

func TestParseAfter(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		input string
		want  time.Time
		err   bool
	}{
		{"2024-03-02", time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), false},
		{"2024-03-02T05:00:00Z", time.Date(2024, 3, 2, 5, 0, 0, 0, time.UTC), false},
		{"7d", now.Add(-7 * 24 * time.Hour), false},
		{"24h", now.Add(-24 * time.Hour), false},
		{"0d", time.Time{}, true},
		{"-1h", time.Time{}, true},
		{"yesterday", time.Time{}, true},
		{"", time.Time{}, true},
	}
	for _, tt := range tests {
		got, err := parseAfter(now, tt.input)
		if tt.err {
			if err == nil {
				t.Errorf("parseAfter(%q): expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseAfter(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("parseAfter(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSearchFlagsOptions(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	f := searchFlags{
		language:   "en",
		categories: []string{"Tech"},
		limit:      10,
	}
	if _, err := f.options(now); err == nil {
		t.Fatalf("expected error for unknown category")
	}

	f.categories = []string{"technology,science"}
	f.exclude = []string{"sports"}
	f.after = "1d"
	opts, err := f.options(now)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if len(opts.Categories) != 2 || opts.ExcludeCategories[0] != domain.CategorySports || opts.Limit != 10 {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.PublishedAfter == nil || !opts.PublishedAfter.Equal(now.Add(-24*time.Hour)) {
		t.Fatalf("unexpected PublishedAfter %v", opts.PublishedAfter)
	}
}

// stubSource serves the same articles for every request.
type stubSource struct {
	articles []domain.Article
	queries  []string
}

func (s *stubSource) TopHeadlines(context.Context, string) ([]domain.Article, error) {
	return s.articles, nil
}

func (s *stubSource) ByCategory(context.Context, domain.Category, string) ([]domain.Article, error) {
	return s.articles, nil
}

func (s *stubSource) ByCategories(context.Context, []domain.Category, string) ([]domain.Article, error) {
	return s.articles, nil
}

func (s *stubSource) Search(_ context.Context, q string, _ newsapi.SearchOptions) ([]domain.Article, error) {
	s.queries = append(s.queries, q)
	return s.articles, nil
}

func (s *stubSource) SuggestedTopics() []string { return newsapi.SuggestedTopics() }

func TestShellSession(t *testing.T) {
	src := &stubSource{articles: []domain.Article{{Key: "k", Title: "Headline one"}}}
	reader, err := app.NewReader(src, "us", nil)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	var out bytes.Buffer
	s := &session{out: &out, width: 60, reader: reader}

	input := strings.Join([]string{"h", "s golang release", "history", "p 1", "clear", "c politics", "history clear", "q"}, "\n")
	if err := s.repl(context.Background(), strings.NewReader(input)); err != nil {
		t.Fatalf("repl: %v", err)
	}

	got := out.String()
	for _, want := range []string{"Headline one", "Recent Searches", "golang release", "No description available", "Nothing loaded yet", "invalid category", "(none)"} {
		if !strings.Contains(got, want) {
			t.Errorf("shell output missing %q", want)
		}
	}
	if len(src.queries) != 1 || src.queries[0] != "golang release" {
		t.Fatalf("unexpected queries %v", src.queries)
	}
}
