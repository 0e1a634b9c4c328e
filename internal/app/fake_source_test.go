package app

import (
	"context"
	"sync"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/pkg/newsapi"
)

type sourceCall struct {
	op         string
	locale     string
	category   domain.Category
	categories []domain.Category
	query      string
	opts       newsapi.SearchOptions
}

// fakeSource records calls and serves canned results.
type fakeSource struct {
	mu       sync.Mutex
	calls    []sourceCall
	articles []domain.Article
	err      error
	topics   []string
}

func (f *fakeSource) record(c sourceCall) ([]domain.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Article, len(f.articles))
	copy(out, f.articles)
	return out, nil
}

func (f *fakeSource) TopHeadlines(_ context.Context, locale string) ([]domain.Article, error) {
	return f.record(sourceCall{op: "headlines", locale: locale})
}

func (f *fakeSource) ByCategory(_ context.Context, c domain.Category, locale string) ([]domain.Article, error) {
	return f.record(sourceCall{op: "category", category: c, locale: locale})
}

func (f *fakeSource) ByCategories(_ context.Context, cs []domain.Category, locale string) ([]domain.Article, error) {
	return f.record(sourceCall{op: "categories", categories: cs, locale: locale})
}

func (f *fakeSource) Search(_ context.Context, q string, opts newsapi.SearchOptions) ([]domain.Article, error) {
	return f.record(sourceCall{op: "search", query: q, opts: opts})
}

func (f *fakeSource) SuggestedTopics() []string { return f.topics }

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeSource) lastCall() sourceCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}
