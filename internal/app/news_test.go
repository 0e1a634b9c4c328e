package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Adda-Baaj/khobor-reader/internal/config"
	"github.com/Adda-Baaj/khobor-reader/pkg/httpclient"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write profile file: %v", err)
	}
	return file
}

func newArticlesServer(t *testing.T, wantPath string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != wantPath {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","articles":[{"uuid":"u1","title":"From profile"}]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewNewsClientUsesProfileUnwrapKey(t *testing.T) {
	srv := newArticlesServer(t, "/top-headlines")
	cfg := &config.Config{
		NewsAPIBaseURL:     srv.URL,
		NewsAPIToken:       "tok",
		NewsAPIProfileFile: writeProfile(t, "profile:\n  headlines_path: /top-headlines\n  unwrap_key: articles\n"),
		RequestTimeout:     5 * time.Second,
	}

	client, err := NewNewsClient(cfg, httpclient.NewRestyClient(cfg.RequestTimeout), nil)
	if err != nil {
		t.Fatalf("NewNewsClient: %v", err)
	}

	arts, err := client.TopHeadlines(context.Background(), "us")
	if err != nil {
		t.Fatalf("TopHeadlines: %v", err)
	}
	if len(arts) != 1 || arts[0].Title != "From profile" {
		t.Fatalf("unexpected articles %+v", arts)
	}
}

func TestNewNewsClientConfigUnwrapKeyOverridesProfile(t *testing.T) {
	srv := newArticlesServer(t, "/news/top")
	cfg := &config.Config{
		NewsAPIBaseURL:     srv.URL,
		NewsAPIUnwrapKey:   "articles",
		NewsAPIProfileFile: writeProfile(t, "profile:\n  unwrap_key: results\n"),
		RequestTimeout:     5 * time.Second,
	}

	client, err := NewNewsClient(cfg, httpclient.NewRestyClient(cfg.RequestTimeout), nil)
	if err != nil {
		t.Fatalf("NewNewsClient: %v", err)
	}

	arts, err := client.TopHeadlines(context.Background(), "")
	if err != nil {
		t.Fatalf("TopHeadlines: %v", err)
	}
	if len(arts) != 1 {
		t.Fatalf("expected 1 article, got %d", len(arts))
	}
}

func TestNewNewsClientRejectsMissingProfileFile(t *testing.T) {
	cfg := &config.Config{
		NewsAPIBaseURL:     "https://news.example.com/v1",
		NewsAPIProfileFile: filepath.Join(t.TempDir(), "missing.yaml"),
	}
	if _, err := NewNewsClient(cfg, nil, nil); err == nil {
		t.Fatalf("expected error for missing profile file")
	}
}
