package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestRestyClientGetSendsQueryAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("locale"); got != "us" {
			t.Errorf("locale = %q", got)
		}
		if _, ok := r.URL.Query()["category"]; ok {
			t.Errorf("unexpected category parameter")
		}
		if got := r.Header.Get("X-Test"); got != "1" {
			t.Errorf("X-Test header = %q", got)
		}
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))
	defer srv.Close()

	client := NewRestyClient(2 * time.Second)
	resp, err := client.Get(context.Background(), srv.URL, url.Values{"locale": {"us"}}, map[string]string{"X-Test": "1"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode() != http.StatusTeapot {
		t.Fatalf("StatusCode = %d", resp.StatusCode())
	}
	if string(resp.Body()) != "short and stout" {
		t.Fatalf("Body = %q", resp.Body())
	}
}

func TestRestyClientGetReturnsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	client := NewRestyClient(time.Second)
	if _, err := client.Get(context.Background(), addr, nil, nil); err == nil {
		t.Fatalf("expected error for closed server")
	}
}
