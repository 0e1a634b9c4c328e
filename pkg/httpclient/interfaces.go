package httpclient

import (
	"context"
	"net/url"
)

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
// A nil or empty query leaves the URL untouched.
type Client interface {
	Get(ctx context.Context, url string, query url.Values, headers map[string]string) (Response, error)
}
