package newsapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ValidationError reports caller input rejected before any request was sent.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NetworkError reports that the provider could not be reached: timeout, DNS
// failure, refused or reset connection, or a cancelled context.
type NetworkError struct {
	Op      string
	URL     string
	Timeout bool
	Err     error
}

func (e *NetworkError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("%s: provider %s timed out", e.Op, e.URL)
	case errors.Is(e.Err, context.Canceled):
		return fmt.Sprintf("%s: request to %s cancelled", e.Op, e.URL)
	default:
		return fmt.Sprintf("%s: provider %s unreachable", e.Op, e.URL)
	}
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ProviderError reports that the provider answered but signalled failure,
// either with a non-success status or with an error payload.
type ProviderError struct {
	Status  int
	Code    string
	Message string
	// Body is a trimmed snippet of the raw response for diagnostics.
	Body string
}

func (e *ProviderError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("provider returned status %d (%s): %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("provider returned status %d: %s", e.Status, msg)
}

// Unauthorized reports an authentication or authorization failure, which is
// how a missing or invalid API token surfaces.
func (e *ProviderError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

func newNetworkError(op, endpoint string, err error) *NetworkError {
	return &NetworkError{
		Op:      op,
		URL:     endpoint,
		Timeout: isTimeout(err),
		Err:     err,
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
