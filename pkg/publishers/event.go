package publishers

import (
	"time"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
)

// Event is the payload relayed downstream for every fetched article.
type Event struct {
	Feed        string         `json:"feed"`
	Article     domain.Article `json:"article"`
	CollectedAt time.Time      `json:"collected_at"`
}

// NewEvent constructs an Event for an article fetched by the named feed.
func NewEvent(feed string, article domain.Article) Event {
	return Event{
		Feed:        feed,
		Article:     article,
		CollectedAt: time.Now().UTC(),
	}
}

// attributes are the routing attributes attached to queue/topic messages.
// Blank values are omitted since SQS and SNS reject them.
func (e Event) attributes() map[string]string {
	attrs := make(map[string]string, 2)
	if e.Feed != "" {
		attrs["feed"] = e.Feed
	}
	if e.Article.Key != "" {
		attrs["article_key"] = e.Article.Key
	}
	return attrs
}
