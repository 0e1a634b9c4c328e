package newsapi

import (
	"strings"
	"time"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
)

// DefaultPlaceholderImage is substituted when an item has no image.
const DefaultPlaceholderImage = "https://via.placeholder.com/300x200?text=No+Image"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// normalizeItems maps raw items onto articles, keeping provider order. The
// result is never nil.
func normalizeItems(items []rawItem, placeholder string) []domain.Article {
	out := make([]domain.Article, 0, len(items))
	for _, item := range items {
		out = append(out, normalizeItem(item, placeholder))
	}
	return out
}

// normalizeItem is the single mapping from the provider schema to Article.
func normalizeItem(item rawItem, placeholder string) domain.Article {
	if placeholder == "" {
		placeholder = DefaultPlaceholderImage
	}

	link := str(item.URL)
	published := str(item.PublishedAt)

	art := domain.Article{
		Key:         deriveKey(str(item.UUID), link, published),
		Title:       str(item.Title),
		Description: firstNonEmpty(str(item.Description), str(item.Snippet)),
		ImageURL:    firstNonEmpty(str(item.ImageURL), placeholder),
		URL:         link,
		PublishedAt: parseTimestamp(published),
		Categories:  []string(item.Categories),
		Keywords:    []string(item.Keywords),
		Language:    str(item.Language),
		Locale:      str(item.Locale),
	}
	if item.Source != nil {
		art.SourceName = strings.TrimSpace(item.Source.Name)
	}
	return art
}

// deriveKey prefers the provider id and otherwise concatenates the URL and the
// raw publish timestamp. Two id-less items sharing both collide.
func deriveKey(id, link, published string) string {
	if id != "" {
		return id
	}
	return link + published
}

func parseTimestamp(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}
