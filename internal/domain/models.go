package domain

import (
	"fmt"
	"strings"
	"time"
)

// Domain contains core models and interfaces.

// Article is one normalized news item. Every field except Key may be empty.
type Article struct {
	Key         string    `json:"key"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url"`
	SourceName  string    `json:"source_name,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
	URL         string    `json:"url"`
	Categories  []string  `json:"categories,omitempty"`
	Keywords    []string  `json:"keywords,omitempty"`
	Language    string    `json:"language,omitempty"`
	Locale      string    `json:"locale,omitempty"`
}

// HasPublishedAt reports whether the provider supplied a usable timestamp.
func (a Article) HasPublishedAt() bool {
	return !a.PublishedAt.IsZero()
}

// Category is one of the fixed headline topic tags.
type Category string

const (
	CategoryBusiness      Category = "business"
	CategoryEntertainment Category = "entertainment"
	CategoryGeneral       Category = "general"
	CategoryHealth        Category = "health"
	CategoryScience       Category = "science"
	CategorySports        Category = "sports"
	CategoryTechnology    Category = "technology"
)

var categories = []Category{
	CategoryBusiness,
	CategoryEntertainment,
	CategoryGeneral,
	CategoryHealth,
	CategoryScience,
	CategorySports,
	CategoryTechnology,
}

// Categories returns the closed category set in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory validates a user supplied category name.
func ParseCategory(raw string) (Category, error) {
	key := Category(strings.ToLower(strings.TrimSpace(raw)))
	for _, c := range categories {
		if c == key {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", raw)
}

// Label returns the capitalized display name.
func (c Category) Label() string {
	if c == "" {
		return ""
	}
	s := string(c)
	return strings.ToUpper(s[:1]) + s[1:]
}
