package newsapi

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

const publishedAfterLayout = "2006-01-02T15:04:05"

// Query is the request configuration for one call. Zero values are omitted
// from the outgoing request; the provider treats an empty parameter
// differently from an absent one.
type Query struct {
	Locale            string
	Language          string
	Categories        []string
	ExcludeCategories []string
	Search            string
	Limit             int
	PublishedAfter    time.Time
	Sort              string
}

// Values renders q with the provider's parameter names.
func (q Query) Values(p ParamNames) url.Values {
	v := url.Values{}
	setIf(v, p.Locale, q.Locale)
	setIf(v, p.Language, q.Language)
	setIf(v, p.Categories, joinList(q.Categories))
	setIf(v, p.ExcludeCategories, joinList(q.ExcludeCategories))
	setIf(v, p.Search, q.Search)
	if q.Limit > 0 {
		setIf(v, p.Limit, strconv.Itoa(q.Limit))
	}
	if !q.PublishedAfter.IsZero() {
		setIf(v, p.PublishedAfter, q.PublishedAfter.UTC().Format(publishedAfterLayout))
	}
	setIf(v, p.Sort, q.Sort)
	return v
}

func setIf(v url.Values, key, value string) {
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" || value == "" {
		return
	}
	v.Set(key, value)
}

// joinList comma-joins values, dropping blanks and repeats while keeping order.
func joinList(values []string) string {
	return strings.Join(cleanList(values), ",")
}

func cleanList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, raw := range values {
		for _, part := range strings.Split(raw, ",") {
			val := strings.TrimSpace(part)
			if val == "" {
				continue
			}
			if _, dup := seen[val]; dup {
				continue
			}
			seen[val] = struct{}{}
			out = append(out, val)
		}
	}
	return out
}
