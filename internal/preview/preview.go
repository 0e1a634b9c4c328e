package preview

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/logger"
	"github.com/Adda-Baaj/khobor-reader/pkg/httpclient"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB
)

// Details is the Open Graph view of an article page.
type Details struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	SiteName    string `json:"site_name"`
}

// Previewer fetches article pages and extracts metadata from OG tags. It is
// only invoked on explicit request, never as part of a list fetch.
type Previewer struct {
	client  httpclient.Client
	headers map[string]string
	log     logger.Logger
}

// NewPreviewer constructs a previewer with the provided HTTP client.
func NewPreviewer(client httpclient.Client, headers map[string]string, log logger.Logger) *Previewer {
	return &Previewer{client: client, headers: headers, log: logger.Ensure(log)}
}

// Preview fetches rawURL and returns its metadata.
func (p *Previewer) Preview(ctx context.Context, rawURL string) (Details, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return Details{}, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Details{}, fmt.Errorf("refusing to preview URL with scheme %q (only http/https allowed)", u.Scheme)
	}

	resp, err := p.client.Get(ctx, u.String(), nil, p.headers)
	if err != nil {
		return Details{}, fmt.Errorf("http fetch: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		snippet := strings.TrimSpace(string(resp.Body()))
		if len(snippet) > 1024 {
			snippet = snippet[:1024]
		}
		return Details{}, fmt.Errorf("status %d body: %s", resp.StatusCode(), snippet)
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	meta, err := parseMeta(body)
	if err != nil {
		return Details{}, err
	}
	meta.URL = u.String()
	meta.ImageURL = resolveURL(meta.ImageURL, meta.URL)

	p.log.DebugObj("article preview fetched", "preview_meta", map[string]any{
		"url":       meta.URL,
		"has_image": meta.ImageURL != "",
	})
	return meta, nil
}

// Enrich fills the blank description and placeholder image of art from its
// page metadata. The article is returned unchanged on failure.
func (p *Previewer) Enrich(ctx context.Context, art domain.Article, placeholder string) domain.Article {
	if art.URL == "" {
		return art
	}
	meta, err := p.Preview(ctx, art.URL)
	if err != nil {
		p.log.WarnObj("article metadata scrape failed", "metadata_error", map[string]any{
			"url":   art.URL,
			"error": err.Error(),
		})
		return art
	}

	updated := art
	if updated.Title == "" && meta.Title != "" {
		updated.Title = meta.Title
	}
	if updated.Description == "" && meta.Description != "" {
		updated.Description = meta.Description
	}
	if (updated.ImageURL == "" || updated.ImageURL == placeholder) && meta.ImageURL != "" {
		updated.ImageURL = meta.ImageURL
	}
	if updated.SourceName == "" && meta.SiteName != "" {
		updated.SourceName = meta.SiteName
	}
	return updated
}

func parseMeta(body []byte) (Details, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Details{}, fmt.Errorf("parse html: %w", err)
	}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	return Details{
		Title: firstNonEmpty(
			extract(`meta[property="og:title"]`),
			strings.TrimSpace(doc.Find("title").First().Text()),
		),
		Description: firstNonEmpty(
			extract(`meta[property="og:description"]`),
			extract(`meta[name="description"]`),
		),
		ImageURL: firstNonEmpty(
			extract(`meta[property="og:image"]`),
			extract(`meta[name="twitter:image"]`),
		),
		SiteName: extract(`meta[property="og:site_name"]`),
	}, nil
}

// resolveURL makes ref absolute against base; blank refs stay blank.
func resolveURL(ref, base string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
