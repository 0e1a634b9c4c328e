package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/feed"
	"github.com/Adda-Baaj/khobor-reader/internal/preview"
	"github.com/Adda-Baaj/khobor-reader/pkg/newsapi"
	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorBody    = lipgloss.AdaptiveColor{Light: "#3D3D3D", Dark: "#ABABAB"}
	colorDim     = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
	colorBorder  = lipgloss.AdaptiveColor{Light: "#DBDBDB", Dark: "#383838"}
	colorGreen   = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"}
	colorError   = lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#F25D94"}

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	bodyStyle   = lipgloss.NewStyle().Foreground(colorBody)
	sourceStyle = lipgloss.NewStyle().Foreground(colorGreen)
	dimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	linkStyle   = lipgloss.NewStyle().Foreground(colorDim).Italic(true)
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	tagStyle    = lipgloss.NewStyle().Foreground(colorPrimary).Padding(0, 1)
)

const (
	descriptionLines = 3
	minWidth         = 30
)

func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// renderCard draws one article. Missing fields fall back to neutral text.
func renderCard(idx int, a domain.Article, placeholder string, width int) string {
	if width < minWidth {
		width = minWidth
	}
	inner := width - 4

	title := a.Title
	if title == "" {
		title = "No Title"
	}
	lines := []string{titleStyle.Render(truncateStr(fmt.Sprintf("%d. %s", idx, title), inner))}

	if a.Description != "" {
		lines = append(lines, bodyStyle.Render(truncateStr(a.Description, inner*descriptionLines)))
	}

	meta := []string{}
	if a.SourceName != "" {
		meta = append(meta, sourceStyle.Render(a.SourceName))
	}
	if a.HasPublishedAt() {
		meta = append(meta, dimStyle.Render(relativeTime(a.PublishedAt)))
	}
	if len(meta) > 0 {
		lines = append(lines, strings.Join(meta, dimStyle.Render(" · ")))
	}
	if a.URL != "" {
		lines = append(lines, linkStyle.Render(truncateStr(a.URL, inner)))
	}
	if a.ImageURL != "" && a.ImageURL != placeholder {
		lines = append(lines, dimStyle.Render("image: "+truncateStr(a.ImageURL, inner-7)))
	}

	return cardStyle.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func renderSnapshot(w io.Writer, snap feed.Snapshot, placeholder string, width int) {
	header := snap.Name
	if snap.Label != "" {
		header += " · " + snap.Label
	}
	fmt.Fprintln(w, headerStyle.Render(header))

	switch snap.State {
	case feed.Idle:
		fmt.Fprintln(w, dimStyle.Render("Nothing loaded yet"))
	case feed.Loading:
		fmt.Fprintln(w, dimStyle.Render("Loading..."))
	case feed.Empty:
		fmt.Fprintln(w, dimStyle.Render("No articles found"))
	case feed.Failed:
		fmt.Fprintln(w, errorStyle.Render("Failed to load news: "+describeError(snap.Err)))
	case feed.Populated:
		for i, a := range snap.Articles {
			fmt.Fprintln(w, renderCard(i+1, a, placeholder, width))
		}
		fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%d articles", len(snap.Articles))))
	}
}

func renderDetails(w io.Writer, d preview.Details, width int) {
	if width < minWidth {
		width = minWidth
	}
	lines := []string{titleStyle.Render(firstNonEmpty(d.Title, "No Title"))}
	if d.SiteName != "" {
		lines = append(lines, sourceStyle.Render(d.SiteName))
	}
	lines = append(lines, bodyStyle.Render(firstNonEmpty(d.Description, "No description available")))
	if d.ImageURL != "" {
		lines = append(lines, dimStyle.Render("image: "+d.ImageURL))
	}
	lines = append(lines, linkStyle.Render(d.URL))
	fmt.Fprintln(w, cardStyle.Width(width-2).Render(strings.Join(lines, "\n")))
}

func renderList(w io.Writer, title string, items []string) {
	fmt.Fprintln(w, headerStyle.Render(title))
	if len(items) == 0 {
		fmt.Fprintln(w, dimStyle.Render("(none)"))
		return
	}
	tags := make([]string, len(items))
	for i, item := range items {
		tags[i] = tagStyle.Render(item)
	}
	fmt.Fprintln(w, strings.Join(tags, " "))
}

// describeError turns data client failures into reader facing text.
func describeError(err error) string {
	if err == nil {
		return "unknown error"
	}

	var (
		verr *newsapi.ValidationError
		perr *newsapi.ProviderError
		nerr *newsapi.NetworkError
	)
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.As(err, &perr) && perr.Unauthorized():
		return "the news provider rejected the API token (check NEWS_API_TOKEN)"
	case errors.As(err, &perr):
		return fmt.Sprintf("the news provider returned an error (status %d)", perr.Status)
	case errors.As(err, &nerr) && nerr.Timeout:
		return "the request timed out"
	case errors.As(err, &nerr):
		return "unable to reach the news provider, check your connection"
	default:
		return err.Error()
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
