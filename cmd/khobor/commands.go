package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Adda-Baaj/khobor-reader/internal/app"
	"github.com/Adda-Baaj/khobor-reader/internal/config"
	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/feed"
	"github.com/Adda-Baaj/khobor-reader/internal/logger"
	"github.com/Adda-Baaj/khobor-reader/internal/preview"
	"github.com/Adda-Baaj/khobor-reader/pkg/httpclient"
	"github.com/Adda-Baaj/khobor-reader/pkg/newsapi"
	"github.com/spf13/cobra"
)

var errLoadFailed = errors.New("news could not be loaded")

type options struct {
	locale   string
	logLevel string
	width    int
}

// session holds what every command needs once config is loaded.
type session struct {
	out         io.Writer
	errOut      io.Writer
	width       int
	placeholder string
	reader      *app.Reader
	previewer   *preview.Previewer
	current     string
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}
	s := &session{out: out}

	root := &cobra.Command{
		Use:           "khobor",
		Short:         "Read news headlines in the terminal",
		Long:          "khobor fetches top headlines, category news and search results from a news API and renders them as cards.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.setup(cmd, opts)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.show(s.reader.Headlines(cmd.Context()))
		},
	}

	root.PersistentFlags().StringVar(&opts.locale, "locale", "", "country code for headlines (default from config)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	root.PersistentFlags().IntVar(&opts.width, "width", 80, "card width in columns")

	root.AddCommand(
		headlinesCmd(s),
		categoryCmd(s),
		mixCmd(s),
		searchCmd(s),
		topicsCmd(s),
		previewCmd(s),
		shellCmd(s),
	)
	return root
}

func (s *session) setup(cmd *cobra.Command, opts *options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	locale := cfg.DefaultLocale
	if opts.locale != "" {
		locale = opts.locale
	}

	client, err := app.NewNewsClient(cfg, nil, log)
	if err != nil {
		return err
	}
	reader, err := app.NewReader(client, locale, log)
	if err != nil {
		return err
	}

	logger.DebugObj("reader starting", "config", cfg.Summary())

	s.errOut = cmd.ErrOrStderr()
	s.width = opts.width
	s.placeholder = cfg.PlaceholderImageURL
	s.reader = reader
	s.previewer = preview.NewPreviewer(httpclient.NewRestyClient(cfg.RequestTimeout), map[string]string{
		"User-Agent": cfg.AppName,
	}, log)

	for _, name := range []string{app.FeedHeadlines, app.FeedCategory, app.FeedMixed, app.FeedSearch} {
		reader.Feed(name).OnChange(s.onChange)
	}
	return nil
}

func (s *session) onChange(snap feed.Snapshot) {
	if snap.State == feed.Loading && s.errOut != nil {
		fmt.Fprintln(s.errOut, dimStyle.Render("Loading "+snap.Name+"..."))
	}
}

// show renders a feed result. Input errors are returned without rendering.
func (s *session) show(snap feed.Snapshot, err error) error {
	var verr *newsapi.ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	s.current = snap.Name
	renderSnapshot(s.out, snap, s.placeholder, s.width)
	if snap.State == feed.Failed {
		return errLoadFailed
	}
	return nil
}

func headlinesCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "headlines",
		Aliases: []string{"top"},
		Short:   "Show top headlines",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.show(s.reader.Headlines(cmd.Context()))
		},
	}
}

func categoryCmd(s *session) *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "category [name]",
		Short: "Show headlines for one category (default technology)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				renderList(s.out, "Categories", categoryLabels())
				return nil
			}
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return s.show(s.reader.Category(cmd.Context(), name))
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list available categories")
	return cmd
}

func mixCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "mix [category...]",
		Short: "Show a mixed feed across categories (default all)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.show(s.reader.Mixed(cmd.Context(), splitArgs(args)))
		},
	}
}

type searchFlags struct {
	language   string
	categories []string
	exclude    []string
	limit      int
	after      string
}

func (f searchFlags) options(now time.Time) (newsapi.SearchOptions, error) {
	opts := newsapi.SearchOptions{Language: f.language, Limit: f.limit}
	var err error
	if opts.Categories, err = parseCategories(f.categories); err != nil {
		return opts, err
	}
	if opts.ExcludeCategories, err = parseCategories(f.exclude); err != nil {
		return opts, err
	}
	if strings.TrimSpace(f.after) != "" {
		t, err := parseAfter(now, f.after)
		if err != nil {
			return opts, fmt.Errorf("invalid --after value: %w", err)
		}
		opts.PublishedAfter = &t
	}
	return opts, nil
}

func searchCmd(s *session) *cobra.Command {
	var f searchFlags
	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Search news by keyword",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(time.Now())
			if err != nil {
				return err
			}
			return s.show(s.reader.Search(cmd.Context(), strings.Join(args, " "), opts))
		},
	}
	cmd.Flags().StringVar(&f.language, "language", "", "result language (default from config)")
	cmd.Flags().StringSliceVar(&f.categories, "categories", nil, "only these categories")
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", nil, "exclude these categories")
	cmd.Flags().IntVar(&f.limit, "limit", 0, fmt.Sprintf("maximum results, 1-%d (default %d)", newsapi.MaxLimit, newsapi.DefaultLimit))
	cmd.Flags().StringVar(&f.after, "after", "", "only articles published after a date (2006-01-02) or within a duration (24h, 7d)")
	return cmd
}

func topicsCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "List popular search topics",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			renderList(s.out, "Popular Topics", s.reader.PopularTopics())
		},
	}
}

func previewCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <url>",
		Short: "Show the page metadata of an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := s.previewer.Preview(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("preview: %w", err)
			}
			renderDetails(s.out, d, s.width)
			return nil
		},
	}
}

func shellCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Browse interactively (type help for commands)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.repl(cmd.Context(), cmd.InOrStdin())
		},
	}
}

const shellHelp = `commands:
  h                  top headlines
  c [category]       category headlines (default technology)
  m [category...]    mixed feed
  s <query>          search
  r                  refresh the current feed
  p <n>              preview article n of the current feed
  history [clear]    recent searches
  clear              clear search results
  topics             popular topics
  q                  quit`

func (s *session) repl(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(s.out, dimStyle.Render(shellHelp))
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		verb, args := fields[0], fields[1:]
		if verb == "q" || verb == "quit" || verb == "exit" {
			return nil
		}
		if err := s.dispatch(ctx, verb, args); err != nil && !errors.Is(err, errLoadFailed) {
			fmt.Fprintln(s.out, errorStyle.Render(describeError(err)))
		}
	}
}

func (s *session) dispatch(ctx context.Context, verb string, args []string) error {
	switch verb {
	case "h", "headlines":
		return s.show(s.reader.Headlines(ctx))
	case "c", "category":
		return s.show(s.reader.Category(ctx, strings.Join(args, " ")))
	case "m", "mix":
		return s.show(s.reader.Mixed(ctx, splitArgs(args)))
	case "s", "search":
		return s.show(s.reader.Search(ctx, strings.Join(args, " "), newsapi.SearchOptions{}))
	case "r", "refresh":
		if s.current == "" {
			return errors.New("nothing to refresh yet")
		}
		return s.show(s.reader.Refresh(ctx, s.current))
	case "p", "preview":
		return s.previewArticle(ctx, args)
	case "history":
		if len(args) == 1 && args[0] == "clear" {
			s.reader.ClearHistory()
		}
		renderList(s.out, "Recent Searches", s.reader.History())
	case "clear":
		s.reader.ClearSearch()
		renderSnapshot(s.out, s.reader.Feed(app.FeedSearch).Snapshot(), s.placeholder, s.width)
	case "topics":
		renderList(s.out, "Popular Topics", s.reader.PopularTopics())
	case "help", "?":
		fmt.Fprintln(s.out, dimStyle.Render(shellHelp))
	default:
		return fmt.Errorf("unknown command %q (type help)", verb)
	}
	return nil
}

func (s *session) previewArticle(ctx context.Context, args []string) error {
	if s.current == "" || len(args) != 1 {
		return errors.New("usage: p <n> after loading a feed")
	}
	n, err := strconv.Atoi(args[0])
	articles := s.reader.Feed(s.current).Snapshot().Articles
	if err != nil || n < 1 || n > len(articles) {
		return fmt.Errorf("no article %q in the current feed", args[0])
	}

	art := articles[n-1]
	if art.URL == "" {
		renderDetails(s.out, preview.Details{Title: art.Title, Description: art.Description}, s.width)
		return nil
	}
	d, err := s.previewer.Preview(ctx, art.URL)
	if err != nil {
		// Fall back to what the feed already carries.
		d = preview.Details{URL: art.URL, Title: art.Title, Description: art.Description, SiteName: art.SourceName}
	}
	renderDetails(s.out, d, s.width)
	return nil
}

func categoryLabels() []string {
	cats := domain.Categories()
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = string(c)
	}
	return out
}

// splitArgs accepts both "a b" and "a,b".
func splitArgs(args []string) []string {
	var out []string
	for _, a := range args {
		for _, part := range strings.Split(a, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func parseCategories(raw []string) ([]domain.Category, error) {
	var out []domain.Category
	for _, v := range splitArgs(raw) {
		c, err := domain.ParseCategory(v)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// parseAfter accepts a date, an RFC 3339 timestamp or a duration back from
// now with an optional day suffix.
func parseAfter(now time.Time, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("empty value")
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	if strings.HasSuffix(raw, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(raw, "d"))
		if err != nil || days <= 0 {
			return time.Time{}, fmt.Errorf("invalid day count %q", raw)
		}
		return now.Add(-time.Duration(days) * 24 * time.Hour).UTC(), nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return time.Time{}, err
	}
	if d <= 0 {
		return time.Time{}, fmt.Errorf("duration must be positive, got %s", raw)
	}
	return now.Add(-d).UTC(), nil
}
