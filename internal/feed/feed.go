package feed

import (
	"context"
	"errors"
	"sync"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/logger"
)

// State is the render state of a list.
type State int

const (
	Idle State = iota
	Loading
	Empty
	Populated
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Empty:
		return "empty"
	case Populated:
		return "populated"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrSuperseded is returned by Load when a newer load replaced it before it
// completed. Its result was discarded.
var ErrSuperseded = errors.New("feed: load superseded by a newer request")

// Loader performs one fetch for a feed.
type Loader func(ctx context.Context) ([]domain.Article, error)

// Snapshot is an immutable view of a feed.
type Snapshot struct {
	Name       string
	Label      string
	State      State
	Articles   []domain.Article
	Err        error
	Generation uint64
}

// Feed holds the state of one list. Only the result of the most recent Load
// is ever applied; earlier in-flight loads are cancelled and their results
// dropped when they arrive.
type Feed struct {
	name string
	log  logger.Logger

	mu       sync.Mutex
	gen      uint64
	cancel   context.CancelFunc
	snap     Snapshot
	last     Loader
	lastName string
	onChange func(Snapshot)
}

// New returns an idle feed.
func New(name string, log logger.Logger) *Feed {
	return &Feed{
		name: name,
		log:  logger.Ensure(log),
		snap: Snapshot{Name: name, State: Idle},
	}
}

// OnChange registers fn to receive every applied snapshot. fn runs without
// the feed lock held.
func (f *Feed) OnChange(fn func(Snapshot)) {
	f.mu.Lock()
	f.onChange = fn
	f.mu.Unlock()
}

// Snapshot returns the current state.
func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

// Load runs load as the feed's current request. label describes the
// selection (category, query) for display.
func (f *Feed) Load(ctx context.Context, label string, load Loader) (Snapshot, error) {
	if load == nil {
		return f.Snapshot(), errors.New("feed: nil loader")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	f.mu.Lock()
	if f.cancel != nil {
		f.cancel()
	}
	f.gen++
	gen := f.gen
	loadCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.last = load
	f.lastName = label
	f.snap = Snapshot{Name: f.name, Label: label, State: Loading, Generation: gen}
	loading := f.snap
	notify := f.onChange
	f.mu.Unlock()

	if notify != nil {
		notify(loading)
	}

	articles, err := load(loadCtx)
	cancel()

	f.mu.Lock()
	if gen != f.gen {
		current := f.snap
		f.mu.Unlock()
		f.log.DebugObj("discarding stale feed result", "feed_stale", map[string]any{
			"feed":       f.name,
			"label":      label,
			"generation": gen,
			"latest":     current.Generation,
		})
		return current, ErrSuperseded
	}

	next := Snapshot{Name: f.name, Label: label, Generation: gen}
	switch {
	case err != nil:
		next.State = Failed
		next.Err = err
	case len(articles) == 0:
		next.State = Empty
		next.Articles = []domain.Article{}
	default:
		next.State = Populated
		next.Articles = articles
	}
	f.snap = next
	f.cancel = nil
	notify = f.onChange
	f.mu.Unlock()

	if err != nil {
		f.log.WarnObj("feed load failed", "feed_error", map[string]any{
			"feed":  f.name,
			"label": label,
			"error": err.Error(),
		})
	} else {
		f.log.DebugObj("feed loaded", "feed_loaded", map[string]any{
			"feed":     f.name,
			"label":    label,
			"articles": len(next.Articles),
		})
	}

	if notify != nil {
		notify(next)
	}
	return next, err
}

// Refresh re-runs the most recent load. An idle feed stays idle.
func (f *Feed) Refresh(ctx context.Context) (Snapshot, error) {
	f.mu.Lock()
	load, label := f.last, f.lastName
	f.mu.Unlock()

	if load == nil {
		return f.Snapshot(), nil
	}
	return f.Load(ctx, label, load)
}

// Reset cancels any in-flight load and returns the feed to Idle. A pending
// load resolving afterwards is discarded.
func (f *Feed) Reset() {
	f.mu.Lock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.gen++
	f.last = nil
	f.lastName = ""
	f.snap = Snapshot{Name: f.name, State: Idle, Generation: f.gen}
	snap := f.snap
	notify := f.onChange
	f.mu.Unlock()

	if notify != nil {
		notify(snap)
	}
}
