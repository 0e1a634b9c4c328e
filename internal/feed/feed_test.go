package feed

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
)

func articles(keys ...string) []domain.Article {
	out := make([]domain.Article, 0, len(keys))
	for _, k := range keys {
		out = append(out, domain.Article{Key: k})
	}
	return out
}

func TestLoadPopulated(t *testing.T) {
	f := New("headlines", nil)
	if got := f.Snapshot().State; got != Idle {
		t.Fatalf("initial state = %s", got)
	}

	snap, err := f.Load(context.Background(), "us", func(context.Context) ([]domain.Article, error) {
		return articles("a", "b"), nil
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.State != Populated || len(snap.Articles) != 2 || snap.Label != "us" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestEmptyAndFailedAreDistinct(t *testing.T) {
	f := New("search", nil)

	snap, err := f.Load(context.Background(), "nothing", func(context.Context) ([]domain.Article, error) {
		return []domain.Article{}, nil
	})
	if err != nil || snap.State != Empty || snap.Err != nil {
		t.Fatalf("expected empty state, got %+v err=%v", snap, err)
	}
	if snap.Articles == nil {
		t.Fatalf("empty state should carry a non-nil slice")
	}

	boom := errors.New("upstream down")
	snap, err = f.Load(context.Background(), "ai", func(context.Context) ([]domain.Article, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if snap.State != Failed || !errors.Is(snap.Err, boom) || len(snap.Articles) != 0 {
		t.Fatalf("expected failed state without articles, got %+v", snap)
	}
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	f := New("category", nil)

	started := make(chan struct{})
	release := make(chan struct{})
	var slowCtxErr error

	var wg sync.WaitGroup
	wg.Add(1)
	var slowSnap Snapshot
	var slowErr error
	go func() {
		defer wg.Done()
		slowSnap, slowErr = f.Load(context.Background(), "sports", func(ctx context.Context) ([]domain.Article, error) {
			close(started)
			<-release
			slowCtxErr = ctx.Err()
			return articles("stale"), nil
		})
	}()

	<-started
	fresh, err := f.Load(context.Background(), "health", func(context.Context) ([]domain.Article, error) {
		return articles("fresh"), nil
	})
	if err != nil {
		t.Fatalf("fresh load: %v", err)
	}
	close(release)
	wg.Wait()

	if !errors.Is(slowErr, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", slowErr)
	}
	if !errors.Is(slowCtxErr, context.Canceled) {
		t.Fatalf("superseded load context should be cancelled, got %v", slowCtxErr)
	}
	if slowSnap.Generation != fresh.Generation {
		t.Fatalf("superseded load should report latest snapshot")
	}

	final := f.Snapshot()
	if final.Label != "health" || len(final.Articles) != 1 || final.Articles[0].Key != "fresh" {
		t.Fatalf("stale result overwrote fresh one: %+v", final)
	}
}

func TestRefreshRerunsLastLoad(t *testing.T) {
	f := New("headlines", nil)

	if snap, err := f.Refresh(context.Background()); err != nil || snap.State != Idle {
		t.Fatalf("refresh on idle feed: %+v %v", snap, err)
	}

	calls := 0
	load := func(context.Context) ([]domain.Article, error) {
		calls++
		return articles("x"), nil
	}
	if _, err := f.Load(context.Background(), "us", load); err != nil {
		t.Fatalf("Load: %v", err)
	}
	snap, err := f.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if calls != 2 || snap.Label != "us" || snap.Generation != 2 {
		t.Fatalf("unexpected refresh result calls=%d snap=%+v", calls, snap)
	}
}

func TestOnChangeSeesLoadingThenResult(t *testing.T) {
	f := New("headlines", nil)
	var states []State
	f.OnChange(func(s Snapshot) { states = append(states, s.State) })

	_, _ = f.Load(context.Background(), "us", func(context.Context) ([]domain.Article, error) {
		return nil, nil
	})
	if len(states) != 2 || states[0] != Loading || states[1] != Empty {
		t.Fatalf("unexpected transitions %v", states)
	}
}

func TestNilLoader(t *testing.T) {
	f := New("x", nil)
	if _, err := f.Load(context.Background(), "", nil); err == nil {
		t.Fatalf("expected error for nil loader")
	}
}

func TestResetReturnsToIdleAndDropsPendingResult(t *testing.T) {
	f := New("search", nil)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := f.Load(context.Background(), "ai", func(context.Context) ([]domain.Article, error) {
			close(started)
			<-release
			return articles("late"), nil
		})
		done <- err
	}()

	<-started
	f.Reset()
	close(release)

	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}
	snap := f.Snapshot()
	if snap.State != Idle || len(snap.Articles) != 0 || snap.Label != "" {
		t.Fatalf("expected idle feed, got %+v", snap)
	}
	if got, _ := f.Refresh(context.Background()); got.State != Idle {
		t.Fatalf("refresh after reset should stay idle, got %s", got.State)
	}
}

func TestLoadAcceptsNilContext(t *testing.T) {
	f := New("headlines", nil)
	var ctx context.Context

	snap, err := f.Load(ctx, "us", func(loadCtx context.Context) ([]domain.Article, error) {
		if loadCtx == nil {
			return nil, errors.New("loader got nil context")
		}
		return articles("a"), nil
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.State != Populated {
		t.Fatalf("state = %s", snap.State)
	}
}
