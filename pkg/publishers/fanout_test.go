package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/logger"
)

// recordingSink remembers every event it receives and can be closed.
type recordingSink struct {
	id       string
	typ      string
	err      error
	closeErr error
	events   []Event
	closed   int
}

func (s *recordingSink) ID() string   { return s.id }
func (s *recordingSink) Type() string { return s.typ }
func (s *recordingSink) Publish(_ context.Context, evt Event) error {
	s.events = append(s.events, evt)
	return s.err
}
func (s *recordingSink) Close() error {
	s.closed++
	return s.closeErr
}

// plainSink has no Close method.
type plainSink struct{ id string }

func (p *plainSink) ID() string                           { return p.id }
func (p *plainSink) Type() string                         { return TypeHTTP }
func (p *plainSink) Publish(context.Context, Event) error { return nil }

func TestFanoutDeliversArticleEventToEverySink(t *testing.T) {
	first := &recordingSink{id: "queue", typ: TypeSQS}
	second := &recordingSink{id: "topic", typ: TypeSNS}
	fanout := NewFanout([]Publisher{first, nil, second})
	if fanout.Size() != 2 {
		t.Fatalf("expected nil publishers to be dropped, size %d", fanout.Size())
	}

	evt := NewEvent("category:sports", domain.Article{Key: "u1", Title: "Derby day"})
	count, err := fanout.Publish(context.Background(), evt)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 deliveries, got %d", count)
	}
	for _, sink := range []*recordingSink{first, second} {
		if len(sink.events) != 1 {
			t.Fatalf("%s received %d events", sink.id, len(sink.events))
		}
		got := sink.events[0]
		if got.Feed != "category:sports" || got.Article.Key != "u1" || got.CollectedAt.IsZero() {
			t.Fatalf("%s received unexpected event %+v", sink.id, got)
		}
	}
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	fanout := NewFanout([]Publisher{
		&recordingSink{id: "ok", typ: TypeHTTP},
		&recordingSink{id: "bad", typ: TypeSQS, err: errors.New("queue unavailable")},
	})

	count, err := fanout.Publish(context.Background(), NewEvent("headlines", domain.Article{Key: "a"}))
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil || !strings.Contains(err.Error(), "sqs publisher[bad]") {
		t.Fatalf("expected error naming the failing publisher, got %v", err)
	}
}

func TestFanoutCloseReleasesClosersAndJoinsErrors(t *testing.T) {
	ok := &recordingSink{id: "pubsub", typ: TypeGCPPubSub}
	failing := &recordingSink{id: "other", typ: TypeGCPPubSub, closeErr: errors.New("stop failed")}
	fanout := NewFanout([]Publisher{ok, &plainSink{id: "hook"}, failing})

	err := fanout.Close()
	if err == nil || !strings.Contains(err.Error(), "gcp_pubsub publisher[other]") {
		t.Fatalf("expected close error for failing sink, got %v", err)
	}
	if ok.closed != 1 || failing.closed != 1 {
		t.Fatalf("expected every closer to be closed once, got %d and %d", ok.closed, failing.closed)
	}

	var nilFanout *Fanout
	if err := nilFanout.Close(); err != nil {
		t.Fatalf("nil fanout Close: %v", err)
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "http", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com"}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(pubs) != 1 || pubs[0].ID() != "http" {
		t.Fatalf("unexpected publishers %+v", pubs)
	}
}

func TestBuildAllClosesBuiltPublishersOnFailure(t *testing.T) {
	built := &recordingSink{id: "first", typ: TypeGCPPubSub}
	reg := NewRegistry(map[string]Builder{
		TypeGCPPubSub: func(context.Context, PublisherConfig, logger.Logger) (Publisher, error) {
			return built, nil
		},
		TypeSQS: func(context.Context, PublisherConfig, logger.Logger) (Publisher, error) {
			return nil, errors.New("no queue")
		},
	})

	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "first", Type: TypeGCPPubSub},
		{ID: "second", Type: TypeSQS},
	}, nil)
	if err == nil || !strings.Contains(err.Error(), `build publisher "second"`) {
		t.Fatalf("expected build error, got %v", err)
	}
	if pubs != nil {
		t.Fatalf("expected no publishers, got %+v", pubs)
	}
	if built.closed != 1 {
		t.Fatalf("expected already built publisher to be closed, closed=%d", built.closed)
	}
}
