package publishers

import (
	"context"
	"encoding/json"
	"testing"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
	"github.com/Adda-Baaj/khobor-reader/internal/domain"
)

func TestGCPPubSubPublisherPublishesToEmulator(t *testing.T) {
	srv := pstest.NewServer()
	defer srv.Close()

	ctx := context.Background()
	cfg := &GCPPubSubPublisherConfig{ProjectID: "test-project", Topic: "articles", Endpoint: srv.Addr}

	admin, err := pubsub.NewClient(ctx, cfg.ProjectID, pubSubOptions(cfg)...)
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	defer admin.Close()
	if _, err := admin.CreateTopic(ctx, cfg.Topic); err != nil {
		t.Fatalf("create topic: %v", err)
	}

	pub, err := newGCPPubSubPublisher(ctx, PublisherConfig{ID: "ps", Type: TypeGCPPubSub, GCPPubSub: cfg}, nil)
	if err != nil {
		t.Fatalf("newGCPPubSubPublisher: %v", err)
	}
	defer pub.(Closer).Close()

	if err := pub.Publish(ctx, NewEvent("headlines", domain.Article{Key: "a1"})); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	msgs := srv.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Attributes["feed"] != "headlines" {
		t.Fatalf("unexpected attributes %#v", msgs[0].Attributes)
	}
	var evt Event
	if err := json.Unmarshal(msgs[0].Data, &evt); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if evt.Article.Key != "a1" {
		t.Fatalf("unexpected event %+v", evt)
	}
}
