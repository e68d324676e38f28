package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
)

func TestNewListingEvent(t *testing.T) {
	at := time.Date(2026, time.May, 21, 21, 30, 0, 0, time.FixedZone("PDT", -7*3600))
	ev := NewListingEvent(EntityVenue, ActionDeleted, 3, "Park Square", at)

	if ev.Type != "venue.deleted" {
		t.Fatalf("Type = %q, want venue.deleted", ev.Type)
	}
	if ev.OccurredAt != "2026-05-22T04:30:00Z" {
		t.Fatalf("OccurredAt = %q, want UTC timestamp", ev.OccurredAt)
	}
}

func TestNewPublishing(t *testing.T) {
	ev := NewListingEvent(EntityShow, ActionCreated, 9, "", time.Unix(0, 0))
	pub, err := newPublishing(ev)
	if err != nil {
		t.Fatalf("newPublishing: %v", err)
	}
	if pub.DeliveryMode != amqp.Persistent {
		t.Errorf("DeliveryMode = %d, want persistent", pub.DeliveryMode)
	}
	if pub.ContentType != "application/json" || pub.Type != "show.created" {
		t.Errorf("publishing headers = %q %q", pub.ContentType, pub.Type)
	}

	var got map[string]any
	if err := json.Unmarshal(pub.Body, &got); err != nil {
		t.Fatalf("body: %v", err)
	}
	if _, ok := got["name"]; ok {
		t.Errorf("empty name should be omitted: %s", pub.Body)
	}
	if got["entity"] != "show" || got["id"] != float64(9) {
		t.Errorf("body = %s", pub.Body)
	}
}

func TestPublishWithoutBroker(t *testing.T) {
	p := NewPublisher("", "")
	if p.Exchange() != DefaultExchange {
		t.Fatalf("Exchange = %q, want %q", p.Exchange(), DefaultExchange)
	}
	err := p.Publish(context.Background(), NewListingEvent(EntityArtist, ActionCreated, 1, "x", time.Now()))
	if !errors.Is(err, ErrNoBroker) {
		t.Fatalf("err = %v, want ErrNoBroker", err)
	}
}
