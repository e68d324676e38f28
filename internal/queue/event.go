// Package queue defines the listing events published to the message broker
// and the publisher that delivers them.
package queue

import "time"

// Entities that emit listing events.
const (
	EntityVenue  = "venue"
	EntityArtist = "artist"
	EntityShow   = "show"
)

// Actions recorded in a listing event.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ListingEvent is published after a venue, artist or show change has been
// committed.  Consumers get enough to refresh their own copy of the listing
// without querying the primary database.
type ListingEvent struct {
	Type       string `json:"type"` // routing key, e.g. "venue.created"
	Entity     string `json:"entity"`
	ID         int64  `json:"id"`
	Name       string `json:"name,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

// NewListingEvent builds an event for entity/action, stamping it with at in
// UTC RFC 3339 form.
func NewListingEvent(entity, action string, id int64, name string, at time.Time) ListingEvent {
	return ListingEvent{
		Type:       entity + "." + action,
		Entity:     entity,
		ID:         id,
		Name:       name,
		OccurredAt: at.UTC().Format(time.RFC3339),
	}
}
