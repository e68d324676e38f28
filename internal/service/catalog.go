// Package service holds the Catalog: the query and mutation layer between the
// HTTP handlers and the repositories.  Reads shape rows into view models;
// writes run in one transaction per call and publish a listing event once
// committed.
package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/venue-booking/internal/logging"
	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/queue"
	"github.com/iliyamo/venue-booking/internal/repository"
)

// TxBeginner starts transactions.  *sql.DB satisfies it.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type pinger interface {
	PingContext(ctx context.Context) error
}

// VenueStore is the subset of repository.VenueRepo used by Catalog.
type VenueStore interface {
	ListAll(ctx context.Context) ([]model.Venue, error)
	SearchByName(ctx context.Context, term string) ([]model.Venue, error)
	GetByID(ctx context.Context, id int64) (*model.Venue, error)
	GetByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*model.Venue, error)
	CreateTx(ctx context.Context, tx *sql.Tx, v *model.Venue) error
	UpdateTx(ctx context.Context, tx *sql.Tx, v *model.Venue) error
	DeleteTx(ctx context.Context, tx *sql.Tx, id int64) error
}

// ArtistStore is the subset of repository.ArtistRepo used by Catalog.
type ArtistStore interface {
	ListAll(ctx context.Context) ([]model.Artist, error)
	SearchByName(ctx context.Context, term string) ([]model.Artist, error)
	GetByID(ctx context.Context, id int64) (*model.Artist, error)
	GetByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*model.Artist, error)
	CreateTx(ctx context.Context, tx *sql.Tx, a *model.Artist) error
	UpdateTx(ctx context.Context, tx *sql.Tx, a *model.Artist) error
}

// ShowStore is the subset of repository.ShowRepo used by Catalog.
type ShowStore interface {
	CreateTx(ctx context.Context, tx *sql.Tx, s *model.Show) error
	DeleteByVenueTx(ctx context.Context, tx *sql.Tx, venueID int64) (int64, error)
	CountUpcomingByVenue(ctx context.Context, now time.Time) (map[int64]int, error)
	CountUpcomingByArtist(ctx context.Context, now time.Time) (map[int64]int, error)
	ListForVenue(ctx context.Context, venueID int64, w repository.Window, now time.Time) ([]model.ShowDetail, error)
	ListForArtist(ctx context.Context, artistID int64, w repository.Window, now time.Time) ([]model.ShowDetail, error)
	ListUpcoming(ctx context.Context, now time.Time) ([]model.ShowDetail, error)
}

// Publisher delivers listing events.  *queue.Publisher satisfies it.
type Publisher interface {
	Publish(ctx context.Context, ev queue.ListingEvent) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, queue.ListingEvent) error { return nil }

const publishTimeout = 5 * time.Second

// Catalog answers every listing query and performs every listing mutation.
type Catalog struct {
	db      TxBeginner
	venues  VenueStore
	artists ArtistStore
	shows   ShowStore

	now    func() time.Time
	loc    *time.Location
	events Publisher
	log    zerolog.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithClock replaces time.Now.  The clock is read once per call, so a single
// page never mixes two notions of "now".
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) { c.now = now }
}

// WithLocation sets the zone start times are displayed in.  Default UTC.
func WithLocation(loc *time.Location) Option {
	return func(c *Catalog) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithPublisher sends a listing event after each committed mutation.
func WithPublisher(p Publisher) Option {
	return func(c *Catalog) {
		if p != nil {
			c.events = p
		}
	}
}

// NewCatalog wires the stores together and panics if any dependency is nil.
func NewCatalog(db TxBeginner, venues VenueStore, artists ArtistStore, shows ShowStore, opts ...Option) *Catalog {
	if db == nil || venues == nil || artists == nil || shows == nil {
		panic("nil dependency passed to NewCatalog")
	}
	c := &Catalog{
		db:      db,
		venues:  venues,
		artists: artists,
		shows:   shows,
		now:     time.Now,
		loc:     time.UTC,
		events:  nopPublisher{},
		log:     logging.WithComponent("catalog"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ping reports whether the store behind the catalog is reachable.  A
// TxBeginner that cannot be pinged is assumed healthy.
func (c *Catalog) Ping(ctx context.Context) error {
	p, ok := c.db.(pinger)
	if !ok {
		return nil
	}
	if err := p.PingContext(ctx); err != nil {
		return fail("ping", KindPersistence, err)
	}
	return nil
}

func (c *Catalog) format(t time.Time) string {
	return t.In(c.loc).Format(DisplayLayout)
}

// publish sends ev without tying it to the request: a client that has
// already gone away does not cancel the notification of a committed change.
func (c *Catalog) publish(ctx context.Context, entity, action string, id int64, name string) {
	ev := queue.NewListingEvent(entity, action, id, name, c.now())
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := c.events.Publish(ctx, ev); err != nil {
		c.log.Warn().Err(err).Str("type", ev.Type).Int64("id", id).Msg("listing event not published")
	}
}
