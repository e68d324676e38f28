package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/queue"
	"github.com/iliyamo/venue-booking/internal/repository"
)

var (
	errNameRequired  = errors.New("name is required")
	errShowReference = errors.New("artist_id and venue_id must be positive")
	errShowStart     = errors.New("start_time is required")
)

// inTx runs fn inside a transaction scoped to this call.  The deferred
// rollback releases the transaction on every path; after a successful
// commit it is a no-op.
func (c *Catalog) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func mutationError(op string, err error) error {
	switch {
	case errors.Is(err, errNameRequired), errors.Is(err, errShowReference), errors.Is(err, errShowStart):
		return fail(op, KindInvalid, err)
	case errors.Is(err, repository.ErrVenueNotFound), errors.Is(err, repository.ErrArtistNotFound):
		return fail(op, KindNotFound, err)
	default:
		return fail(op, KindPersistence, err)
	}
}

// CreateVenue lists a new venue.  The image link is always the placeholder.
func (c *Catalog) CreateVenue(ctx context.Context, in VenueInput) (*model.Venue, error) {
	const op = "create venue"
	v := &model.Venue{
		Name:         strings.TrimSpace(in.Name),
		City:         strings.TrimSpace(in.City),
		State:        strings.TrimSpace(in.State),
		Address:      strings.TrimSpace(in.Address),
		Phone:        strings.TrimSpace(in.Phone),
		Genres:       cleanGenres(in.Genres),
		ImageLink:    PlaceholderImage,
		FacebookLink: strings.TrimSpace(in.FacebookLink),
	}
	if v.Name == "" {
		return nil, mutationError(op, errNameRequired)
	}
	err := c.inTx(ctx, func(tx *sql.Tx) error {
		return c.venues.CreateTx(ctx, tx, v)
	})
	if err != nil {
		return nil, mutationError(op, err)
	}
	c.publish(ctx, queue.EntityVenue, queue.ActionCreated, v.ID, v.Name)
	return v, nil
}

// CreateArtist lists a new artist.  The image link is always the placeholder.
func (c *Catalog) CreateArtist(ctx context.Context, in ArtistInput) (*model.Artist, error) {
	const op = "create artist"
	a := &model.Artist{
		Name:         strings.TrimSpace(in.Name),
		City:         strings.TrimSpace(in.City),
		State:        strings.TrimSpace(in.State),
		Phone:        strings.TrimSpace(in.Phone),
		Genres:       cleanGenres(in.Genres),
		ImageLink:    PlaceholderImage,
		FacebookLink: strings.TrimSpace(in.FacebookLink),
	}
	if a.Name == "" {
		return nil, mutationError(op, errNameRequired)
	}
	err := c.inTx(ctx, func(tx *sql.Tx) error {
		return c.artists.CreateTx(ctx, tx, a)
	})
	if err != nil {
		return nil, mutationError(op, err)
	}
	c.publish(ctx, queue.EntityArtist, queue.ActionCreated, a.ID, a.Name)
	return a, nil
}

// CreateShow books an artist at a venue.  Unknown ids are rejected by the
// store's foreign keys and reported as a persistence failure.
func (c *Catalog) CreateShow(ctx context.Context, in ShowInput) (*model.Show, error) {
	const op = "create show"
	if in.ArtistID <= 0 || in.VenueID <= 0 {
		return nil, mutationError(op, errShowReference)
	}
	if in.StartTime.IsZero() {
		return nil, mutationError(op, errShowStart)
	}
	s := &model.Show{ArtistID: in.ArtistID, VenueID: in.VenueID, StartTime: in.StartTime}
	err := c.inTx(ctx, func(tx *sql.Tx) error {
		return c.shows.CreateTx(ctx, tx, s)
	})
	if err != nil {
		return nil, mutationError(op, err)
	}
	c.publish(ctx, queue.EntityShow, queue.ActionCreated, s.ID, "")
	return s, nil
}

// UpdateVenue applies patch to the stored venue.  Fields left nil keep their
// stored values.
func (c *Catalog) UpdateVenue(ctx context.Context, id int64, patch VenuePatch) (*model.Venue, error) {
	const op = "update venue"
	var v *model.Venue
	err := c.inTx(ctx, func(tx *sql.Tx) error {
		cur, err := c.venues.GetByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		patch.apply(cur)
		if cur.Name == "" {
			return errNameRequired
		}
		if err := c.venues.UpdateTx(ctx, tx, cur); err != nil {
			return err
		}
		v = cur
		return nil
	})
	if err != nil {
		return nil, mutationError(op, err)
	}
	c.publish(ctx, queue.EntityVenue, queue.ActionUpdated, v.ID, v.Name)
	return v, nil
}

// UpdateArtist applies patch to the stored artist.
func (c *Catalog) UpdateArtist(ctx context.Context, id int64, patch ArtistPatch) (*model.Artist, error) {
	const op = "update artist"
	var a *model.Artist
	err := c.inTx(ctx, func(tx *sql.Tx) error {
		cur, err := c.artists.GetByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		patch.apply(cur)
		if cur.Name == "" {
			return errNameRequired
		}
		if err := c.artists.UpdateTx(ctx, tx, cur); err != nil {
			return err
		}
		a = cur
		return nil
	})
	if err != nil {
		return nil, mutationError(op, err)
	}
	c.publish(ctx, queue.EntityArtist, queue.ActionUpdated, a.ID, a.Name)
	return a, nil
}

// DeleteVenue removes the venue and all of its shows together.  Either both
// go or neither does.
func (c *Catalog) DeleteVenue(ctx context.Context, id int64) error {
	const op = "delete venue"
	var name string
	err := c.inTx(ctx, func(tx *sql.Tx) error {
		v, err := c.venues.GetByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		name = v.Name
		if _, err := c.shows.DeleteByVenueTx(ctx, tx, id); err != nil {
			return err
		}
		return c.venues.DeleteTx(ctx, tx, id)
	})
	if err != nil {
		return mutationError(op, err)
	}
	c.publish(ctx, queue.EntityVenue, queue.ActionDeleted, id, name)
	return nil
}
