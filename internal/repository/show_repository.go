// Package repository contains data access logic for Show domain operations.
// Shows are only ever inserted one at a time or removed in bulk with their
// venue; every read joins the venue and artist display fields.
package repository

import (
	"context"      // context for controlling query lifetime
	"database/sql" // sql provides DB abstraction
	"fmt"
	"time"

	"github.com/iliyamo/venue-booking/internal/model"
)

// Window selects shows relative to a reference instant.  Both windows are
// strict, so a show starting exactly at the reference instant is in neither.
type Window int

const (
	Past     Window = iota // start_time < now
	Upcoming               // start_time > now
)

func (w Window) predicate() string {
	if w == Past {
		return "s.start_time < ?"
	}
	return "s.start_time > ?"
}

const showDetailSelect = `SELECT s.id, s.artist_id, s.venue_id, s.start_time,
       v.name, v.image_link, a.name, a.image_link
  FROM shows s
  JOIN venues v  ON v.id = s.venue_id
  JOIN artists a ON a.id = s.artist_id`

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *ShowRepo) DB() *sql.DB {
	return r.db
}

// CreateTx inserts a new show using the provided transaction and assigns the
// generated ID.  The foreign keys reject unknown artist or venue ids.
func (r *ShowRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Show) error {
	const q = `INSERT INTO shows (artist_id, venue_id, start_time) VALUES (?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.ArtistID, s.VenueID, toMillis(s.StartTime))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

// DeleteByVenueTx removes every show held at venueID and reports how many
// rows went.
func (r *ShowRepo) DeleteByVenueTx(ctx context.Context, tx *sql.Tx, venueID int64) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM shows WHERE venue_id = ?`, venueID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountUpcomingByVenue returns the number of shows after now per venue id.
// Venues without upcoming shows are absent from the map.
func (r *ShowRepo) CountUpcomingByVenue(ctx context.Context, now time.Time) (map[int64]int, error) {
	return r.countUpcoming(ctx, "venue_id", now)
}

// CountUpcomingByArtist returns the number of shows after now per artist id.
func (r *ShowRepo) CountUpcomingByArtist(ctx context.Context, now time.Time) (map[int64]int, error) {
	return r.countUpcoming(ctx, "artist_id", now)
}

func (r *ShowRepo) countUpcoming(ctx context.Context, column string, now time.Time) (map[int64]int, error) {
	q := fmt.Sprintf(`SELECT %s, COUNT(*) FROM shows WHERE start_time > ? GROUP BY %s`, column, column)
	rows, err := r.db.QueryContext(ctx, q, toMillis(now))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]int)
	for rows.Next() {
		var (
			id int64
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		out[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListForVenue returns the venue's shows in window relative to now, ordered
// by start time.
func (r *ShowRepo) ListForVenue(ctx context.Context, venueID int64, w Window, now time.Time) ([]model.ShowDetail, error) {
	q := showDetailSelect + ` WHERE s.venue_id = ? AND ` + w.predicate() + ` ORDER BY s.start_time, s.id`
	return r.listDetails(ctx, q, venueID, toMillis(now))
}

// ListForArtist returns the artist's shows in window relative to now.
func (r *ShowRepo) ListForArtist(ctx context.Context, artistID int64, w Window, now time.Time) ([]model.ShowDetail, error) {
	q := showDetailSelect + ` WHERE s.artist_id = ? AND ` + w.predicate() + ` ORDER BY s.start_time, s.id`
	return r.listDetails(ctx, q, artistID, toMillis(now))
}

// ListUpcoming returns every show starting after now across all venues.
func (r *ShowRepo) ListUpcoming(ctx context.Context, now time.Time) ([]model.ShowDetail, error) {
	q := showDetailSelect + ` WHERE ` + Upcoming.predicate() + ` ORDER BY s.start_time, s.id`
	return r.listDetails(ctx, q, toMillis(now))
}

func (r *ShowRepo) listDetails(ctx context.Context, q string, args ...any) ([]model.ShowDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.ShowDetail
	for rows.Next() {
		var (
			d     model.ShowDetail
			start int64
		)
		if err := rows.Scan(
			&d.ID, &d.ArtistID, &d.VenueID, &start,
			&d.VenueName, &d.VenueImageLink, &d.ArtistName, &d.ArtistImageLink,
		); err != nil {
			return nil, err
		}
		d.StartTime = fromMillis(start)
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
