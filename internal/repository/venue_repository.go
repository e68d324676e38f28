// Package repository contains data access logic separated from HTTP handlers.
// This file holds the venue queries: listing, name search, lookup, and the
// transactional insert/update/delete used by the service layer.
package repository

import (
	"context"      // context carries request deadlines into each query
	"database/sql" // sql provides the DB and Tx handles
	"errors"
	"fmt"

	"github.com/iliyamo/venue-booking/internal/model"
)

const venueColumns = `id, name, city, state, address, phone, genres, image_link, facebook_link`

// VenueRepo encapsulates all database queries related to venues.
type VenueRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewVenueRepo constructs a VenueRepo with the provided DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo {
	return &VenueRepo{db: db}
}

// ListAll returns every venue ordered by id.
func (r *VenueRepo) ListAll(ctx context.Context) ([]model.Venue, error) {
	return r.list(ctx, `SELECT `+venueColumns+` FROM venues ORDER BY id`)
}

// SearchByName returns venues whose name contains term, ignoring case.  An
// empty term matches every venue.
func (r *VenueRepo) SearchByName(ctx context.Context, term string) ([]model.Venue, error) {
	const q = `SELECT ` + venueColumns + ` FROM venues
	           WHERE LOWER(name) LIKE ? ESCAPE '` + likeEscape + `'
	           ORDER BY id`
	return r.list(ctx, q, containsPattern(term))
}

func (r *VenueRepo) list(ctx context.Context, q string, args ...any) ([]model.Venue, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Venue
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a venue by id.  It returns ErrVenueNotFound if no row is found.
func (r *VenueRepo) GetByID(ctx context.Context, id int64) (*model.Venue, error) {
	return getVenue(ctx, r.db, id)
}

// GetByIDTx is GetByID inside the caller's transaction.
func (r *VenueRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*model.Venue, error) {
	return getVenue(ctx, tx, id)
}

func getVenue(ctx context.Context, q queryer, id int64) (*model.Venue, error) {
	row := q.QueryRowContext(ctx, `SELECT `+venueColumns+` FROM venues WHERE id = ?`, id)
	v, err := scanVenue(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return &v, nil
}

// CreateTx inserts v using the provided transaction and assigns the
// generated id back to v.  The caller must commit or roll back.
func (r *VenueRepo) CreateTx(ctx context.Context, tx *sql.Tx, v *model.Venue) error {
	genres, err := encodeGenres(v.Genres)
	if err != nil {
		return fmt.Errorf("encode genres: %w", err)
	}
	const q = `INSERT INTO venues (name, city, state, address, phone, genres, image_link, facebook_link)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, v.Name, v.City, v.State, v.Address, v.Phone, genres, v.ImageLink, v.FacebookLink)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = id
	return nil
}

// UpdateTx writes every column of v to the row with v.ID.  Callers load the
// row first, so an unchanged row (zero affected rows on MySQL) is not an error.
func (r *VenueRepo) UpdateTx(ctx context.Context, tx *sql.Tx, v *model.Venue) error {
	genres, err := encodeGenres(v.Genres)
	if err != nil {
		return fmt.Errorf("encode genres: %w", err)
	}
	const q = `UPDATE venues
	           SET name = ?, city = ?, state = ?, address = ?, phone = ?, genres = ?, image_link = ?, facebook_link = ?
	           WHERE id = ?`
	_, err = tx.ExecContext(ctx, q, v.Name, v.City, v.State, v.Address, v.Phone, genres, v.ImageLink, v.FacebookLink, v.ID)
	return err
}

// DeleteTx removes the venue row.  Shows referencing it must be deleted first
// in the same transaction or the foreign key rejects the delete.
func (r *VenueRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id int64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM venues WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrVenueNotFound
	}
	return nil
}

func scanVenue(s rowScanner) (model.Venue, error) {
	var (
		v      model.Venue
		genres string
	)
	if err := s.Scan(&v.ID, &v.Name, &v.City, &v.State, &v.Address, &v.Phone, &genres, &v.ImageLink, &v.FacebookLink); err != nil {
		return model.Venue{}, err
	}
	g, err := decodeGenres(genres)
	if err != nil {
		return model.Venue{}, fmt.Errorf("venue %d genres: %w", v.ID, err)
	}
	v.Genres = g
	return v, nil
}
