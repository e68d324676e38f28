package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/venue-booking/internal/model"
)

const artistColumns = `id, name, city, state, phone, genres, image_link, facebook_link`

// ArtistRepo manages persistence for artists.
type ArtistRepo struct {
	db *sql.DB
}

// NewArtistRepo constructs an ArtistRepo with the given DB handle.
func NewArtistRepo(db *sql.DB) *ArtistRepo {
	return &ArtistRepo{db: db}
}

// ListAll returns every artist ordered by id.
func (r *ArtistRepo) ListAll(ctx context.Context) ([]model.Artist, error) {
	return r.list(ctx, `SELECT `+artistColumns+` FROM artists ORDER BY id`)
}

// SearchByName returns artists whose name contains term, ignoring case.
func (r *ArtistRepo) SearchByName(ctx context.Context, term string) ([]model.Artist, error) {
	const q = `SELECT ` + artistColumns + ` FROM artists
	           WHERE LOWER(name) LIKE ? ESCAPE '` + likeEscape + `'
	           ORDER BY id`
	return r.list(ctx, q, containsPattern(term))
}

func (r *ArtistRepo) list(ctx context.Context, q string, args ...any) ([]model.Artist, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Artist
	for rows.Next() {
		a, err := scanArtist(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID retrieves an artist by its id.  It returns ErrArtistNotFound if
// there is no matching row.
func (r *ArtistRepo) GetByID(ctx context.Context, id int64) (*model.Artist, error) {
	return getArtist(ctx, r.db, id)
}

// GetByIDTx is GetByID inside the caller's transaction.
func (r *ArtistRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*model.Artist, error) {
	return getArtist(ctx, tx, id)
}

func getArtist(ctx context.Context, q queryer, id int64) (*model.Artist, error) {
	row := q.QueryRowContext(ctx, `SELECT `+artistColumns+` FROM artists WHERE id = ?`, id)
	a, err := scanArtist(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArtistNotFound
		}
		return nil, err
	}
	return &a, nil
}

// CreateTx inserts a into the caller's transaction and sets a.ID.
func (r *ArtistRepo) CreateTx(ctx context.Context, tx *sql.Tx, a *model.Artist) error {
	genres, err := encodeGenres(a.Genres)
	if err != nil {
		return fmt.Errorf("encode genres: %w", err)
	}
	const q = `INSERT INTO artists (name, city, state, phone, genres, image_link, facebook_link)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, a.Name, a.City, a.State, a.Phone, genres, a.ImageLink, a.FacebookLink)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}

// UpdateTx writes every column of a to the row with a.ID.
func (r *ArtistRepo) UpdateTx(ctx context.Context, tx *sql.Tx, a *model.Artist) error {
	genres, err := encodeGenres(a.Genres)
	if err != nil {
		return fmt.Errorf("encode genres: %w", err)
	}
	const q = `UPDATE artists
	           SET name = ?, city = ?, state = ?, phone = ?, genres = ?, image_link = ?, facebook_link = ?
	           WHERE id = ?`
	_, err = tx.ExecContext(ctx, q, a.Name, a.City, a.State, a.Phone, genres, a.ImageLink, a.FacebookLink, a.ID)
	return err
}

func scanArtist(s rowScanner) (model.Artist, error) {
	var (
		a      model.Artist
		genres string
	)
	if err := s.Scan(&a.ID, &a.Name, &a.City, &a.State, &a.Phone, &genres, &a.ImageLink, &a.FacebookLink); err != nil {
		return model.Artist{}, err
	}
	g, err := decodeGenres(genres)
	if err != nil {
		return model.Artist{}, fmt.Errorf("artist %d genres: %w", a.ID, err)
	}
	a.Genres = g
	return a, nil
}
