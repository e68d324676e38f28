// Package handler maps HTTP requests onto catalog operations and shapes the
// results into pages, redirects or JSON.  Every outcome the user should see
// is surfaced as a flash message; raw errors never reach the response.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/logging"
	"github.com/iliyamo/venue-booking/internal/metrics"
	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/notify"
	"github.com/iliyamo/venue-booking/internal/render"
	"github.com/iliyamo/venue-booking/internal/service"
)

// Catalog is the query and mutation surface the handlers depend on.
// *service.Catalog implements it.
type Catalog interface {
	VenuesByArea(ctx context.Context) ([]service.Area, error)
	SearchVenues(ctx context.Context, term string) (service.SearchResult, error)
	VenueDetail(ctx context.Context, id int64) (*service.VenueDetail, error)
	Venue(ctx context.Context, id int64) (*model.Venue, error)
	CreateVenue(ctx context.Context, in service.VenueInput) (*model.Venue, error)
	UpdateVenue(ctx context.Context, id int64, patch service.VenuePatch) (*model.Venue, error)
	DeleteVenue(ctx context.Context, id int64) error

	Artists(ctx context.Context) ([]service.Summary, error)
	SearchArtists(ctx context.Context, term string) (service.SearchResult, error)
	ArtistDetail(ctx context.Context, id int64) (*service.ArtistDetail, error)
	Artist(ctx context.Context, id int64) (*model.Artist, error)
	CreateArtist(ctx context.Context, in service.ArtistInput) (*model.Artist, error)
	UpdateArtist(ctx context.Context, id int64, patch service.ArtistPatch) (*model.Artist, error)

	UpcomingShows(ctx context.Context) ([]service.ShowListing, error)
	CreateShow(ctx context.Context, in service.ShowInput) (*model.Show, error)

	Ping(ctx context.Context) error
}

var timeNow = time.Now

// Handler bundles the dependencies shared by every route.
type Handler struct {
	Catalog  Catalog        // Catalog answers queries and applies mutations
	Flash    notify.Store   // Flash carries messages to the next page
	Location *time.Location // Location interprets submitted start times
}

// New constructs a Handler and panics if a dependency is missing.
func New(cat Catalog, flash notify.Store, loc *time.Location) *Handler {
	if cat == nil || flash == nil {
		panic("nil dependency passed to handler.New")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{Catalog: cat, Flash: flash, Location: loc}
}

// render pops pending flash messages into page and writes it.
func (h *Handler) render(c echo.Context, status int, name string, page render.Page) error {
	msgs, err := h.Flash.Pop(c)
	if err != nil {
		logging.Warn().Err(err).Msg("flash pop failed")
	}
	page.Flashes = append(page.Flashes, msgs...)
	return c.Render(status, name, page)
}

func (h *Handler) success(c echo.Context, text string) {
	if err := notify.AddSuccess(h.Flash, c, text); err != nil {
		logging.Warn().Err(err).Msg("flash add failed")
	}
}

func (h *Handler) failure(c echo.Context, text string) {
	if err := notify.AddFailure(h.Flash, c, text); err != nil {
		logging.Warn().Err(err).Msg("flash add failed")
	}
}

// pathID parses the :id route parameter.  Ids that are not positive
// integers cannot name a row, so they are reported as not found.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.ErrNotFound
	}
	return id, nil
}

// queryError converts a catalog read failure into the error the
// HTTPErrorHandler turns into the 404 or 500 page.
func queryError(c echo.Context, err error) error {
	if service.IsNotFound(err) {
		return echo.ErrNotFound
	}
	logging.Err(err).Str("path", c.Path()).Msg("query failed")
	return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
}

// outcome labels a mutation result for metrics.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return service.KindOf(err).String()
}

func record(entity, op string, err error) {
	metrics.RecordMutation(entity, op, outcome(err))
	if err != nil && service.KindOf(err) == service.KindPersistence {
		logging.Err(err).Str("entity", entity).Str("op", op).Msg("mutation failed")
	}
}

func isInvalid(err error) bool {
	var se *service.Error
	return errors.As(err, &se) && se.Kind == service.KindInvalid
}
