package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/render"
	"github.com/iliyamo/venue-booking/internal/service"
	"github.com/iliyamo/venue-booking/internal/validation"
)

// ListShows handles GET /shows: upcoming shows, soonest first.
func (h *Handler) ListShows(c echo.Context) error {
	shows, err := h.Catalog.UpcomingShows(c.Request().Context())
	if err != nil {
		return queryError(c, err)
	}
	return h.render(c, http.StatusOK, render.Shows, render.Page{Title: "Shows", Data: shows})
}

// NewShowForm handles GET /shows/create.  The start time is prefilled with
// the current time in the display zone.
func (h *Handler) NewShowForm(c echo.Context) error {
	view := ShowFormView{StartTime: timeNow().In(h.Location).Format(validation.StartTimeLayouts[0])}
	return h.render(c, http.StatusOK, render.NewShow, render.Page{Title: "New show", Data: view})
}

// CreateShow handles POST /shows/create.  An artist or venue id that does
// not exist is a persistence failure, reported like any other.
func (h *Handler) CreateShow(c echo.Context) error {
	var f showForm
	if _, err := bindForm(c, &f, nil); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form body").SetInternal(err)
	}

	in, err := h.validShow(f)
	if err != nil {
		record("show", "create", &service.Error{Op: "create show", Kind: service.KindInvalid, Err: err})
		h.failure(c, "Show could not be listed: "+err.Error())
		return h.render(c, http.StatusBadRequest, render.NewShow, render.Page{Title: "New show", Data: f.view(fieldErrors(err))})
	}

	_, err = h.Catalog.CreateShow(c.Request().Context(), in)
	record("show", "create", err)
	switch {
	case err == nil:
		h.success(c, "Show was successfully listed!")
	case isInvalid(err):
		h.failure(c, "Show could not be listed: "+err.Error())
		return h.render(c, http.StatusBadRequest, render.NewShow, render.Page{Title: "New show", Data: f.view(nil)})
	default:
		h.failure(c, "An error occurred. Show could not be listed.")
	}
	return h.render(c, http.StatusOK, render.Home, render.Page{})
}

func (h *Handler) validShow(f showForm) (service.ShowInput, error) {
	if verr := validation.ValidateStruct(&f); verr != nil {
		return service.ShowInput{}, verr
	}
	return f.input(h.Location)
}

func fieldErrors(err error) map[string]string {
	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		return verr.Fields()
	}
	return nil
}
