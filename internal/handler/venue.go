package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/render"
	"github.com/iliyamo/venue-booking/internal/service"
	"github.com/iliyamo/venue-booking/internal/validation"
)

// ListVenues handles GET /venues: every venue grouped by city and state.
func (h *Handler) ListVenues(c echo.Context) error {
	areas, err := h.Catalog.VenuesByArea(c.Request().Context())
	if err != nil {
		return queryError(c, err)
	}
	return h.render(c, http.StatusOK, render.Venues, render.Page{Title: "Venues", Data: areas})
}

// SearchVenues handles POST /venues/search.
func (h *Handler) SearchVenues(c echo.Context) error {
	term := c.FormValue("search_term") // matched as typed; empty lists everything
	res, err := h.Catalog.SearchVenues(c.Request().Context(), term)
	if err != nil {
		return queryError(c, err)
	}
	return h.render(c, http.StatusOK, render.SearchVenues, render.Page{Title: "Venue search", SearchTerm: term, Data: res})
}

// ShowVenue handles GET /venues/:id.
func (h *Handler) ShowVenue(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	d, err := h.Catalog.VenueDetail(c.Request().Context(), id)
	if err != nil {
		return queryError(c, err)
	}
	return h.render(c, http.StatusOK, render.ShowVenue, render.Page{Title: d.Name, Data: d})
}

// NewVenueForm handles GET /venues/create.
func (h *Handler) NewVenueForm(c echo.Context) error {
	return h.render(c, http.StatusOK, render.NewVenue, render.Page{Title: "New venue", Data: EntityFormView{}})
}

// CreateVenue handles POST /venues/create.  Success and persistence failure
// both land on the home page with a flash; invalid input re-renders the form.
func (h *Handler) CreateVenue(c echo.Context) error {
	var f venueForm
	if _, err := bindForm(c, &f, &f.Genres); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form body").SetInternal(err)
	}
	if verr := validation.ValidateStruct(&f); verr != nil {
		record("venue", "create", &service.Error{Op: "create venue", Kind: service.KindInvalid, Err: verr})
		h.failure(c, "Venue could not be listed: "+verr.Error())
		return h.render(c, http.StatusBadRequest, render.NewVenue, render.Page{Title: "New venue", Data: f.view(verr.Fields())})
	}

	v, err := h.Catalog.CreateVenue(c.Request().Context(), f.input())
	record("venue", "create", err)
	switch {
	case err == nil:
		h.success(c, "Venue "+v.Name+" was successfully listed!")
	case isInvalid(err):
		h.failure(c, "Venue could not be listed: "+err.Error())
		return h.render(c, http.StatusBadRequest, render.NewVenue, render.Page{Title: "New venue", Data: f.view(nil)})
	default:
		h.failure(c, "An error occurred. Venue "+f.Name+" could not be listed.")
	}
	return h.render(c, http.StatusOK, render.Home, render.Page{})
}

// EditVenueForm handles GET /venues/:id/edit.
func (h *Handler) EditVenueForm(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	v, err := h.Catalog.Venue(c.Request().Context(), id)
	if err != nil {
		return queryError(c, err)
	}
	return h.render(c, http.StatusOK, render.EditVenue, render.Page{Title: "Edit " + v.Name, Data: venueView(v)})
}

// UpdateVenue handles POST /venues/:id/edit.  Only submitted fields change.
// A missing venue is a 404 before the form is even looked at; any other
// outcome sends the user back to the venue page.
func (h *Handler) UpdateVenue(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if _, err := h.Catalog.Venue(c.Request().Context(), id); err != nil {
		return queryError(c, err)
	}

	var f venueEditForm
	values, err := bindForm(c, &f, &f.Genres)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form body").SetInternal(err)
	}

	if verr := validation.ValidateStruct(&f); verr != nil {
		record("venue", "update", &service.Error{Op: "update venue", Kind: service.KindInvalid, Err: verr})
		h.failure(c, "Venue could not be updated: "+verr.Error())
		return c.Redirect(http.StatusSeeOther, venuePath(id))
	}

	v, err := h.Catalog.UpdateVenue(c.Request().Context(), id, f.patch(values))
	record("venue", "update", err)
	switch {
	case err == nil:
		h.success(c, "Venue "+v.Name+" was successfully updated!")
	case service.IsNotFound(err):
		return echo.ErrNotFound
	case isInvalid(err):
		h.failure(c, "Venue could not be updated: "+err.Error())
	default:
		h.failure(c, "An error occurred. Venue "+f.Name+" could not be updated.")
	}
	return c.Redirect(http.StatusSeeOther, venuePath(id))
}

// deleteResult is the JSON body of DELETE /venues/:id.
type deleteResult struct {
	Success  bool   `json:"success"`
	Redirect string `json:"redirect"`
}

// DeleteVenue handles DELETE /venues/:id, and POST with _method=DELETE from
// the no-script form.  Script callers get JSON naming where to go next;
// browsers posting the form are redirected there directly.
func (h *Handler) DeleteVenue(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	err = h.Catalog.DeleteVenue(c.Request().Context(), id)
	record("venue", "delete", err)

	status, res := http.StatusOK, deleteResult{Success: true, Redirect: "/"}
	switch {
	case err == nil:
		h.success(c, "Venue was successfully deleted!")
	case service.IsNotFound(err):
		status, res = http.StatusNotFound, deleteResult{Redirect: "/venues"}
		h.failure(c, "Venue could not be deleted: it does not exist.")
	default:
		status, res = http.StatusInternalServerError, deleteResult{Redirect: venuePath(id)}
		h.failure(c, "An error occurred. Venue could not be deleted.")
	}

	if wantsHTML(c) {
		return c.Redirect(http.StatusSeeOther, res.Redirect)
	}
	return c.JSON(status, res)
}

func venuePath(id int64) string {
	return "/venues/" + strconv.FormatInt(id, 10)
}

// wantsHTML reports whether the client is a browser submitting a form, as
// opposed to a script asking for JSON.
func wantsHTML(c echo.Context) bool {
	accept := c.Request().Header.Get(echo.HeaderAccept)
	return strings.Contains(accept, echo.MIMETextHTML) && !strings.Contains(accept, echo.MIMEApplicationJSON)
}
