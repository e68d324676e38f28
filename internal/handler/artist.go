package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/render"
	"github.com/iliyamo/venue-booking/internal/service"
	"github.com/iliyamo/venue-booking/internal/validation"
)

// ListArtists handles GET /artists.
func (h *Handler) ListArtists(c echo.Context) error {
	artists, err := h.Catalog.Artists(c.Request().Context())
	if err != nil {
		return queryError(c, err)
	}
	return h.render(c, http.StatusOK, render.Artists, render.Page{Title: "Artists", Data: artists})
}

// SearchArtists handles POST /artists/search.
func (h *Handler) SearchArtists(c echo.Context) error {
	term := c.FormValue("search_term") // matched as typed
	res, err := h.Catalog.SearchArtists(c.Request().Context(), term)
	if err != nil {
		return queryError(c, err)
	}
	return h.render(c, http.StatusOK, render.SearchArtists, render.Page{Title: "Artist search", SearchTerm: term, Data: res})
}

// ShowArtist handles GET /artists/:id.
func (h *Handler) ShowArtist(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	d, err := h.Catalog.ArtistDetail(c.Request().Context(), id)
	if err != nil {
		return queryError(c, err)
	}
	return h.render(c, http.StatusOK, render.ShowArtist, render.Page{Title: d.Name, Data: d})
}

// NewArtistForm handles GET /artists/create.
func (h *Handler) NewArtistForm(c echo.Context) error {
	return h.render(c, http.StatusOK, render.NewArtist, render.Page{Title: "New artist", Data: EntityFormView{}})
}

// CreateArtist handles POST /artists/create.
func (h *Handler) CreateArtist(c echo.Context) error {
	var f artistForm
	if _, err := bindForm(c, &f, &f.Genres); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form body").SetInternal(err)
	}
	if verr := validation.ValidateStruct(&f); verr != nil {
		record("artist", "create", &service.Error{Op: "create artist", Kind: service.KindInvalid, Err: verr})
		h.failure(c, "Artist could not be listed: "+verr.Error())
		return h.render(c, http.StatusBadRequest, render.NewArtist, render.Page{Title: "New artist", Data: f.view(verr.Fields())})
	}

	a, err := h.Catalog.CreateArtist(c.Request().Context(), f.input())
	record("artist", "create", err)
	switch {
	case err == nil:
		h.success(c, "Artist "+a.Name+" was successfully listed!")
	case isInvalid(err):
		h.failure(c, "Artist could not be listed: "+err.Error())
		return h.render(c, http.StatusBadRequest, render.NewArtist, render.Page{Title: "New artist", Data: f.view(nil)})
	default:
		h.failure(c, "An error occurred. Artist "+f.Name+" could not be listed.")
	}
	return h.render(c, http.StatusOK, render.Home, render.Page{})
}

// EditArtistForm handles GET /artists/:id/edit.
func (h *Handler) EditArtistForm(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	a, err := h.Catalog.Artist(c.Request().Context(), id)
	if err != nil {
		return queryError(c, err)
	}
	return h.render(c, http.StatusOK, render.EditArtist, render.Page{Title: "Edit " + a.Name, Data: artistView(a)})
}

// UpdateArtist handles POST /artists/:id/edit.
func (h *Handler) UpdateArtist(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if _, err := h.Catalog.Artist(c.Request().Context(), id); err != nil {
		return queryError(c, err)
	}

	var f artistEditForm
	values, err := bindForm(c, &f, &f.Genres)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form body").SetInternal(err)
	}
	back := "/artists/" + strconv.FormatInt(id, 10)

	if verr := validation.ValidateStruct(&f); verr != nil {
		record("artist", "update", &service.Error{Op: "update artist", Kind: service.KindInvalid, Err: verr})
		h.failure(c, "Artist could not be updated: "+verr.Error())
		return c.Redirect(http.StatusSeeOther, back)
	}

	a, err := h.Catalog.UpdateArtist(c.Request().Context(), id, f.patch(values))
	record("artist", "update", err)
	switch {
	case err == nil:
		h.success(c, "Artist "+a.Name+" was successfully updated!")
	case service.IsNotFound(err):
		return echo.ErrNotFound
	case isInvalid(err):
		h.failure(c, "Artist could not be updated: "+err.Error())
	default:
		h.failure(c, "An error occurred. Artist "+f.Name+" could not be updated.")
	}
	return c.Redirect(http.StatusSeeOther, back)
}
