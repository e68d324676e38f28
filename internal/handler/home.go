package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/render"
)

// Home handles GET /.
func (h *Handler) Home(c echo.Context) error {
	return h.render(c, http.StatusOK, render.Home, render.Page{})
}
