package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/logging"
)

const healthTimeout = 2 * time.Second

// Health answers GET /healthz with "ok" once the database responds to a
// ping, and 503 otherwise, so a load balancer stops routing to an instance
// that cannot serve listings.
func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()
	if err := h.Catalog.Ping(ctx); err != nil {
		logging.Warn().Err(err).Msg("health check failed")
		return c.String(http.StatusServiceUnavailable, "database unavailable")
	}
	return c.String(http.StatusOK, "ok")
}
