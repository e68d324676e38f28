package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/logging"
	"github.com/iliyamo/venue-booking/internal/render"
)

// HTTPErrorHandler renders the 404 and 500 pages.  Other statuses (405, 429
// and friends) get a short plain text body.
func (h *Handler) HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if he.Internal != nil {
			err = he.Internal
		}
		if s, ok := he.Message.(string); ok {
			msg = s
		} else {
			msg = http.StatusText(code)
		}
	}

	var rerr error
	switch {
	case c.Request().Method == http.MethodHead:
		rerr = c.NoContent(code)
	case code == http.StatusNotFound:
		rerr = h.render(c, code, render.NotFound, render.Page{Title: "Not Found"})
	case code >= http.StatusInternalServerError:
		logging.Err(err).
			Str("method", c.Request().Method).
			Str("uri", c.Request().RequestURI).
			Msg("unhandled error")
		code = http.StatusInternalServerError
		rerr = h.render(c, code, render.ServerError, render.Page{Title: "Server Error"})
	default:
		rerr = c.String(code, msg)
	}
	if rerr != nil && !c.Response().Committed {
		_ = c.String(code, fmt.Sprintf("%d %s", code, http.StatusText(code)))
	}
}
