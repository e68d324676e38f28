package router // package router defines how HTTP routes are registered for the site

import (
	"github.com/labstack/echo/v4"                             // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"           // stock middleware
	"github.com/prometheus/client_golang/prometheus/promhttp" // /metrics exposition

	"github.com/iliyamo/venue-booking/internal/handler" // page and form handlers
)

// RegisterRoutes wires every route of the site onto e and installs the
// pieces routing depends on: the _method override, which must run before
// the router so "POST /venues/:id" with _method=DELETE reaches DeleteVenue,
// and the error handler that renders the 404 and 500 pages.
//
// submit guards the form submissions (create, edit, delete).  Pass nil to
// leave them unguarded.
func RegisterRoutes(e *echo.Echo, h *handler.Handler, submit echo.MiddlewareFunc) {
	e.Pre(echomw.MethodOverrideWithConfig(echomw.MethodOverrideConfig{
		Getter: echomw.MethodFromForm("_method"),
	}))
	e.HTTPErrorHandler = h.HTTPErrorHandler

	var guard []echo.MiddlewareFunc
	if submit != nil {
		guard = append(guard, submit)
	}

	// Operational endpoints
	e.GET("/healthz", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET("/", h.Home)

	// ---- Venues ----
	e.GET("/venues", h.ListVenues)
	e.POST("/venues/search", h.SearchVenues)
	e.GET("/venues/create", h.NewVenueForm)
	e.POST("/venues/create", h.CreateVenue, guard...)
	e.GET("/venues/:id", h.ShowVenue)
	e.DELETE("/venues/:id", h.DeleteVenue, guard...)
	e.GET("/venues/:id/edit", h.EditVenueForm)
	e.POST("/venues/:id/edit", h.UpdateVenue, guard...)

	// ---- Artists ----
	e.GET("/artists", h.ListArtists)
	e.POST("/artists/search", h.SearchArtists)
	e.GET("/artists/create", h.NewArtistForm)
	e.POST("/artists/create", h.CreateArtist, guard...)
	e.GET("/artists/:id", h.ShowArtist)
	e.GET("/artists/:id/edit", h.EditArtistForm)
	e.POST("/artists/:id/edit", h.UpdateArtist, guard...)

	// ---- Shows ----
	e.GET("/shows", h.ListShows)
	e.GET("/shows/create", h.NewShowForm)
	e.POST("/shows/create", h.CreateShow, guard...)
}
