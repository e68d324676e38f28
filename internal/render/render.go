// Package render turns view models into HTML.  Every page is parsed once at
// startup together with the shared layout and partials, and served through
// echo's Renderer interface.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/notify"
)

//go:embed templates
var templateFS embed.FS

// Page names accepted by Render.
const (
	Home          = "pages/home"
	Venues        = "pages/venues"
	SearchVenues  = "pages/search_venues"
	ShowVenue     = "pages/show_venue"
	Artists       = "pages/artists"
	SearchArtists = "pages/search_artists"
	ShowArtist    = "pages/show_artist"
	Shows         = "pages/shows"
	NewVenue      = "forms/new_venue"
	EditVenue     = "forms/edit_venue"
	NewArtist     = "forms/new_artist"
	EditArtist    = "forms/edit_artist"
	NewShow       = "forms/new_show"
	NotFound      = "errors/404"
	ServerError   = "errors/500"
)

// PageNames lists every page Render knows.
var PageNames = []string{
	Home, Venues, SearchVenues, ShowVenue, Artists, SearchArtists, ShowArtist, Shows,
	NewVenue, EditVenue, NewArtist, EditArtist, NewShow, NotFound, ServerError,
}

// Page is the value every template executes against.
type Page struct {
	Title      string
	Flashes    []notify.Message
	SearchTerm string
	Data       any
}

// Renderer implements echo.Renderer.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page.  A template error here is a programming error, so
// callers normally treat it as fatal.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(PageNames))}
	for _, name := range PageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layouts/*.html",
			"templates/partials/*.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes the named page into w.  The page is rendered into a buffer
// first so a template failure never leaves a half-written response.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("render: unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

var funcs = template.FuncMap{
	"join":     strings.Join,
	"hasGenre": hasGenre,
	"states":   func() []string { return StateChoices },
	"genres":   func() []string { return GenreChoices },
	"alert":    alertClass,
	"listing":  listing,
}

// listing pairs summary rows with the path segment their links point under.
func listing(kind string, items any) map[string]any {
	return map[string]any{"Kind": kind, "Items": items}
}

func hasGenre(list []string, g string) bool {
	for _, x := range list {
		if x == g {
			return true
		}
	}
	return false
}

func alertClass(category string) string {
	switch category {
	case notify.Success:
		return "alert-success"
	case notify.Failure:
		return "alert-danger"
	default:
		return "alert-info"
	}
}
