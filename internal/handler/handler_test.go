package handler_test

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/database/dbtest"
	"github.com/iliyamo/venue-booking/internal/handler"
	"github.com/iliyamo/venue-booking/internal/notify"
	"github.com/iliyamo/venue-booking/internal/render"
	"github.com/iliyamo/venue-booking/internal/repository"
	"github.com/iliyamo/venue-booking/internal/router"
	"github.com/iliyamo/venue-booking/internal/service"
)

var testNow = time.Date(2026, time.June, 15, 20, 0, 0, 0, time.UTC)

type rendered struct {
	name string
	page render.Page
}

// recorder stands in for the HTML renderer and keeps what each request
// asked it to render.
type recorder struct {
	mu    sync.Mutex
	calls []rendered
}

func (r *recorder) Render(w io.Writer, name string, data any, _ echo.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, _ := data.(render.Page)
	r.calls = append(r.calls, rendered{name: name, page: p})
	_, err := io.WriteString(w, name)
	return err
}

func (r *recorder) last(t *testing.T) rendered {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		t.Fatal("nothing rendered")
	}
	return r.calls[len(r.calls)-1]
}

type server struct {
	e     *echo.Echo
	db    *sql.DB
	cat   *service.Catalog
	pages *recorder
}

func newServer(t *testing.T) *server {
	t.Helper()
	db := dbtest.Open(t)
	cat := service.NewCatalog(db,
		repository.NewVenueRepo(db),
		repository.NewArtistRepo(db),
		repository.NewShowRepo(db),
		service.WithClock(func() time.Time { return testNow }),
	)
	pages := &recorder{}
	e := echo.New()
	e.Renderer = pages
	router.RegisterRoutes(e, handler.New(cat, notify.NewCookieStore(false), time.UTC), nil)
	return &server{e: e, db: db, cat: cat, pages: pages}
}

func (s *server) do(method, path string, form url.Values, accept string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	if accept != "" {
		req.Header.Set(echo.HeaderAccept, accept)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *server) venue(t *testing.T, name, city, state string) int64 {
	t.Helper()
	v, err := s.cat.CreateVenue(context.Background(), service.VenueInput{Name: name, City: city, State: state})
	if err != nil {
		t.Fatalf("create venue: %v", err)
	}
	return v.ID
}

func (s *server) artist(t *testing.T, name string) int64 {
	t.Helper()
	a, err := s.cat.CreateArtist(context.Background(), service.ArtistInput{Name: name, City: "Austin", State: "TX"})
	if err != nil {
		t.Fatalf("create artist: %v", err)
	}
	return a.ID
}

func (s *server) show(t *testing.T, artistID, venueID int64, at time.Time) {
	t.Helper()
	if _, err := s.cat.CreateShow(context.Background(), service.ShowInput{ArtistID: artistID, VenueID: venueID, StartTime: at}); err != nil {
		t.Fatalf("create show: %v", err)
	}
}

func flashText(p render.Page) []string {
	out := make([]string, 0, len(p.Flashes))
	for _, m := range p.Flashes {
		out = append(out, m.Text)
	}
	return out
}

func venueForm() url.Values {
	return url.Values{
		"name":          {"The Musical Hop"},
		"city":          {"San Francisco"},
		"state":         {"CA"},
		"address":       {"1015 Folsom Street"},
		"phone":         {"123-123-1234"},
		"genres":        {"Jazz", "Reggae"},
		"facebook_link": {"https://www.facebook.com/TheMusicalHop"},
	}
}

func TestHomeAndHealth(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodGet, "/", nil, "")
	if rec.Code != http.StatusOK || s.pages.last(t).name != render.Home {
		t.Fatalf("GET / = %d %s", rec.Code, rec.Body.String())
	}

	rec = s.do(http.MethodGet, "/healthz", nil, "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("GET /healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestUnknownRouteRendersNotFound(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodGet, "/nowhere", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := s.pages.last(t).name; got != render.NotFound {
		t.Fatalf("page = %s, want %s", got, render.NotFound)
	}
}

func TestCreateVenueSuccess(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodPost, "/venues/create", venueForm(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	got := s.pages.last(t)
	if got.name != render.Home {
		t.Fatalf("page = %s, want home", got.name)
	}
	if texts := flashText(got.page); len(texts) != 1 || texts[0] != "Venue The Musical Hop was successfully listed!" {
		t.Fatalf("flashes = %v", texts)
	}
	if n := dbtest.Count(t, s.db, "venues"); n != 1 {
		t.Fatalf("venues = %d, want 1", n)
	}

	v, err := s.cat.Venue(context.Background(), 1)
	if err != nil {
		t.Fatalf("stored venue: %v", err)
	}
	if len(v.Genres) != 2 || v.ImageLink != service.PlaceholderImage {
		t.Fatalf("stored = %+v", v)
	}
}

func TestCreateVenueValidationFailure(t *testing.T) {
	s := newServer(t)

	form := venueForm()
	form.Del("name")
	rec := s.do(http.MethodPost, "/venues/create", form, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	got := s.pages.last(t)
	if got.name != render.NewVenue {
		t.Fatalf("page = %s, want new venue form", got.name)
	}
	view, ok := got.page.Data.(handler.EntityFormView)
	if !ok {
		t.Fatalf("data = %T", got.page.Data)
	}
	if view.Errors["name"] != "name is required" || view.City != "San Francisco" {
		t.Fatalf("view = %+v", view)
	}
	if len(got.page.Flashes) != 1 || got.page.Flashes[0].Category != notify.Failure {
		t.Fatalf("flashes = %+v", got.page.Flashes)
	}
	if n := dbtest.Count(t, s.db, "venues"); n != 0 {
		t.Fatalf("venues = %d, want 0", n)
	}
}

func TestCreateArtistAcceptsBracketedGenres(t *testing.T) {
	s := newServer(t)

	form := url.Values{
		"name":     {"Guns N Petals"},
		"city":     {"San Francisco"},
		"state":    {"CA"},
		"genres[]": {"Rock n Roll"},
	}
	rec := s.do(http.MethodPost, "/artists/create", form, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %v", rec.Code, flashText(s.pages.last(t).page))
	}
	a, err := s.cat.Artist(context.Background(), 1)
	if err != nil {
		t.Fatalf("stored artist: %v", err)
	}
	if len(a.Genres) != 1 || a.Genres[0] != "Rock n Roll" {
		t.Fatalf("genres = %v", a.Genres)
	}
}

func TestCreateShowUnknownArtistFlashesFailure(t *testing.T) {
	s := newServer(t)
	v := s.venue(t, "Hall", "Austin", "TX")

	form := url.Values{
		"artist_id":  {"999"},
		"venue_id":   {itoa(v)},
		"start_time": {"2035-04-01 20:00:00"},
	}
	rec := s.do(http.MethodPost, "/shows/create", form, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	got := s.pages.last(t)
	if got.name != render.Home {
		t.Fatalf("page = %s, want home", got.name)
	}
	if texts := flashText(got.page); len(texts) != 1 || texts[0] != "An error occurred. Show could not be listed." {
		t.Fatalf("flashes = %v", texts)
	}
	if n := dbtest.Count(t, s.db, "shows"); n != 0 {
		t.Fatalf("shows = %d, want 0", n)
	}
}

func TestCreateShow(t *testing.T) {
	s := newServer(t)
	v := s.venue(t, "Hall", "Austin", "TX")
	a := s.artist(t, "Band")

	bad := url.Values{"artist_id": {itoa(a)}, "venue_id": {itoa(v)}, "start_time": {"next friday"}}
	rec := s.do(http.MethodPost, "/shows/create", bad, "")
	if rec.Code != http.StatusBadRequest || s.pages.last(t).name != render.NewShow {
		t.Fatalf("invalid start_time: status %d page %s", rec.Code, s.pages.last(t).name)
	}

	good := url.Values{"artist_id": {itoa(a)}, "venue_id": {itoa(v)}, "start_time": {"2035-04-01 20:00:00"}}
	rec = s.do(http.MethodPost, "/shows/create", good, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if texts := flashText(s.pages.last(t).page); len(texts) != 1 || texts[0] != "Show was successfully listed!" {
		t.Fatalf("flashes = %v", texts)
	}

	rec = s.do(http.MethodGet, "/shows", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /shows = %d", rec.Code)
	}
	shows, ok := s.pages.last(t).page.Data.([]service.ShowListing)
	if !ok || len(shows) != 1 || shows[0].StartTime != "04/01/2035, 20:00:00" {
		t.Fatalf("shows = %#v", s.pages.last(t).page.Data)
	}
}

func TestVenueDetailAndNotFound(t *testing.T) {
	s := newServer(t)
	v := s.venue(t, "The Musical Hop", "San Francisco", "CA")
	a := s.artist(t, "Guns N Petals")
	s.show(t, a, v, testNow.Add(24*time.Hour))

	rec := s.do(http.MethodGet, "/venues/"+itoa(v), nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	d, ok := s.pages.last(t).page.Data.(*service.VenueDetail)
	if !ok || d.UpcomingShowsCount != 1 || d.UpcomingShows[0].ArtistName != "Guns N Petals" {
		t.Fatalf("detail = %#v", s.pages.last(t).page.Data)
	}

	for _, path := range []string{"/venues/999", "/venues/abc", "/artists/999", "/venues/999/edit", "/artists/0/edit"} {
		rec := s.do(http.MethodGet, path, nil, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", path, rec.Code)
			continue
		}
		if got := s.pages.last(t).name; got != render.NotFound {
			t.Errorf("GET %s rendered %s, want 404 page", path, got)
		}
	}
}

func TestListAndSearchVenues(t *testing.T) {
	s := newServer(t)
	s.venue(t, "The Musical Hop", "San Francisco", "CA")
	s.venue(t, "The Dueling Pianos Bar", "New York", "NY")
	s.venue(t, "Park Square Live Music & Coffee", "San Francisco", "CA")

	s.do(http.MethodGet, "/venues", nil, "")
	areas, ok := s.pages.last(t).page.Data.([]service.Area)
	if !ok || len(areas) != 2 || len(areas[0].Venues) != 2 {
		t.Fatalf("areas = %#v", s.pages.last(t).page.Data)
	}

	s.do(http.MethodPost, "/venues/search", url.Values{"search_term": {"Music"}}, "")
	got := s.pages.last(t)
	res, ok := got.page.Data.(service.SearchResult)
	if !ok || res.Count != 2 || got.page.SearchTerm != "Music" {
		t.Fatalf("search = %#v term %q", got.page.Data, got.page.SearchTerm)
	}
}

func TestListAndSearchArtists(t *testing.T) {
	s := newServer(t)
	s.artist(t, "Guns N Petals")
	s.artist(t, "Matt Quevedo")

	s.do(http.MethodGet, "/artists", nil, "")
	all, ok := s.pages.last(t).page.Data.([]service.Summary)
	if !ok || len(all) != 2 {
		t.Fatalf("artists = %#v", s.pages.last(t).page.Data)
	}

	s.do(http.MethodPost, "/artists/search", url.Values{"search_term": {"matt"}}, "")
	res, ok := s.pages.last(t).page.Data.(service.SearchResult)
	if !ok || res.Count != 1 || res.Data[0].Name != "Matt Quevedo" {
		t.Fatalf("search = %#v", s.pages.last(t).page.Data)
	}
}

func TestDeleteVenueJSON(t *testing.T) {
	s := newServer(t)
	v := s.venue(t, "Doomed", "Austin", "TX")
	a := s.artist(t, "Band")
	s.show(t, a, v, testNow.Add(time.Hour))

	rec := s.do(http.MethodDelete, "/venues/"+itoa(v), nil, echo.MIMEApplicationJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Success  bool   `json:"success"`
		Redirect string `json:"redirect"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v (%s)", err, rec.Body.String())
	}
	if !body.Success || body.Redirect != "/" {
		t.Fatalf("body = %+v", body)
	}
	if n := dbtest.Count(t, s.db, "shows"); n != 0 {
		t.Fatalf("shows = %d, want 0", n)
	}
	if rec := s.do(http.MethodGet, "/venues/"+itoa(v), nil, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("GET after delete = %d, want 404", rec.Code)
	}

	rec = s.do(http.MethodDelete, "/venues/"+itoa(v), nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete = %d, want 404", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Success {
		t.Fatalf("second delete body = %s", rec.Body.String())
	}
}

func TestDeleteVenueFromFormRedirects(t *testing.T) {
	s := newServer(t)
	v := s.venue(t, "Doomed", "Austin", "TX")

	rec := s.do(http.MethodPost, "/venues/"+itoa(v), url.Values{"_method": {"DELETE"}}, "text/html,application/xhtml+xml")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/" {
		t.Fatalf("Location = %q, want /", loc)
	}
	if n := dbtest.Count(t, s.db, "venues"); n != 0 {
		t.Fatalf("venues = %d, want 0", n)
	}
}

func TestUpdateVenueIsPartialAndRedirects(t *testing.T) {
	s := newServer(t)
	v, err := s.cat.CreateVenue(context.Background(), service.VenueInput{
		Name: "Old", City: "Austin", State: "TX", Address: "1 Main St", Genres: []string{"Folk"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rec := s.do(http.MethodPost, "/venues/"+itoa(v.ID)+"/edit", url.Values{"name": {"New"}}, "")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/venues/"+itoa(v.ID) {
		t.Fatalf("Location = %q", loc)
	}

	got, err := s.cat.Venue(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "New" || got.City != "Austin" || got.Address != "1 Main St" || len(got.Genres) != 1 {
		t.Fatalf("after edit = %+v", got)
	}

	// The flash survives the redirect.
	s.do(http.MethodGet, "/venues/"+itoa(v.ID), nil, "", rec.Result().Cookies()...)
	if texts := flashText(s.pages.last(t).page); len(texts) != 1 || texts[0] != "Venue New was successfully updated!" {
		t.Fatalf("flashes after redirect = %v", texts)
	}

	rec = s.do(http.MethodPost, "/venues/999/edit", url.Values{"name": {"X"}}, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("edit missing venue = %d, want 404", rec.Code)
	}
}

func TestUpdateArtistBlankNameStillRedirects(t *testing.T) {
	s := newServer(t)
	id := s.artist(t, "Matt Quevedo")

	rec := s.do(http.MethodPost, "/artists/"+itoa(id)+"/edit", url.Values{"name": {"  "}}, "")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	a, err := s.cat.Artist(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if a.Name != "Matt Quevedo" {
		t.Fatalf("name = %q, want unchanged", a.Name)
	}

	s.do(http.MethodGet, "/artists/"+itoa(id), nil, "", rec.Result().Cookies()...)
	flashes := s.pages.last(t).page.Flashes
	if len(flashes) != 1 || flashes[0].Category != notify.Failure {
		t.Fatalf("flashes = %+v", flashes)
	}
}

func TestEditFormsArePrefilled(t *testing.T) {
	s := newServer(t)
	v := s.venue(t, "The Musical Hop", "San Francisco", "CA")

	rec := s.do(http.MethodGet, "/venues/"+itoa(v)+"/edit", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	view, ok := s.pages.last(t).page.Data.(handler.EntityFormView)
	if !ok || view.Name != "The Musical Hop" || view.ID != v {
		t.Fatalf("view = %#v", s.pages.last(t).page.Data)
	}
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func TestInvalidEditOfMissingEntityIsNotFound(t *testing.T) {
	s := newServer(t)

	cases := []struct {
		path string
		form url.Values
	}{
		{"/venues/999/edit", url.Values{"state": {"ABC"}}},
		{"/artists/999/edit", url.Values{"state": {"ABC"}}},
		{"/venues/999/edit", url.Values{"facebook_link": {"not a url"}}},
	}
	for _, tc := range cases {
		rec := s.do(http.MethodPost, tc.path, tc.form, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("POST %s %v = %d (Location %q), want 404", tc.path, tc.form, rec.Code, rec.Header().Get(echo.HeaderLocation))
			continue
		}
		if got := s.pages.last(t).name; got != render.NotFound {
			t.Errorf("POST %s rendered %s, want 404 page", tc.path, got)
		}
	}
}

func TestInvalidEditOfExistingVenueRedirects(t *testing.T) {
	s := newServer(t)
	v := s.venue(t, "Hall", "Austin", "TX")

	rec := s.do(http.MethodPost, "/venues/"+itoa(v)+"/edit", url.Values{"state": {"ABC"}}, "")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	got, err := s.cat.Venue(context.Background(), v)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.State != "TX" {
		t.Fatalf("state = %q, want unchanged", got.State)
	}
}

func TestSearchTermIsNotTrimmed(t *testing.T) {
	s := newServer(t)
	park := s.venue(t, "Park Square Live Music & Coffee", "San Francisco", "CA")
	s.venue(t, "Olive Tree", "Austin", "TX")
	s.artist(t, "Olivia Live")
	s.artist(t, "Clive")

	s.do(http.MethodPost, "/venues/search", url.Values{"search_term": {" Live"}}, "")
	got := s.pages.last(t)
	res, ok := got.page.Data.(service.SearchResult)
	if !ok || res.Count != 1 || res.Data[0].ID != park {
		t.Fatalf("venue search = %#v", got.page.Data)
	}
	if got.page.SearchTerm != " Live" {
		t.Fatalf("SearchTerm = %q, want %q", got.page.SearchTerm, " Live")
	}

	s.do(http.MethodPost, "/artists/search", url.Values{"search_term": {" live"}}, "")
	res, ok = s.pages.last(t).page.Data.(service.SearchResult)
	if !ok || res.Count != 1 || res.Data[0].Name != "Olivia Live" {
		t.Fatalf("artist search = %#v", s.pages.last(t).page.Data)
	}
}

func TestCreateVenueAcceptsLongFacebookLink(t *testing.T) {
	s := newServer(t)

	link := "https://www.facebook.com/" + strings.Repeat("a", 400)
	form := venueForm()
	form.Set("facebook_link", link)
	rec := s.do(http.MethodPost, "/venues/create", form, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %v", rec.Code, flashText(s.pages.last(t).page))
	}
	v, err := s.cat.Venue(context.Background(), 1)
	if err != nil {
		t.Fatalf("stored venue: %v", err)
	}
	if v.FacebookLink != link {
		t.Fatalf("facebook_link length = %d, want %d", len(v.FacebookLink), len(link))
	}
}

func TestHealthReportsDatabaseOutage(t *testing.T) {
	s := newServer(t)

	if err := s.db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	rec := s.do(http.MethodGet, "/healthz", nil, "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("GET /healthz = %d, want 503", rec.Code)
	}
}
