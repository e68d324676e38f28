package handler

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/service"
	"github.com/iliyamo/venue-booking/internal/validation"
)

// venueForm is the body of POST /venues/create.
type venueForm struct {
	Name         string   `form:"name" validate:"required,max=120"`
	City         string   `form:"city" validate:"required,max=120"`
	State        string   `form:"state" validate:"required,len=2"`
	Address      string   `form:"address" validate:"required,max=120"`
	Phone        string   `form:"phone" validate:"omitempty,max=120"`
	Genres       []string `form:"genres" validate:"genres"`
	FacebookLink string   `form:"facebook_link" validate:"omitempty,url,max=500"`
}

// artistForm is the body of POST /artists/create.
type artistForm struct {
	Name         string   `form:"name" validate:"required,max=120"`
	City         string   `form:"city" validate:"required,max=120"`
	State        string   `form:"state" validate:"required,len=2"`
	Phone        string   `form:"phone" validate:"omitempty,max=120"`
	Genres       []string `form:"genres" validate:"genres"`
	FacebookLink string   `form:"facebook_link" validate:"omitempty,url,max=500"`
}

// venueEditForm and artistEditForm accept any subset of fields.  A blank
// name is rejected by the catalog rather than here.
type venueEditForm struct {
	Name         string   `form:"name" validate:"max=120"`
	City         string   `form:"city" validate:"max=120"`
	State        string   `form:"state" validate:"omitempty,len=2"`
	Address      string   `form:"address" validate:"max=120"`
	Phone        string   `form:"phone" validate:"max=120"`
	Genres       []string `form:"genres"`
	FacebookLink string   `form:"facebook_link" validate:"omitempty,url,max=500"`
}

type artistEditForm struct {
	Name         string   `form:"name" validate:"max=120"`
	City         string   `form:"city" validate:"max=120"`
	State        string   `form:"state" validate:"omitempty,len=2"`
	Phone        string   `form:"phone" validate:"max=120"`
	Genres       []string `form:"genres"`
	FacebookLink string   `form:"facebook_link" validate:"omitempty,url,max=500"`
}

// showForm is the body of POST /shows/create.  Ids stay strings until
// validated so a bad value becomes a form error instead of a bind failure.
type showForm struct {
	ArtistID  string `form:"artist_id" validate:"required,number"`
	VenueID   string `form:"venue_id" validate:"required,number"`
	StartTime string `form:"start_time" validate:"required,starttime"`
}

// bindForm decodes the request body into dst and folds the PHP-style
// "genres[]" key into genres.  It returns the raw values so edit handlers
// can tell which fields were submitted.
func bindForm(c echo.Context, dst any, genres *[]string) (url.Values, error) {
	if err := c.Bind(dst); err != nil {
		return nil, err
	}
	values, err := c.FormParams()
	if err != nil {
		return nil, err
	}
	if genres != nil {
		*genres = append(*genres, values["genres[]"]...)
	}
	return values, nil
}

func submitted(values url.Values, key string) bool {
	_, ok := values[key]
	return ok
}

func genresSubmitted(values url.Values) bool {
	return submitted(values, "genres") || submitted(values, "genres[]")
}

func (f venueForm) input() service.VenueInput {
	return service.VenueInput{
		Name:         f.Name,
		City:         f.City,
		State:        f.State,
		Address:      f.Address,
		Phone:        f.Phone,
		Genres:       f.Genres,
		FacebookLink: f.FacebookLink,
	}
}

func (f artistForm) input() service.ArtistInput {
	return service.ArtistInput{
		Name:         f.Name,
		City:         f.City,
		State:        f.State,
		Phone:        f.Phone,
		Genres:       f.Genres,
		FacebookLink: f.FacebookLink,
	}
}

func (f venueEditForm) patch(values url.Values) service.VenuePatch {
	var p service.VenuePatch
	if submitted(values, "name") {
		p.Name = &f.Name
	}
	if submitted(values, "city") {
		p.City = &f.City
	}
	if submitted(values, "state") {
		p.State = &f.State
	}
	if submitted(values, "address") {
		p.Address = &f.Address
	}
	if submitted(values, "phone") {
		p.Phone = &f.Phone
	}
	if genresSubmitted(values) {
		p.Genres = &f.Genres
	}
	if submitted(values, "facebook_link") {
		p.FacebookLink = &f.FacebookLink
	}
	return p
}

func (f artistEditForm) patch(values url.Values) service.ArtistPatch {
	var p service.ArtistPatch
	if submitted(values, "name") {
		p.Name = &f.Name
	}
	if submitted(values, "city") {
		p.City = &f.City
	}
	if submitted(values, "state") {
		p.State = &f.State
	}
	if submitted(values, "phone") {
		p.Phone = &f.Phone
	}
	if genresSubmitted(values) {
		p.Genres = &f.Genres
	}
	if submitted(values, "facebook_link") {
		p.FacebookLink = &f.FacebookLink
	}
	return p
}

func (f showForm) input(loc *time.Location) (service.ShowInput, error) {
	artistID, err := strconv.ParseInt(strings.TrimSpace(f.ArtistID), 10, 64)
	if err != nil {
		return service.ShowInput{}, fmt.Errorf("artist_id: %w", err)
	}
	venueID, err := strconv.ParseInt(strings.TrimSpace(f.VenueID), 10, 64)
	if err != nil {
		return service.ShowInput{}, fmt.Errorf("venue_id: %w", err)
	}
	start, err := validation.ParseStartTime(f.StartTime, loc)
	if err != nil {
		return service.ShowInput{}, err
	}
	return service.ShowInput{ArtistID: artistID, VenueID: venueID, StartTime: start}, nil
}

// EntityFormView prefills the venue and artist forms.  Address is ignored
// by the artist templates.
type EntityFormView struct {
	ID           int64
	Name         string
	City         string
	State        string
	Address      string
	Phone        string
	Genres       []string
	FacebookLink string
	Errors       map[string]string
}

// ShowFormView prefills the new show form.
type ShowFormView struct {
	ArtistID  string
	VenueID   string
	StartTime string
	Errors    map[string]string
}

func venueView(v *model.Venue) EntityFormView {
	return EntityFormView{
		ID: v.ID, Name: v.Name, City: v.City, State: v.State, Address: v.Address,
		Phone: v.Phone, Genres: v.Genres, FacebookLink: v.FacebookLink,
	}
}

func artistView(a *model.Artist) EntityFormView {
	return EntityFormView{
		ID: a.ID, Name: a.Name, City: a.City, State: a.State,
		Phone: a.Phone, Genres: a.Genres, FacebookLink: a.FacebookLink,
	}
}

func (f venueForm) view(errs map[string]string) EntityFormView {
	return EntityFormView{
		Name: f.Name, City: f.City, State: f.State, Address: f.Address,
		Phone: f.Phone, Genres: f.Genres, FacebookLink: f.FacebookLink, Errors: errs,
	}
}

func (f artistForm) view(errs map[string]string) EntityFormView {
	return EntityFormView{
		Name: f.Name, City: f.City, State: f.State,
		Phone: f.Phone, Genres: f.Genres, FacebookLink: f.FacebookLink, Errors: errs,
	}
}

func (f showForm) view(errs map[string]string) ShowFormView {
	return ShowFormView{ArtistID: f.ArtistID, VenueID: f.VenueID, StartTime: f.StartTime, Errors: errs}
}
