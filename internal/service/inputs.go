package service

import (
	"strings"
	"time"

	"github.com/iliyamo/venue-booking/internal/model"
)

// VenueInput carries the user-supplied fields of a new venue.
type VenueInput struct {
	Name         string
	City         string
	State        string
	Address      string
	Phone        string
	Genres       []string
	FacebookLink string
}

// ArtistInput carries the user-supplied fields of a new artist.
type ArtistInput struct {
	Name         string
	City         string
	State        string
	Phone        string
	Genres       []string
	FacebookLink string
}

// ShowInput links an artist to a venue at a point in time.
type ShowInput struct {
	ArtistID  int64
	VenueID   int64
	StartTime time.Time
}

// VenuePatch lists the venue fields an edit may change.  A nil field keeps
// the stored value.  image_link is not editable.
type VenuePatch struct {
	Name         *string
	City         *string
	State        *string
	Address      *string
	Phone        *string
	Genres       *[]string
	FacebookLink *string
}

// ArtistPatch lists the artist fields an edit may change.
type ArtistPatch struct {
	Name         *string
	City         *string
	State        *string
	Phone        *string
	Genres       *[]string
	FacebookLink *string
}

func (p VenuePatch) apply(v *model.Venue) {
	setString(&v.Name, p.Name)
	setString(&v.City, p.City)
	setString(&v.State, p.State)
	setString(&v.Address, p.Address)
	setString(&v.Phone, p.Phone)
	setString(&v.FacebookLink, p.FacebookLink)
	if p.Genres != nil {
		v.Genres = cleanGenres(*p.Genres)
	}
}

func (p ArtistPatch) apply(a *model.Artist) {
	setString(&a.Name, p.Name)
	setString(&a.City, p.City)
	setString(&a.State, p.State)
	setString(&a.Phone, p.Phone)
	setString(&a.FacebookLink, p.FacebookLink)
	if p.Genres != nil {
		a.Genres = cleanGenres(*p.Genres)
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// cleanGenres trims each tag and drops blanks and repeats, keeping order.
func cleanGenres(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, g := range in {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}
