package service

import (
	"context"
	"errors"

	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/repository"
)

// VenuesByArea groups every venue under its exact (city, state) pair.  Areas
// appear in the order their first venue appears (venues are read by id), and
// each venue carries its number of upcoming shows.
func (c *Catalog) VenuesByArea(ctx context.Context) ([]Area, error) {
	const op = "list venues"
	venues, err := c.venues.ListAll(ctx)
	if err != nil {
		return nil, fail(op, KindPersistence, err)
	}
	counts, err := c.shows.CountUpcomingByVenue(ctx, c.now())
	if err != nil {
		return nil, fail(op, KindPersistence, err)
	}

	type areaKey struct{ city, state string }
	index := make(map[areaKey]int)
	areas := make([]Area, 0)
	for _, v := range venues {
		k := areaKey{v.City, v.State}
		i, ok := index[k]
		if !ok {
			i = len(areas)
			index[k] = i
			areas = append(areas, Area{City: v.City, State: v.State})
		}
		areas[i].Venues = append(areas[i].Venues, Summary{
			ID:               v.ID,
			Name:             v.Name,
			NumUpcomingShows: counts[v.ID],
		})
	}
	return areas, nil
}

// SearchVenues matches venue names containing term, ignoring case.
func (c *Catalog) SearchVenues(ctx context.Context, term string) (SearchResult, error) {
	const op = "search venues"
	venues, err := c.venues.SearchByName(ctx, term)
	if err != nil {
		return SearchResult{}, fail(op, KindPersistence, err)
	}
	counts, err := c.shows.CountUpcomingByVenue(ctx, c.now())
	if err != nil {
		return SearchResult{}, fail(op, KindPersistence, err)
	}
	data := make([]Summary, 0, len(venues))
	for _, v := range venues {
		data = append(data, Summary{ID: v.ID, Name: v.Name, NumUpcomingShows: counts[v.ID]})
	}
	return SearchResult{Count: len(data), Data: data}, nil
}

// SearchArtists matches artist names containing term, ignoring case.
func (c *Catalog) SearchArtists(ctx context.Context, term string) (SearchResult, error) {
	const op = "search artists"
	artists, err := c.artists.SearchByName(ctx, term)
	if err != nil {
		return SearchResult{}, fail(op, KindPersistence, err)
	}
	data, err := c.artistSummaries(ctx, artists)
	if err != nil {
		return SearchResult{}, fail(op, KindPersistence, err)
	}
	return SearchResult{Count: len(data), Data: data}, nil
}

// Artists lists every artist for the artist index.
func (c *Catalog) Artists(ctx context.Context) ([]Summary, error) {
	const op = "list artists"
	artists, err := c.artists.ListAll(ctx)
	if err != nil {
		return nil, fail(op, KindPersistence, err)
	}
	data, err := c.artistSummaries(ctx, artists)
	if err != nil {
		return nil, fail(op, KindPersistence, err)
	}
	return data, nil
}

func (c *Catalog) artistSummaries(ctx context.Context, artists []model.Artist) ([]Summary, error) {
	counts, err := c.shows.CountUpcomingByArtist(ctx, c.now())
	if err != nil {
		return nil, err
	}
	data := make([]Summary, 0, len(artists))
	for _, a := range artists {
		data = append(data, Summary{ID: a.ID, Name: a.Name, NumUpcomingShows: counts[a.ID]})
	}
	return data, nil
}

// VenueDetail returns the venue with its past and upcoming shows.
func (c *Catalog) VenueDetail(ctx context.Context, id int64) (*VenueDetail, error) {
	const op = "venue detail"
	v, err := c.venues.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(op, err)
	}
	now := c.now()
	past, err := c.shows.ListForVenue(ctx, id, repository.Past, now)
	if err != nil {
		return nil, fail(op, KindPersistence, err)
	}
	upcoming, err := c.shows.ListForVenue(ctx, id, repository.Upcoming, now)
	if err != nil {
		return nil, fail(op, KindPersistence, err)
	}
	d := &VenueDetail{
		Venue:         *v,
		PastShows:     c.venueShows(past),
		UpcomingShows: c.venueShows(upcoming),
	}
	d.PastShowsCount = len(d.PastShows)
	d.UpcomingShowsCount = len(d.UpcomingShows)
	return d, nil
}

func (c *Catalog) venueShows(rows []model.ShowDetail) []VenueShow {
	out := make([]VenueShow, 0, len(rows))
	for _, s := range rows {
		out = append(out, VenueShow{
			ArtistID:        s.ArtistID,
			ArtistName:      s.ArtistName,
			ArtistImageLink: s.ArtistImageLink,
			StartTime:       c.format(s.StartTime),
		})
	}
	return out
}

// ArtistDetail returns the artist with its past and upcoming shows.
func (c *Catalog) ArtistDetail(ctx context.Context, id int64) (*ArtistDetail, error) {
	const op = "artist detail"
	a, err := c.artists.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(op, err)
	}
	now := c.now()
	past, err := c.shows.ListForArtist(ctx, id, repository.Past, now)
	if err != nil {
		return nil, fail(op, KindPersistence, err)
	}
	upcoming, err := c.shows.ListForArtist(ctx, id, repository.Upcoming, now)
	if err != nil {
		return nil, fail(op, KindPersistence, err)
	}
	d := &ArtistDetail{
		Artist:        *a,
		PastShows:     c.artistShows(past),
		UpcomingShows: c.artistShows(upcoming),
	}
	d.PastShowsCount = len(d.PastShows)
	d.UpcomingShowsCount = len(d.UpcomingShows)
	return d, nil
}

func (c *Catalog) artistShows(rows []model.ShowDetail) []ArtistShow {
	out := make([]ArtistShow, 0, len(rows))
	for _, s := range rows {
		out = append(out, ArtistShow{
			VenueID:        s.VenueID,
			VenueName:      s.VenueName,
			VenueImageLink: s.VenueImageLink,
			StartTime:      c.format(s.StartTime),
		})
	}
	return out
}

// UpcomingShows lists every show that has not started yet, soonest first.
func (c *Catalog) UpcomingShows(ctx context.Context) ([]ShowListing, error) {
	rows, err := c.shows.ListUpcoming(ctx, c.now())
	if err != nil {
		return nil, fail("list shows", KindPersistence, err)
	}
	out := make([]ShowListing, 0, len(rows))
	for _, s := range rows {
		out = append(out, ShowListing{
			VenueID:         s.VenueID,
			VenueName:       s.VenueName,
			ArtistID:        s.ArtistID,
			ArtistName:      s.ArtistName,
			ArtistImageLink: s.ArtistImageLink,
			StartTime:       c.format(s.StartTime),
		})
	}
	return out, nil
}

// Venue returns the stored venue, used to prefill the edit form.
func (c *Catalog) Venue(ctx context.Context, id int64) (*model.Venue, error) {
	v, err := c.venues.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError("get venue", err)
	}
	return v, nil
}

// Artist returns the stored artist, used to prefill the edit form.
func (c *Catalog) Artist(ctx context.Context, id int64) (*model.Artist, error) {
	a, err := c.artists.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError("get artist", err)
	}
	return a, nil
}

func lookupError(op string, err error) error {
	if errors.Is(err, repository.ErrVenueNotFound) || errors.Is(err, repository.ErrArtistNotFound) {
		return fail(op, KindNotFound, err)
	}
	return fail(op, KindPersistence, err)
}
