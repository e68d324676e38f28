package model

import "time"

// Show is a scheduled event linking one artist to one venue.  StartTime is
// persisted as UTC epoch milliseconds in `shows.start_time`.
type Show struct {
    ID        int64     `json:"id"`         // shows.id
    ArtistID  int64     `json:"artist_id"`  // shows.artist_id
    VenueID   int64     `json:"venue_id"`   // shows.venue_id
    StartTime time.Time `json:"start_time"` // shows.start_time
}

// ShowDetail is a show joined with the display fields of its venue and
// artist.  Listing and detail pages are built from these rows.
type ShowDetail struct {
    Show
    VenueName       string
    VenueImageLink  string
    ArtistName      string
    ArtistImageLink string
}
