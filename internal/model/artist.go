package model

// Artist is a performer who can be booked for shows.  It mirrors the
// `artists` table; unlike a venue it has no street address.
type Artist struct {
    ID           int64    `json:"id"`            // artists.id
    Name         string   `json:"name"`          // artists.name
    City         string   `json:"city"`          // artists.city
    State        string   `json:"state"`         // artists.state
    Phone        string   `json:"phone"`         // artists.phone
    Genres       []string `json:"genres"`        // artists.genres
    ImageLink    string   `json:"image_link"`    // artists.image_link
    FacebookLink string   `json:"facebook_link"` // artists.facebook_link
}
