package model

// Venue is a location that can host shows.  This struct corresponds to a
// row in the `venues` table.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – display name, never empty.
//  City, State  – the area the venue is listed under.
//  Address      – street address.
//  Phone        – contact phone number.
//  Genres       – genre tags, stored as a JSON array.
//  ImageLink    – picture shown on listing pages.
//  FacebookLink – social profile URL.
type Venue struct {
    ID           int64    `json:"id"`            // venues.id
    Name         string   `json:"name"`          // venues.name
    City         string   `json:"city"`          // venues.city
    State        string   `json:"state"`         // venues.state
    Address      string   `json:"address"`       // venues.address
    Phone        string   `json:"phone"`         // venues.phone
    Genres       []string `json:"genres"`        // venues.genres
    ImageLink    string   `json:"image_link"`    // venues.image_link
    FacebookLink string   `json:"facebook_link"` // venues.facebook_link
}
