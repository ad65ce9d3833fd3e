package models

// Place is a bookmarked location owned by exactly one user.
// At most one place per (latitude, longitude) pair is visible for a given
// owner; among duplicates the row with the smallest PlaceID is the
// representative.
type Place struct {
	PlaceID         int64   `json:"place_id"`
	OwnerID         string  `json:"owner_id"`
	Name            string  `json:"name"`
	Address         string  `json:"address"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	ExternalPlaceID string  `json:"external_place_id"`
}
