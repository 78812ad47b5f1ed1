package dto

// SearchFilters is the remembered browse state for a session. Nil pointers
// mean "not supplied", so a later request can merge on top of an earlier one.
type SearchFilters struct {
	MinPrice  *float64 `json:"min_price,omitempty"`
	MaxPrice  *float64 `json:"max_price,omitempty"`
	MinGuests *int     `json:"min_guests,omitempty"`
	Amenities []string `json:"amenities,omitempty"`
	Zipcode   string   `json:"zipcode,omitempty"`
	Query     string   `json:"q,omitempty"`
	Sort      string   `json:"sort,omitempty"`
	Lat       *float64 `json:"lat,omitempty"`
	Lng       *float64 `json:"lng,omitempty"`
	Radius    *float64 `json:"radius,omitempty"`
}

// NearbyListing is one row of the merged nearby search.
type NearbyListing struct {
	ID        uint    `json:"id"`
	Title     string  `json:"title"`
	Type      string  `json:"type"` // food or stay
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Distance  float64 `json:"distance"`
}

type AmenityOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UploadResponse struct {
	URL     string `json:"url"`
	Message string `json:"message"`
}
