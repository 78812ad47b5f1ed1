package dto

import "time"

// StayForm is the multipart/form payload for creating and updating stays.
// Numeric fields arrive as strings and are parsed by the controller so a
// malformed value fails the whole write with the field name.
type StayForm struct {
	Title         string `form:"title"`
	Description   string `form:"description"`
	LocationName  string `form:"location_name"`
	PricePerNight string `form:"price_per_night"`
	MaxGuests     string `form:"max_guests"`
	Bedrooms      string `form:"bedrooms"`
	Bathrooms     string `form:"bathrooms"`
	Status        string `form:"status"`
	Address       string `form:"address"`
	Zipcode       string `form:"zipcode"`
	City          string `form:"city"`
	State         string `form:"state"`
	Latitude      string `form:"latitude"`
	Longitude     string `form:"longitude"`
	Images        string `form:"images"`       // comma-separated URLs or filenames
	Amenities     string `form:"amenities"`    // JSON array of amenity ids
	Availability  string `form:"availability"` // JSON array of AvailabilityEntry
}

type AvailabilityEntry struct {
	Date          string   `json:"date" binding:"required"`
	IsAvailable   bool     `json:"is_available"`
	PriceOverride *float64 `json:"price_override"`
}

type AvailabilityInput struct {
	Dates []AvailabilityEntry `json:"dates" binding:"required"`
}

type ImageEntry struct {
	URL   string `json:"url"`
	Order int    `json:"order"`
}

type HostStayResponse struct {
	ID            uint                `json:"id"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	LocationName  string              `json:"location_name"`
	PricePerNight float64             `json:"price_per_night"`
	MaxGuests     int                 `json:"max_guests"`
	Bedrooms      int                 `json:"bedrooms"`
	Bathrooms     int                 `json:"bathrooms"`
	Status        string              `json:"status"`
	Address       string              `json:"address"`
	Zipcode       string              `json:"zipcode"`
	City          string              `json:"city"`
	State         string              `json:"state"`
	Latitude      float64             `json:"latitude"`
	Longitude     float64             `json:"longitude"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	Images        []ImageEntry        `json:"images"`
	Amenities     []int               `json:"amenities"`
	Availability  []AvailabilityEntry `json:"availability,omitempty"`
}

type StayDetails struct {
	Bedrooms  int    `json:"bedrooms"`
	Bathrooms int    `json:"bathrooms"`
	MaxGuests int    `json:"maxGuests"`
	Location  string `json:"location"`
}

type HostInfo struct {
	Name    string  `json:"name"`
	Image   string  `json:"image"`
	Rating  float64 `json:"rating"`
	Reviews int     `json:"reviews"`
}

type PublicStayResponse struct {
	ID            uint         `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	LocationName  string       `json:"location_name"`
	PricePerNight float64      `json:"price_per_night"`
	Status        string       `json:"status"`
	Zipcode       string       `json:"zipcode"`
	City          string       `json:"city"`
	State         string       `json:"state"`
	Latitude      float64      `json:"latitude"`
	Longitude     float64      `json:"longitude"`
	Distance      *float64     `json:"distance,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	Details       StayDetails  `json:"details"`
	Host          HostInfo     `json:"host"`
	Images        []ImageEntry `json:"images"`
	Amenities     []string     `json:"amenities"`
}
