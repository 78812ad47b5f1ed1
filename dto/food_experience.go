package dto

import "time"

// FoodExperienceForm is the multipart/form payload for creating and updating
// food experiences.
type FoodExperienceForm struct {
	Title           string `form:"title"`
	Description     string `form:"description"`
	LocationName    string `form:"location_name"`
	PricePerPerson  string `form:"price_per_person"`
	CuisineType     string `form:"cuisine_type"`
	MenuDescription string `form:"menu_description"`
	Status          string `form:"status"`
	Address         string `form:"address"`
	Zipcode         string `form:"zipcode"`
	City            string `form:"city"`
	State           string `form:"state"`
	Latitude        string `form:"latitude"`
	Longitude       string `form:"longitude"`
	Images          string `form:"images"` // comma-separated URLs or filenames
}

type HostFoodExperienceResponse struct {
	ID              uint         `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	MenuDescription string       `json:"menu_description"`
	LocationName    string       `json:"location_name"`
	PricePerPerson  float64      `json:"price_per_person"`
	CuisineType     string       `json:"cuisine_type"`
	Status          string       `json:"status"`
	Address         string       `json:"address"`
	Zipcode         string       `json:"zipcode"`
	City            string       `json:"city"`
	State           string       `json:"state"`
	Latitude        float64      `json:"latitude"`
	Longitude       float64      `json:"longitude"`
	Duration        string       `json:"duration"`
	MaxGuests       int          `json:"max_guests"`
	Language        string       `json:"language"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
	Images          []ImageEntry `json:"images"`
}

type PublicFoodExperienceResponse struct {
	ID             uint         `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	PricePerPerson float64      `json:"price_per_person"`
	CuisineType    string       `json:"cuisine_type"`
	LocationName   string       `json:"location_name"`
	Zipcode        string       `json:"zipcode"`
	City           string       `json:"city"`
	State          string       `json:"state"`
	Latitude       float64      `json:"latitude"`
	Longitude      float64      `json:"longitude"`
	Images         []ImageEntry `json:"images"`
	Host           HostInfo     `json:"host"`
}

type FoodExperienceDetails struct {
	Duration  string   `json:"duration"`
	GroupSize string   `json:"groupSize"`
	Includes  []string `json:"includes"`
	Language  string   `json:"language"`
	Location  string   `json:"location"`
}

type FoodExperienceDetailResponse struct {
	ID              uint                  `json:"id"`
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	MenuDescription string                `json:"menu_description"`
	PricePerPerson  float64               `json:"price_per_person"`
	CuisineType     string                `json:"cuisine_type"`
	Images          []ImageEntry          `json:"images"`
	Host            HostInfo              `json:"host"`
	Details         FoodExperienceDetails `json:"details"`
}

type ReorderImagesInput struct {
	ImageOrder []string `json:"imageOrder" binding:"required"`
}

type DeleteImageInput struct {
	ImageURL string `json:"imageUrl" binding:"required"`
}

type FoodCategory struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}
