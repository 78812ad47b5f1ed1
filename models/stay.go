package models

import (
	"fmt"
	"time"

	"platform/constants"
)

type Stay struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	HostID        uint      `json:"host_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	LocationName  string    `json:"location_name"`
	Address       string    `json:"address"`
	Zipcode       string    `json:"zipcode"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	PricePerNight float64   `json:"price_per_night"`
	MaxGuests     int       `json:"max_guests"`
	Bedrooms      int       `json:"bedrooms"`
	Bathrooms     int       `json:"bathrooms"`
	Status        string    `gorm:"default:draft" json:"status"`
	Latitude      *float64  `json:"latitude"`
	Longitude     *float64  `json:"longitude"`
	IsFeatured    bool      `gorm:"default:false" json:"is_featured"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Host         User               `gorm:"foreignKey:HostID" json:"host,omitempty"`
	Images       []StayImage        `gorm:"foreignKey:StayID" json:"images,omitempty"`
	Amenities    []Amenity          `gorm:"many2many:stay_amenities" json:"amenities,omitempty"`
	Availability []StayAvailability `gorm:"foreignKey:StayID" json:"availability,omitempty"`
}

type StayImage struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	StayID       uint      `gorm:"index" json:"stay_id"`
	ImagePath    string    `json:"image_path"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// StayAvailability carries per-date overrides; PriceOverride nil means the
// stay's base price applies.
type StayAvailability struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	StayID        uint      `gorm:"uniqueIndex:idx_stay_date" json:"stay_id"`
	Date          string    `gorm:"uniqueIndex:idx_stay_date;type:date" json:"date"`
	IsAvailable   bool      `json:"is_available"`
	PriceOverride *float64  `json:"price_override"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *Stay) ValidateStatus() error {
	if s.Status != constants.ListingStatusDraft && s.Status != constants.ListingStatusPublished {
		return fmt.Errorf("invalid status: %s, must be draft or published", s.Status)
	}
	return nil
}

func (s *Stay) ValidatePrice() error {
	if s.PricePerNight < 0 {
		return fmt.Errorf("invalid price_per_night: %f, must not be negative", s.PricePerNight)
	}
	return nil
}
