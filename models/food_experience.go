package models

import (
	"fmt"
	"time"

	"platform/constants"
)

type FoodExperience struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	HostID          uint      `json:"host_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	MenuDescription string    `json:"menu_description"`
	LocationName    string    `json:"location_name"`
	PricePerPerson  float64   `json:"price_per_person"`
	CuisineType     string    `json:"cuisine_type"`
	Address         string    `json:"address"`
	Zipcode         string    `json:"zipcode"`
	City            string    `json:"city"`
	State           string    `json:"state"`
	Latitude        *float64  `json:"latitude"`
	Longitude       *float64  `json:"longitude"`
	Status          string    `gorm:"default:draft" json:"status"`
	Duration        string    `gorm:"default:'2 hours'" json:"duration"`
	MaxGuests       int       `gorm:"default:8" json:"max_guests"`
	Language        string    `gorm:"default:English" json:"language"`
	IsFeatured      bool      `gorm:"default:false" json:"is_featured"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Host   User                  `gorm:"foreignKey:HostID" json:"host,omitempty"`
	Images []FoodExperienceImage `gorm:"foreignKey:ExperienceID" json:"images,omitempty"`
}

type FoodExperienceImage struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ExperienceID uint      `gorm:"index" json:"experience_id"`
	ImagePath    string    `json:"image_path"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (e *FoodExperience) ValidateStatus() error {
	if e.Status != constants.ListingStatusDraft && e.Status != constants.ListingStatusPublished {
		return fmt.Errorf("invalid status: %s, must be draft or published", e.Status)
	}
	return nil
}
