package models

import "time"

// Review ratings are only ever surfaced in aggregate (average and count).
type Review struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	StayID       *uint     `gorm:"index" json:"stay_id,omitempty"`
	ExperienceID *uint     `gorm:"index" json:"experience_id,omitempty"`
	Type         string    `json:"type"` // food or stay
	Rating       int       `json:"rating"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}
