package models

import "time"

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	Name      string    `json:"name"`
	Email     string    `gorm:"unique" json:"email"`
	Password  string    `json:"-"`
	IsHost    bool      `gorm:"default:false" json:"is_host"`
	Image     string    `json:"image"`

	Stays       []Stay           `gorm:"foreignKey:HostID" json:"stays,omitempty"`
	Experiences []FoodExperience `gorm:"foreignKey:HostID" json:"experiences,omitempty"`
}
