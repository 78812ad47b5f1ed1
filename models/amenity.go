package models

type Amenity struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Type     string `gorm:"default:both" json:"type"` // stay, food or both
}
