package models

import "time"

// Commune is a Chilean comuna used to group venues and events and to
// build city URLs like /ciudad/santiago.
type Commune struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(120);not null;uniqueIndex" json:"name" validate:"required,max=120"`
	Slug      string    `gorm:"type:varchar(140);not null;uniqueIndex" json:"slug" validate:"required,max=140"`
	Region    string    `gorm:"type:varchar(120)" json:"region"`
	Country   string    `gorm:"type:varchar(80);default:'Chile'" json:"country"`
	Lat       *float64  `gorm:"type:decimal(9,6);default:null" json:"lat,omitempty"`
	Lon       *float64  `gorm:"type:decimal(9,6);default:null" json:"lon,omitempty"`
	ImageURL  string    `gorm:"type:varchar(255)" json:"image_url"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
