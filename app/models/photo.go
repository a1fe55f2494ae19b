package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Photo is a gallery entry of a venue. The binary itself is stored by
// the media layer; this record carries the public URL and ordering.
type Photo struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UUID      string    `gorm:"type:varchar(36);not null;uniqueIndex" json:"uuid"`
	VenueID   uint      `gorm:"not null;index" json:"venue_id"`
	Venue     *Venue    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ImageURL  string    `gorm:"type:varchar(300);not null" json:"image_url" validate:"required,url"`
	Caption   string    `gorm:"type:varchar(160)" json:"caption"`
	SortOrder uint8     `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (p *Photo) BeforeCreate(_ *gorm.DB) error {
	if p.UUID == "" {
		p.UUID = uuid.New().String()
	}
	return nil
}
