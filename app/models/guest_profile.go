package models

import (
	"time"
)

// GuestProfile holds attendee-only data.
type GuestProfile struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	ProfileID uint       `gorm:"not null;uniqueIndex" json:"profile_id"`
	Profile   *Profile   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	FirstName string     `gorm:"type:varchar(80);not null" json:"first_name" validate:"required,max=80"`
	LastName  string     `gorm:"type:varchar(80);not null" json:"last_name" validate:"required,max=80"`
	PhotoURL  string     `gorm:"type:varchar(255)" json:"photo_url"`
	BirthDate *time.Time `gorm:"type:date;default:null" json:"birth_date,omitempty"`
	City      string     `gorm:"type:varchar(100)" json:"city"`
	CommuneID *uint      `gorm:"index;default:null" json:"commune_id,omitempty"`
	Commune   *Commune   `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// Age returns the guest's age in whole years at the given reference
// date, or 0 when the birth date is unknown.
func (g *GuestProfile) Age(at time.Time) int {
	if g.BirthDate == nil {
		return 0
	}
	b := *g.BirthDate
	years := at.Year() - b.Year()
	if at.Month() < b.Month() || (at.Month() == b.Month() && at.Day() < b.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// AgeBand buckets the guest's age for analytics displays.
func (g *GuestProfile) AgeBand(at time.Time) string {
	a := g.Age(at)
	switch {
	case a < 18:
		return "<18"
	case a <= 24:
		return "18-24"
	case a <= 34:
		return "25-34"
	case a <= 44:
		return "35-44"
	case a <= 54:
		return "45-54"
	case a <= 64:
		return "55-64"
	default:
		return "65+"
	}
}
