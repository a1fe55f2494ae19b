package models

import (
	"time"
)

const (
	RoleOwner = "owner"
	RoleGuest = "guest"
)

// Profile links a user account to its directory role. Every user has
// exactly one profile; owners additionally carry an OwnerProfile and
// guests a GuestProfile.
type Profile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Role      string    `gorm:"type:varchar(10);not null" json:"role" validate:"oneof=owner guest"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Profile) IsOwner() bool {
	return p.Role == RoleOwner
}

func (p *Profile) IsGuest() bool {
	return p.Role == RoleGuest
}
