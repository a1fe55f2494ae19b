package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// OwnerProfile holds the business data of a venue operator. IsSubscribed
// is a denormalized cache of the owner's effective subscription status;
// it is written exclusively by the subscription service's sync step and
// must never be toggled through model hooks.
type OwnerProfile struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ProfileID     uint      `gorm:"not null;uniqueIndex" json:"profile_id"`
	Profile       *Profile  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	VenueName     string    `gorm:"type:varchar(120);not null" json:"venue_name" validate:"required,max=120"`
	AdminName     string    `gorm:"type:varchar(120);not null" json:"admin_name" validate:"required,max=120"`
	RUT           string    `gorm:"type:varchar(14);not null" json:"rut" validate:"required,max=14"`
	CompanyEmail  string    `gorm:"type:varchar(200);not null;uniqueIndex" json:"company_email" validate:"required,email"`
	CompanyDomain string    `gorm:"type:varchar(120);not null;uniqueIndex" json:"company_domain" validate:"required,max=120"`
	OwnerVerified bool      `gorm:"default:false" json:"owner_verified"`
	IsSubscribed  bool      `gorm:"default:false;index" json:"is_subscribed"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (o *OwnerProfile) Validate() error {
	v := validator.New()

	return v.Struct(o)
}
