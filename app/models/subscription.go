package models

import (
	"time"

	"gorm.io/gorm"
)

// Subscription status values as reported by Mercado Pago and as used by
// the manual admin override.
const (
	SubscriptionActive    = "ACTIVE"
	SubscriptionPaused    = "PAUSED"
	SubscriptionCancelled = "CANCELLED"
)

// Subscription mirrors the provider-side recurring payment for one user
// plus an optional administrative override. Effectiveness is a pure
// function of the five status/timestamp fields and "now"; nothing here
// touches the database.
type Subscription struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID uint  `gorm:"not null;uniqueIndex" json:"user_id"`
	User   *User `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	// Provider-reported state. Written only by the webhook applier and
	// by the reconciler's provider-field normalization.
	PreapprovalID     string     `gorm:"type:varchar(80);index" json:"preapproval_id"`
	ProviderStatus    string     `gorm:"type:varchar(10);not null;default:'PAUSED';index" json:"provider_status"`
	ProviderPeriodEnd *time.Time `gorm:"type:timestamp;default:null" json:"provider_period_end,omitempty"`

	// Manual override. An ACTIVE override wins over the provider state
	// while unexpired; a nil OverrideUntil means indefinite.
	OverrideStatus *string    `gorm:"type:varchar(10);default:null" json:"override_status,omitempty"`
	OverrideUntil  *time.Time `gorm:"type:timestamp;default:null" json:"override_until,omitempty"`
	OverrideReason string     `gorm:"type:varchar(200)" json:"override_reason"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsActive reports whether the subscription is effectively active at
// the given instant. An unexpired ACTIVE override always wins; any
// other override value falls through to the provider state, so a
// PAUSED or CANCELLED override never blocks a subscription that the
// provider still considers paid.
func (s *Subscription) IsActive(now time.Time) bool {
	if s.OverrideStatus != nil && *s.OverrideStatus == SubscriptionActive {
		if s.OverrideUntil == nil || s.OverrideUntil.After(now) {
			return true
		}
	}
	if s.ProviderStatus != SubscriptionActive {
		return false
	}
	return s.ProviderPeriodEnd == nil || s.ProviderPeriodEnd.After(now)
}

// SubscriptionActiveNow returns a scope selecting subscriptions that
// IsActive would report as active at the given instant. Listing pages
// use it to restrict venues/events to owners with an effective
// subscription in a single query.
func SubscriptionActiveNow(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"(provider_status = ? AND (provider_period_end IS NULL OR provider_period_end > ?))"+
				" OR (override_status = ? AND (override_until IS NULL OR override_until > ?))",
			SubscriptionActive, now, SubscriptionActive, now,
		)
	}
}
