package models

import "time"

// Event categories.
const (
	EventCategoryParty      = "party"
	EventCategoryConcert    = "concert"
	EventCategoryStandup    = "standup"
	EventCategoryElectronic = "electronic"
	EventCategoryOther      = "other"
)

// Event is a dated happening at a venue, shown in carousels and the
// city agenda.
type Event struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	CommuneID uint     `gorm:"not null;index" json:"commune_id"`
	Commune   *Commune `json:"commune,omitempty"`
	VenueID   *uint    `gorm:"index;default:null" json:"venue_id,omitempty"`
	Venue     *Venue   `json:"venue,omitempty"`

	Title    string `gorm:"type:varchar(180);not null" json:"title" validate:"required,max=180"`
	Slug     string `gorm:"type:varchar(210);not null;uniqueIndex" json:"slug"`
	Category string `gorm:"type:varchar(20)" json:"category" validate:"omitempty,oneof=party concert standup electronic other"`

	StartAt time.Time  `gorm:"not null;index" json:"start_at" validate:"required"`
	EndAt   *time.Time `gorm:"type:timestamp;default:null" json:"end_at,omitempty"`

	FlyerImageURL string `gorm:"type:varchar(300)" json:"flyer_image_url"`
	EyebrowText   string `gorm:"type:varchar(60)" json:"eyebrow_text"`
	BadgeText     string `gorm:"type:varchar(60)" json:"badge_text"`

	ExternalTicketURL string `gorm:"type:varchar(255)" json:"external_ticket_url" validate:"omitempty,url"`

	IsFeatured   bool  `gorm:"default:false;index" json:"is_featured"`
	FeatureOrder uint8 `gorm:"default:0" json:"feature_order"`

	IsPublished   bool       `gorm:"default:true;index" json:"is_published"`
	ClicksCount   uint       `gorm:"default:0" json:"clicks_count"`
	LastClickedAt *time.Time `gorm:"type:timestamp;default:null" json:"last_clicked_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsUpcoming reports whether the event has not started yet.
func (e *Event) IsUpcoming(now time.Time) bool {
	return e.StartAt.After(now)
}
