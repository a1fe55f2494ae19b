package models

import "time"

// Venue categories.
const (
	VenueCategoryDiscoteque = "discoteque"
	VenueCategoryPub        = "pub"
	VenueCategoryRestaurant = "restaurant"
	VenueCategoryRooftop    = "rooftop"
	VenueCategoryOther      = "other"
)

// Venue is a nightlife place (discoteque, pub, rooftop...). Binary
// image handling lives outside this service; image fields store URLs.
type Venue struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	CommuneID uint     `gorm:"not null;index" json:"commune_id"`
	Commune   *Commune `json:"commune,omitempty"`
	// Owner account; venues of owners without an effective subscription
	// are hidden from city listings.
	OwnerUserID *uint `gorm:"index;default:null" json:"owner_user_id,omitempty"`
	OwnerUser   *User `gorm:"constraint:OnDelete:SET NULL" json:"-"`

	Name     string `gorm:"type:varchar(180);not null" json:"name" validate:"required,max=180"`
	Slug     string `gorm:"type:varchar(210);not null;uniqueIndex" json:"slug"`
	Category string `gorm:"type:varchar(20);not null" json:"category" validate:"oneof=discoteque pub restaurant rooftop other"`

	CoverImageURL string `gorm:"type:varchar(300)" json:"cover_image_url"`
	LogoURL       string `gorm:"type:varchar(300)" json:"logo_url"`
	VibeTags      []Tag  `gorm:"many2many:venue_tags" json:"vibe_tags,omitempty"`

	Description     string `gorm:"type:text" json:"description"`
	MinAge          *uint8 `gorm:"default:null" json:"min_age,omitempty"`
	DressCode       string `gorm:"type:varchar(120)" json:"dress_code"`
	PaymentMethods  string `gorm:"type:varchar(50)" json:"payment_methods"`
	ExperienceVenue string `gorm:"type:varchar(120)" json:"experience_venue"`

	Address        string `gorm:"type:varchar(220)" json:"address"`
	Phone          string `gorm:"type:varchar(30)" json:"phone"`
	Website        string `gorm:"type:varchar(255)" json:"website" validate:"omitempty,url"`
	Instagram      string `gorm:"type:varchar(255)" json:"instagram" validate:"omitempty,url"`
	ReservationURL string `gorm:"type:varchar(255)" json:"reservation_url" validate:"omitempty,url"`

	HoursShort       string `gorm:"type:varchar(80)" json:"hours_short"`
	Highlights1      string `gorm:"type:varchar(120)" json:"highlights_1"`
	Highlights2      string `gorm:"type:varchar(120)" json:"highlights_2"`
	Highlights3      string `gorm:"type:varchar(120)" json:"highlights_3"`
	RecommendedTitle string `gorm:"type:varchar(120);default:'Recomendado del bartender'" json:"recommended_title"`
	RecommendedBody  string `gorm:"type:text" json:"recommended_body"`
	MenuPDFURL       string `gorm:"column:menu_pdf_url;type:varchar(300)" json:"menu_pdf_url"`
	MenuQRURL        string `gorm:"column:menu_qr_url;type:varchar(255)" json:"menu_qr_url"`
	Promo1           string `gorm:"type:varchar(120)" json:"promo_1"`
	Promo2           string `gorm:"type:varchar(120)" json:"promo_2"`
	Promo3           string `gorm:"type:varchar(120)" json:"promo_3"`

	IsPublished   bool       `gorm:"default:true;index" json:"is_published"`
	ClicksCount   uint       `gorm:"default:0" json:"clicks_count"`
	LastClickedAt *time.Time `gorm:"type:timestamp;default:null" json:"last_clicked_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Photos []Photo `json:"photos,omitempty"`
}

// Promos returns the non-empty promo lines in display order.
func (v *Venue) Promos() []string {
	out := make([]string, 0, 3)
	for _, p := range []string{v.Promo1, v.Promo2, v.Promo3} {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
