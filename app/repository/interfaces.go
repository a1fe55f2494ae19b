package repository

import (
	"time"

	"github.com/devdesignchile/midnigth/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user and profile operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	CreateProfile(profile *models.Profile) error
	GetProfileByUserID(userID uint) (*models.Profile, error)
	CreateOwnerProfile(owner *models.OwnerProfile) error
	GetOwnerProfileByUserID(userID uint) (*models.OwnerProfile, error)
	GetOwnerProfileByID(id uint) (*models.OwnerProfile, error)
	GetOwnerProfileByCompanyEmail(email string) (*models.OwnerProfile, error)
	UpdateOwnerProfile(owner *models.OwnerProfile) error
	SetOwnerVerified(ownerProfileID uint, verified bool) error
	ListOwnerProfiles(offset, limit int) ([]models.OwnerProfile, error)
	CountOwnerProfiles() (int64, error)
	CreateGuestProfile(guest *models.GuestProfile) error
	GetGuestProfileByUserID(userID uint) (*models.GuestProfile, error)
}

// CommuneRepository defines the interface for commune operations
type CommuneRepository interface {
	Create(commune *models.Commune) error
	GetByID(id uint) (*models.Commune, error)
	GetBySlug(slug string) (*models.Commune, error)
	GetAll() ([]models.Commune, error)
	GetFeatured(now time.Time, limit int) ([]CommuneWithCounts, error)
	Update(commune *models.Commune) error
	Delete(id uint) error
}

// VenueRepository defines the interface for venue operations
type VenueRepository interface {
	Create(venue *models.Venue) error
	GetByID(id uint) (*models.Venue, error)
	GetBySlug(slug string) (*models.Venue, error)
	GetByOwner(ownerUserID uint) ([]models.Venue, error)
	ListPublished(f VenueFilter) ([]models.Venue, error)
	Search(query string, now time.Time, limit int) ([]models.Venue, error)
	Update(venue *models.Venue) error
	Delete(id uint) error
	SlugExists(slug string) (bool, error)
	ReplaceTags(venue *models.Venue, tagNames []string) error
	AddPhoto(photo *models.Photo) error
	DeletePhoto(venueID uint, photoUUID string) error
}

// EventRepository defines the interface for event operations
type EventRepository interface {
	Create(event *models.Event) error
	GetByID(id uint) (*models.Event, error)
	GetBySlug(slug string) (*models.Event, error)
	GetByVenue(venueID uint) ([]models.Event, error)
	ListPublished(f EventFilter) ([]models.Event, error)
	Search(query string, now time.Time, limit int) ([]models.Event, error)
	Update(event *models.Event) error
	Delete(id uint) error
	SlugExists(slug string) (bool, error)
}

// VenueFilter narrows public venue listings. Now restricts results to
// venues whose owner holds an effectively active subscription at that
// instant; ownerless venues (house-managed content) are always listed.
type VenueFilter struct {
	CommuneSlug string
	Category    string
	Query       string
	// EventsBefore, when set, keeps only venues with an upcoming
	// published event starting before that instant.
	EventsBefore *time.Time
	Now          time.Time
	Offset       int
	Limit        int
}

// EventFilter narrows public event listings.
type EventFilter struct {
	CommuneSlug  string
	Category     string
	VenueID      uint
	From         *time.Time
	To           *time.Time
	FeaturedOnly bool
	Now          time.Time
	Offset       int
	Limit        int
}

// CommuneWithCounts carries a commune plus its visible content counts.
type CommuneWithCounts struct {
	models.Commune
	VenueCount int64 `json:"venue_count"`
	EventCount int64 `json:"event_count"`
}

// Repositories struct holds all repository instances
type Repositories struct {
	User    UserRepository
	Commune CommuneRepository
	Venue   VenueRepository
	Event   EventRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:    NewUserRepository(db),
		Commune: NewCommuneRepository(db),
		Venue:   NewVenueRepository(db),
		Event:   NewEventRepository(db),
	}
}
