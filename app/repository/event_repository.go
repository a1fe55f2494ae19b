package repository

import (
	"strings"
	"time"

	"github.com/devdesignchile/midnigth/app/models"
	"gorm.io/gorm"
)

// eventRepository implements the EventRepository interface
type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository instance
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(event *models.Event) error {
	return r.db.Create(event).Error
}

func (r *eventRepository) GetByID(id uint) (*models.Event, error) {
	var event models.Event
	err := r.db.Preload("Commune").Preload("Venue").First(&event, id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) GetBySlug(slug string) (*models.Event, error) {
	var event models.Event
	err := r.db.Preload("Commune").Preload("Venue").Where("slug = ?", slug).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) GetByVenue(venueID uint) ([]models.Event, error) {
	var events []models.Event
	err := r.db.Where("venue_id = ?", venueID).Order("start_at ASC").Find(&events).Error
	return events, err
}

// activeOwnerScope hides events at venues whose owner has no effective
// subscription. Ownerless events (city agenda, house content) stay up.
func (r *eventRepository) activeOwnerScope(now time.Time) func(*gorm.DB) *gorm.DB {
	activeOwners := r.db.Model(&models.Subscription{}).
		Select("user_id").
		Scopes(models.SubscriptionActiveNow(now))
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"events.venue_id IS NULL OR events.venue_id IN (?)",
			r.db.Model(&models.Venue{}).Select("id").
				Where("owner_user_id IS NULL OR owner_user_id IN (?)", activeOwners),
		)
	}
}

func (r *eventRepository) ListPublished(f EventFilter) ([]models.Event, error) {
	q := r.db.Preload("Commune").Preload("Venue").
		Where("events.is_published = ?", true).
		Scopes(r.activeOwnerScope(f.Now))

	if f.CommuneSlug != "" {
		q = q.Joins("JOIN communes ON communes.id = events.commune_id").
			Where("communes.slug = ?", f.CommuneSlug)
	}
	if f.Category != "" {
		q = q.Where("events.category = ?", f.Category)
	}
	if f.VenueID != 0 {
		q = q.Where("events.venue_id = ?", f.VenueID)
	}
	if f.From != nil {
		q = q.Where("events.start_at >= ?", *f.From)
	} else {
		q = q.Where("events.start_at > ? OR events.end_at > ?", f.Now, f.Now)
	}
	if f.To != nil {
		q = q.Where("events.start_at < ?", *f.To)
	}
	if f.FeaturedOnly {
		q = q.Where("events.is_featured = ?", true).
			Order("events.feature_order ASC")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var events []models.Event
	err := q.Offset(f.Offset).Order("events.start_at ASC").Find(&events).Error
	return events, err
}

// Search matches every whitespace-separated term against upcoming
// events' title and commune name.
func (r *eventRepository) Search(query string, now time.Time, limit int) ([]models.Event, error) {
	q := r.db.Preload("Commune").Preload("Venue").
		Joins("JOIN communes ON communes.id = events.commune_id").
		Where("events.is_published = ?", true).
		Scopes(r.activeOwnerScope(now)).
		Where("events.start_at > ?", now)

	for _, term := range strings.Fields(query) {
		like := "%" + term + "%"
		q = q.Where("events.title LIKE ? OR communes.name LIKE ?", like, like)
	}

	var events []models.Event
	err := q.Order("events.start_at ASC").Limit(limit).Find(&events).Error
	return events, err
}

func (r *eventRepository) Update(event *models.Event) error {
	return r.db.Save(event).Error
}

func (r *eventRepository) Delete(id uint) error {
	return r.db.Delete(&models.Event{}, id).Error
}

func (r *eventRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Event{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}
