package repository

import (
	"time"

	"github.com/devdesignchile/midnigth/app/models"
	"gorm.io/gorm"
)

// communeRepository implements the CommuneRepository interface
type communeRepository struct {
	db *gorm.DB
}

// NewCommuneRepository creates a new commune repository instance
func NewCommuneRepository(db *gorm.DB) CommuneRepository {
	return &communeRepository{db: db}
}

func (r *communeRepository) Create(commune *models.Commune) error {
	return r.db.Create(commune).Error
}

func (r *communeRepository) GetByID(id uint) (*models.Commune, error) {
	var commune models.Commune
	if err := r.db.First(&commune, id).Error; err != nil {
		return nil, err
	}
	return &commune, nil
}

func (r *communeRepository) GetBySlug(slug string) (*models.Commune, error) {
	var commune models.Commune
	if err := r.db.Where("slug = ?", slug).First(&commune).Error; err != nil {
		return nil, err
	}
	return &commune, nil
}

func (r *communeRepository) GetAll() ([]models.Commune, error) {
	var communes []models.Commune
	err := r.db.Order("name ASC").Find(&communes).Error
	return communes, err
}

// GetFeatured returns communes ordered by visible venue count. Counts
// only include venues currently shown on listing pages (published, and
// either house-managed or owned by an active subscriber).
func (r *communeRepository) GetFeatured(now time.Time, limit int) ([]CommuneWithCounts, error) {
	activeOwners := r.db.Model(&models.Subscription{}).
		Select("user_id").
		Scopes(models.SubscriptionActiveNow(now))

	var out []CommuneWithCounts
	err := r.db.Model(&models.Commune{}).
		Select("communes.*, " +
			"(SELECT COUNT(*) FROM venues WHERE venues.commune_id = communes.id AND venues.is_published = 1" +
			" AND (venues.owner_user_id IS NULL OR venues.owner_user_id IN (?))) AS venue_count, " +
			"(SELECT COUNT(*) FROM events WHERE events.commune_id = communes.id AND events.is_published = 1" +
			" AND events.start_at > ?) AS event_count",
			activeOwners, now).
		Order("venue_count DESC, communes.name ASC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

func (r *communeRepository) Update(commune *models.Commune) error {
	return r.db.Save(commune).Error
}

func (r *communeRepository) Delete(id uint) error {
	return r.db.Delete(&models.Commune{}, id).Error
}
