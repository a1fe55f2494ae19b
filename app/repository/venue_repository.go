package repository

import (
	"strings"
	"time"

	"github.com/devdesignchile/midnigth/app/models"
	"gorm.io/gorm"
)

// venueRepository implements the VenueRepository interface
type venueRepository struct {
	db *gorm.DB
}

// NewVenueRepository creates a new venue repository instance
func NewVenueRepository(db *gorm.DB) VenueRepository {
	return &venueRepository{db: db}
}

func (r *venueRepository) Create(venue *models.Venue) error {
	return r.db.Create(venue).Error
}

func (r *venueRepository) GetByID(id uint) (*models.Venue, error) {
	var venue models.Venue
	err := r.db.Preload("Commune").Preload("VibeTags").Preload("Photos").First(&venue, id).Error
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

func (r *venueRepository) GetBySlug(slug string) (*models.Venue, error) {
	var venue models.Venue
	err := r.db.Preload("Commune").Preload("VibeTags").
		Preload("Photos", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("slug = ?", slug).First(&venue).Error
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

func (r *venueRepository) GetByOwner(ownerUserID uint) ([]models.Venue, error) {
	var venues []models.Venue
	err := r.db.Preload("Commune").Preload("VibeTags").
		Where("owner_user_id = ?", ownerUserID).
		Order("name ASC").
		Find(&venues).Error
	return venues, err
}

// activeOwnerScope hides venues of owners without an effective
// subscription. House-managed venues (no owner) always stay visible.
func (r *venueRepository) activeOwnerScope(now time.Time) func(*gorm.DB) *gorm.DB {
	activeOwners := r.db.Model(&models.Subscription{}).
		Select("user_id").
		Scopes(models.SubscriptionActiveNow(now))
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("venues.owner_user_id IS NULL OR venues.owner_user_id IN (?)", activeOwners)
	}
}

func (r *venueRepository) ListPublished(f VenueFilter) ([]models.Venue, error) {
	q := r.db.Preload("Commune").Preload("VibeTags").
		Where("venues.is_published = ?", true).
		Scopes(r.activeOwnerScope(f.Now))

	if f.CommuneSlug != "" {
		q = q.Joins("JOIN communes ON communes.id = venues.commune_id").
			Where("communes.slug = ?", f.CommuneSlug)
	}
	if f.Category != "" {
		q = q.Where("venues.category = ?", f.Category)
	}
	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Where("venues.name LIKE ? OR venues.description LIKE ?", like, like)
	}
	if f.EventsBefore != nil {
		upcoming := r.db.Model(&models.Event{}).
			Select("venue_id").
			Where("is_published = ? AND venue_id IS NOT NULL", true).
			Where("start_at < ? AND (start_at > ? OR end_at > ?)", *f.EventsBefore, f.Now, f.Now)
		q = q.Where("venues.id IN (?)", upcoming)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var venues []models.Venue
	err := q.Offset(f.Offset).Order("venues.name ASC").Find(&venues).Error
	return venues, err
}

// Search matches every whitespace-separated term against the venue's
// name, description, address and commune name.
func (r *venueRepository) Search(query string, now time.Time, limit int) ([]models.Venue, error) {
	q := r.db.Preload("Commune").Preload("VibeTags").
		Joins("JOIN communes ON communes.id = venues.commune_id").
		Where("venues.is_published = ?", true).
		Scopes(r.activeOwnerScope(now))

	for _, term := range strings.Fields(query) {
		like := "%" + term + "%"
		q = q.Where(
			"venues.name LIKE ? OR venues.description LIKE ? OR venues.address LIKE ? OR communes.name LIKE ?",
			like, like, like, like,
		)
	}

	var venues []models.Venue
	err := q.Order("venues.name ASC").Limit(limit).Find(&venues).Error
	return venues, err
}

func (r *venueRepository) Update(venue *models.Venue) error {
	return r.db.Save(venue).Error
}

func (r *venueRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("venue_id = ?", id).Delete(&models.Photo{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Venue{}, id).Error
	})
}

func (r *venueRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Venue{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// ReplaceTags swaps the venue's vibe tags, creating missing tag rows.
func (r *venueRepository) ReplaceTags(venue *models.Venue, tagNames []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		tags := make([]models.Tag, 0, len(tagNames))
		for _, name := range tagNames {
			var tag models.Tag
			if err := tx.Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
				return err
			}
			tags = append(tags, tag)
		}
		return tx.Model(venue).Association("VibeTags").Replace(tags)
	})
}

func (r *venueRepository) AddPhoto(photo *models.Photo) error {
	return r.db.Create(photo).Error
}

func (r *venueRepository) DeletePhoto(venueID uint, photoUUID string) error {
	res := r.db.Where("venue_id = ? AND uuid = ?", venueID, photoUUID).Delete(&models.Photo{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
