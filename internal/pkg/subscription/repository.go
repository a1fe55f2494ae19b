package subscription

import (
	"time"

	"github.com/devdesignchile/midnigth/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides DB operations used by the subscription service.
type Repository interface {
	GetOrCreateSubscription(userID uint) (*models.Subscription, error)
	GetSubscriptionByUserID(userID uint) (*models.Subscription, error)
	SaveSubscription(sub *models.Subscription) error
	ListSubscriptions() ([]models.Subscription, error)
	FindOwnerUserIDByCompanyEmail(email string) (uint, error)
	SetOwnerSubscribedFlag(userID uint, subscribed bool) error
	CreateWebhookEventIfNotExists(event *models.SubscriptionWebhookEvent) (bool, *models.SubscriptionWebhookEvent, error)
	MarkWebhookProcessed(id uint, outcome Outcome, processingError string) error
	Transactional(fn func(Repository) error) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a subscription repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetOrCreateSubscription(userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.
		Where(models.Subscription{UserID: userID}).
		Attrs(models.Subscription{ProviderStatus: models.SubscriptionPaused}).
		FirstOrCreate(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormRepository) GetSubscriptionByUserID(userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.Where("user_id = ?", userID).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormRepository) SaveSubscription(sub *models.Subscription) error {
	return r.db.Save(sub).Error
}

func (r *gormRepository) ListSubscriptions() ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.Order("id ASC").Find(&subs).Error
	return subs, err
}

// FindOwnerUserIDByCompanyEmail resolves a payer email to the owning user.
// The match is case-insensitive against the owner profile's company email.
func (r *gormRepository) FindOwnerUserIDByCompanyEmail(email string) (uint, error) {
	var userID uint
	err := r.db.Model(&models.OwnerProfile{}).
		Select("profiles.user_id").
		Joins("JOIN profiles ON profiles.id = owner_profiles.profile_id").
		Where("LOWER(owner_profiles.company_email) = LOWER(?)", email).
		Limit(1).
		Scan(&userID).Error
	if err != nil {
		return 0, err
	}
	if userID == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return userID, nil
}

// SetOwnerSubscribedFlag writes the denormalized flag with a targeted column
// update so no model callbacks run.
func (r *gormRepository) SetOwnerSubscribedFlag(userID uint, subscribed bool) error {
	return r.db.Model(&models.OwnerProfile{}).
		Where("profile_id IN (?)", r.db.Model(&models.Profile{}).Select("id").Where("user_id = ?", userID)).
		UpdateColumn("is_subscribed", subscribed).Error
}

func (r *gormRepository) CreateWebhookEventIfNotExists(event *models.SubscriptionWebhookEvent) (bool, *models.SubscriptionWebhookEvent, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider_event_id"}},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.SubscriptionWebhookEvent
	if err := r.db.Where("provider_event_id = ?", event.ProviderEventID).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) MarkWebhookProcessed(id uint, outcome Outcome, processingError string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"outcome":          string(outcome),
		"processed_at":     &now,
		"processing_error": processingError,
	}
	return r.db.Model(&models.SubscriptionWebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}

// Transactional runs fn against a repository bound to a single transaction.
func (r *gormRepository) Transactional(fn func(Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}
