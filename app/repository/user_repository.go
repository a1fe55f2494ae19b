package repository

import (
	"github.com/devdesignchile/midnigth/app/models"
	"gorm.io/gorm"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email address
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates an existing user in the database
func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete removes a user and all dependent rows. Profiles, subscriptions
// and owner/guest data hang off the user via cascading foreign keys, so
// a single transaction handles the whole account.
func (r *userRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var profile models.Profile
		if err := tx.Where("user_id = ?", id).First(&profile).Error; err == nil {
			tx.Where("profile_id = ?", profile.ID).Delete(&models.OwnerProfile{})
			tx.Where("profile_id = ?", profile.ID).Delete(&models.GuestProfile{})
			tx.Delete(&profile)
		}
		tx.Where("user_id = ?", id).Delete(&models.Subscription{})
		return tx.Unscoped().Delete(&models.User{}, id).Error
	})
}

func (r *userRepository) CreateProfile(profile *models.Profile) error {
	return r.db.Create(profile).Error
}

func (r *userRepository) GetProfileByUserID(userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *userRepository) CreateOwnerProfile(owner *models.OwnerProfile) error {
	return r.db.Create(owner).Error
}

func (r *userRepository) GetOwnerProfileByUserID(userID uint) (*models.OwnerProfile, error) {
	var owner models.OwnerProfile
	err := r.db.
		Joins("JOIN profiles ON profiles.id = owner_profiles.profile_id").
		Where("profiles.user_id = ?", userID).
		First(&owner).Error
	if err != nil {
		return nil, err
	}
	return &owner, nil
}

func (r *userRepository) GetOwnerProfileByID(id uint) (*models.OwnerProfile, error) {
	var owner models.OwnerProfile
	if err := r.db.Preload("Profile").First(&owner, id).Error; err != nil {
		return nil, err
	}
	return &owner, nil
}

// GetOwnerProfileByCompanyEmail matches case-insensitively, mirroring
// how webhook payer emails are resolved.
func (r *userRepository) GetOwnerProfileByCompanyEmail(email string) (*models.OwnerProfile, error) {
	var owner models.OwnerProfile
	err := r.db.Where("LOWER(company_email) = LOWER(?)", email).First(&owner).Error
	if err != nil {
		return nil, err
	}
	return &owner, nil
}

func (r *userRepository) UpdateOwnerProfile(owner *models.OwnerProfile) error {
	return r.db.Save(owner).Error
}

// SetOwnerVerified flips the staff verification flag with a targeted update.
func (r *userRepository) SetOwnerVerified(ownerProfileID uint, verified bool) error {
	return r.db.Model(&models.OwnerProfile{}).
		Where("id = ?", ownerProfileID).
		UpdateColumn("owner_verified", verified).Error
}

func (r *userRepository) ListOwnerProfiles(offset, limit int) ([]models.OwnerProfile, error) {
	var owners []models.OwnerProfile
	err := r.db.Preload("Profile").Order("id ASC").Offset(offset).Limit(limit).Find(&owners).Error
	return owners, err
}

func (r *userRepository) CountOwnerProfiles() (int64, error) {
	var count int64
	err := r.db.Model(&models.OwnerProfile{}).Count(&count).Error
	return count, err
}

func (r *userRepository) CreateGuestProfile(guest *models.GuestProfile) error {
	return r.db.Create(guest).Error
}

func (r *userRepository) GetGuestProfileByUserID(userID uint) (*models.GuestProfile, error) {
	var guest models.GuestProfile
	err := r.db.
		Joins("JOIN profiles ON profiles.id = guest_profiles.profile_id").
		Where("profiles.user_id = ?", userID).
		First(&guest).Error
	if err != nil {
		return nil, err
	}
	return &guest, nil
}
