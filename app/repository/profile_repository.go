package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/paynudge/paynudge/app/models"
	"gorm.io/gorm"
)

// profileRepository implements the ProfileRepository interface
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository instance
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// GetByUserID retrieves the profile for a user
func (r *profileRepository) GetByUserID(userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetOrCreateByUserID returns the existing profile or lazily creates an
// all-null one on first access.
func (r *profileRepository) GetOrCreateByUserID(userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	profile = models.Profile{UserID: userID}
	if err := r.db.Create(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetByAPIKeyHash resolves an active API key hash to its profile.
func (r *profileRepository) GetByAPIKeyHash(hash string) (*models.Profile, error) {
	trimmed := strings.TrimSpace(hash)
	if trimmed == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var profile models.Profile
	query := r.db.Where("api_key_hash = ? AND api_key_hash <> '' AND api_key_revoked_at IS NULL", trimmed)
	if err := query.First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Save persists the full profile row
func (r *profileRepository) Save(profile *models.Profile) error {
	return r.db.Save(profile).Error
}

// TouchAPIKeyUsage updates the API key last-used timestamp best-effort
func (r *profileRepository) TouchAPIKeyUsage(profileID uint, usedAt time.Time) error {
	return r.db.Model(&models.Profile{}).
		Where("id = ?", profileID).
		Updates(map[string]any{"api_key_last_used_at": usedAt}).Error
}
