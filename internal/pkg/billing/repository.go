package billing

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/paynudge/paynudge/app/models"
)

// Repository provides DB operations used by the billing service.
type Repository interface {
	GetProfileByUserID(userID uint) (*models.Profile, error)
	GetProfileByStripeCustomerID(customerID string) (*models.Profile, error)
	SaveProfile(profile *models.Profile) error
	CreateWebhookEventIfNotExists(event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error)
	MarkWebhookProcessed(id uint, processingError string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetProfileByUserID(userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *gormRepository) GetProfileByStripeCustomerID(customerID string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("stripe_customer_id = ?", customerID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *gormRepository) SaveProfile(profile *models.Profile) error {
	return r.db.Save(profile).Error
}

func (r *gormRepository) CreateWebhookEventIfNotExists(event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error) {
	if event.ProviderEventID != "" {
		var existing models.BillingWebhookEvent
		err := r.db.
			Where("provider = ? AND provider_event_id = ?", event.Provider, event.ProviderEventID).
			First(&existing).Error
		if err == nil {
			return false, &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil, err
		}
	}
	if err := r.db.Create(event).Error; err != nil {
		return false, nil, err
	}
	return true, event, nil
}

func (r *gormRepository) MarkWebhookProcessed(id uint, processingError string) error {
	now := time.Now()
	return r.db.Model(&models.BillingWebhookEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"processed_at":     now,
			"processing_error": processingError,
		}).Error
}
