package repository

import (
	"errors"

	"github.com/paynudge/paynudge/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// reminderTemplateRepository implements the ReminderTemplateRepository interface
type reminderTemplateRepository struct {
	db *gorm.DB
}

// NewReminderTemplateRepository creates a new template override repository instance
func NewReminderTemplateRepository(db *gorm.DB) ReminderTemplateRepository {
	return &reminderTemplateRepository{db: db}
}

// GetByUserAndTone returns the stored override, or nil when there is none
func (r *reminderTemplateRepository) GetByUserAndTone(userID uint, tone string) (*models.ReminderTemplate, error) {
	var template models.ReminderTemplate
	err := r.db.Where("user_id = ? AND tone = ?", userID, tone).First(&template).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &template, nil
}

// ListByUser retrieves all template overrides a user has stored
func (r *reminderTemplateRepository) ListByUser(userID uint) ([]models.ReminderTemplate, error) {
	var templates []models.ReminderTemplate
	err := r.db.Where("user_id = ?", userID).Order("tone ASC").Find(&templates).Error
	return templates, err
}

// Upsert creates or replaces the override for (user, tone)
func (r *reminderTemplateRepository) Upsert(template *models.ReminderTemplate) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "tone"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"subject",
			"body",
			"updated_at",
			"deleted_at",
		}),
	}).Create(template).Error
}

// DeleteByUserAndTone removes the override for (user, tone). Hard delete:
// the unique key covers soft-deleted rows too, so a tombstone would block
// re-creating the override.
func (r *reminderTemplateRepository) DeleteByUserAndTone(userID uint, tone string) error {
	return r.db.Unscoped().
		Where("user_id = ? AND tone = ?", userID, tone).
		Delete(&models.ReminderTemplate{}).Error
}
