package repository

import (
	"github.com/paynudge/paynudge/app/models"
	"gorm.io/gorm"
)

// reminderRuleRepository implements the ReminderRuleRepository interface
type reminderRuleRepository struct {
	db *gorm.DB
}

// NewReminderRuleRepository creates a new reminder rule repository instance
func NewReminderRuleRepository(db *gorm.DB) ReminderRuleRepository {
	return &reminderRuleRepository{db: db}
}

// Create creates a new reminder rule
func (r *reminderRuleRepository) Create(rule *models.ReminderRule) error {
	return r.db.Create(rule).Error
}

// GetByID retrieves a rule by ID, scoped to its owner
func (r *reminderRuleRepository) GetByID(id uint, userID uint) (*models.ReminderRule, error) {
	var rule models.ReminderRule
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// ListByUser retrieves all rules belonging to a user, earliest offset first
func (r *reminderRuleRepository) ListByUser(userID uint) ([]models.ReminderRule, error) {
	var rules []models.ReminderRule
	err := r.db.Where("user_id = ?", userID).Order("days_offset ASC").Find(&rules).Error
	return rules, err
}

// ListEnabled retrieves every enabled rule across all users
func (r *reminderRuleRepository) ListEnabled() ([]models.ReminderRule, error) {
	var rules []models.ReminderRule
	err := r.db.Where("enabled = ?", true).Find(&rules).Error
	return rules, err
}

// Update updates an existing rule
func (r *reminderRuleRepository) Update(rule *models.ReminderRule) error {
	return r.db.Save(rule).Error
}

// Delete soft deletes a rule, scoped to its owner
func (r *reminderRuleRepository) Delete(id uint, userID uint) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.ReminderRule{}).Error
}
