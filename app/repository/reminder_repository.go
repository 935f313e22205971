package repository

import (
	"time"

	"github.com/paynudge/paynudge/app/models"
	"gorm.io/gorm"
)

// reminderRepository implements the ReminderRepository interface
type reminderRepository struct {
	db *gorm.DB
}

// NewReminderRepository creates a new reminder ledger repository instance
func NewReminderRepository(db *gorm.DB) ReminderRepository {
	return &reminderRepository{db: db}
}

// Create appends a sent-reminder record to the ledger
func (r *reminderRepository) Create(reminder *models.Reminder) error {
	return r.db.Create(reminder).Error
}

// ExistsSince reports whether a reminder was sent for the pairing at or after since
func (r *reminderRepository) ExistsSince(invoiceID, ruleID uint, since time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&models.Reminder{}).
		Where("invoice_id = ? AND rule_id = ? AND sent_at >= ?", invoiceID, ruleID, since).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByInvoice retrieves the reminder history for an invoice, newest first
func (r *reminderRepository) ListByInvoice(invoiceID uint, userID uint) ([]models.Reminder, error) {
	var reminders []models.Reminder
	err := r.db.Where("invoice_id = ? AND user_id = ?", invoiceID, userID).
		Order("sent_at DESC").
		Find(&reminders).Error
	return reminders, err
}

// DeletePendingByInvoice purges future-dated records; sent history stays
func (r *reminderRepository) DeletePendingByInvoice(invoiceID uint, now time.Time) error {
	return r.db.Where("invoice_id = ? AND sent_at > ?", invoiceID, now).
		Delete(&models.Reminder{}).Error
}

// DeletePendingByRule purges future-dated records tied to a rule
func (r *reminderRepository) DeletePendingByRule(ruleID uint, now time.Time) error {
	return r.db.Where("rule_id = ? AND sent_at > ?", ruleID, now).
		Delete(&models.Reminder{}).Error
}
