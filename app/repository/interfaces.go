package repository

import (
	"time"

	"github.com/paynudge/paynudge/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	Count() (int64, error)
}

// ProfileRepository defines the interface for user profile operations.
// Profiles hold sender identity, billing state and API key material.
type ProfileRepository interface {
	GetByUserID(userID uint) (*models.Profile, error)
	GetOrCreateByUserID(userID uint) (*models.Profile, error)
	GetByAPIKeyHash(hash string) (*models.Profile, error)
	Save(profile *models.Profile) error
	TouchAPIKeyUsage(profileID uint, usedAt time.Time) error
}

// ClientRepository defines the interface for client-related database operations
type ClientRepository interface {
	Create(client *models.Client) error
	GetByID(id uint, userID uint) (*models.Client, error)
	ListByUser(userID uint) ([]models.Client, error)
	Update(client *models.Client) error
	Delete(id uint, userID uint) error
	CountByUser(userID uint) (int64, error)
}

// InvoiceRepository defines the interface for invoice-related database operations
type InvoiceRepository interface {
	Create(invoice *models.Invoice) error
	GetByID(id uint, userID uint) (*models.Invoice, error)
	ListByUser(userID uint) ([]models.Invoice, error)
	// ListOutstandingByUser returns invoices with status=sent and no paid_at,
	// each with its client attached (the canonical invoice+client shape the
	// reminder engine consumes).
	ListOutstandingByUser(userID uint) ([]models.Invoice, error)
	Update(invoice *models.Invoice) error
	Delete(id uint, userID uint) error
	CountByUser(userID uint) (int64, error)
}

// ReminderRuleRepository defines the interface for reminder rule operations
type ReminderRuleRepository interface {
	Create(rule *models.ReminderRule) error
	GetByID(id uint, userID uint) (*models.ReminderRule, error)
	ListByUser(userID uint) ([]models.ReminderRule, error)
	// ListEnabled returns every enabled rule across all users; the daily job
	// iterates this set.
	ListEnabled() ([]models.ReminderRule, error)
	Update(rule *models.ReminderRule) error
	Delete(id uint, userID uint) error
}

// ReminderRepository defines the interface for the sent-reminder ledger
type ReminderRepository interface {
	Create(reminder *models.Reminder) error
	// ExistsSince reports whether a reminder for (invoiceID, ruleID) was sent
	// at or after the given time. This is the 24h dedup check.
	ExistsSince(invoiceID, ruleID uint, since time.Time) (bool, error)
	ListByInvoice(invoiceID uint, userID uint) ([]models.Reminder, error)
	// DeletePendingByInvoice purges records whose sent_at is in the future
	// (pending), keeping already-sent history. Called when an invoice is paid.
	DeletePendingByInvoice(invoiceID uint, now time.Time) error
	// DeletePendingByRule purges pending records tied to a deleted rule.
	DeletePendingByRule(ruleID uint, now time.Time) error
}

// ReminderTemplateRepository defines the interface for per-user template overrides
type ReminderTemplateRepository interface {
	// GetByUserAndTone returns nil (no error) when the user has no override
	// stored for the tone.
	GetByUserAndTone(userID uint, tone string) (*models.ReminderTemplate, error)
	ListByUser(userID uint) ([]models.ReminderTemplate, error)
	Upsert(template *models.ReminderTemplate) error
	DeleteByUserAndTone(userID uint, tone string) error
}
