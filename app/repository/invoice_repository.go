package repository

import (
	"github.com/paynudge/paynudge/app/models"
	"gorm.io/gorm"
)

// invoiceRepository implements the InvoiceRepository interface
type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository instance
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

// Create creates a new invoice in the database
func (r *invoiceRepository) Create(invoice *models.Invoice) error {
	return r.db.Create(invoice).Error
}

// GetByID retrieves an invoice by ID with its client, scoped to its owner
func (r *invoiceRepository) GetByID(id uint, userID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.Preload("Client").Where("id = ? AND user_id = ?", id, userID).First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// ListByUser retrieves all invoices belonging to a user, newest first
func (r *invoiceRepository) ListByUser(userID uint) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.Preload("Client").
		Where("user_id = ?", userID).
		Order("due_date ASC, id ASC").
		Find(&invoices).Error
	return invoices, err
}

// ListOutstandingByUser retrieves invoices eligible for reminders: sent and unpaid
func (r *invoiceRepository) ListOutstandingByUser(userID uint) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.Preload("Client").
		Where("user_id = ? AND status = ? AND paid_at IS NULL", userID, models.InvoiceStatusSent).
		Find(&invoices).Error
	return invoices, err
}

// Update updates an existing invoice
func (r *invoiceRepository) Update(invoice *models.Invoice) error {
	return r.db.Save(invoice).Error
}

// Delete soft deletes an invoice, scoped to its owner
func (r *invoiceRepository) Delete(id uint, userID uint) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Invoice{}).Error
}

// CountByUser returns the number of invoices a user owns
func (r *invoiceRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Invoice{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
