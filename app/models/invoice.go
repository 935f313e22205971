package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	InvoiceStatusDraft = "draft"
	InvoiceStatusSent  = "sent"
	InvoiceStatusPaid  = "paid"
	InvoiceStatusVoid  = "void"
)

// Invoice is a billable document owned by one user and addressed to one of
// their clients. Amounts are stored in pence to avoid float drift.
type Invoice struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UUID          string         `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	UserID        uint           `gorm:"not null;index:idx_invoices_user_status,priority:1" json:"user_id"`
	ClientID      uint           `gorm:"not null;index" json:"client_id"`
	InvoiceNumber string         `gorm:"type:varchar(100);not null" json:"invoice_number" validate:"required,min=1,max=100"`
	Currency      string         `gorm:"type:varchar(3);not null;default:'GBP'" json:"currency"`
	AmountPence   int64          `gorm:"not null" json:"amount_pence" validate:"gt=0,lte=100000000"`
	IssueDate     time.Time      `gorm:"type:date;not null" json:"issue_date"`
	DueDate       time.Time      `gorm:"type:date;not null" json:"due_date"`
	Status        string         `gorm:"type:varchar(20);not null;default:'sent';index:idx_invoices_user_status,priority:2" json:"status" validate:"oneof=draft sent paid void"`
	PaidAt        *time.Time     `gorm:"type:timestamp;default:null" json:"paid_at"`
	Client        *Client        `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (i *Invoice) Validate() error {
	v := validator.New()

	return v.Struct(i)
}

// BeforeCreate assigns a public UUID.
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.UUID == "" {
		i.UUID = uuid.New().String()
	}
	return nil
}

// IsOutstanding reports whether the invoice is eligible for reminders:
// it was sent and has not been paid.
func (i *Invoice) IsOutstanding() bool {
	return i.Status == InvoiceStatusSent && i.PaidAt == nil
}

// MarkPaid transitions the invoice to paid as of now.
func (i *Invoice) MarkPaid(now time.Time) {
	i.Status = InvoiceStatusPaid
	i.PaidAt = &now
}
