package models

import "time"

// Reminder is the append-only ledger of reminder emails. A row for
// (invoice_id, rule_id) with sent_at inside the trailing 24 hours blocks a
// re-send for that pairing; it doubles as the audit trail of exactly what
// was delivered.
type Reminder struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"not null;index" json:"user_id"`
	InvoiceID         uint      `gorm:"not null;index:idx_reminders_invoice_rule,priority:1" json:"invoice_id"`
	RuleID            uint      `gorm:"not null;index:idx_reminders_invoice_rule,priority:2" json:"rule_id"`
	SentAt            time.Time `gorm:"not null;index" json:"sent_at"`
	Subject           string    `gorm:"type:varchar(500);not null" json:"subject"`
	Body              string    `gorm:"type:text;not null" json:"body"`
	SentTo            string    `gorm:"type:varchar(200);not null" json:"sent_to"`
	ProviderMessageID string    `gorm:"type:varchar(191);default:''" json:"provider_message_id"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
}
