package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	ToneFriendly = "friendly"
	ToneNeutral  = "neutral"
	ToneFirm     = "firm"
)

// ReminderRule fires a reminder for every outstanding invoice whose distance
// from its due date equals DaysOffset. The offset is signed project-wide:
// negative = before the due date, 0 = on the due date, positive = overdue.
type ReminderRule struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	DaysOffset int            `gorm:"not null" json:"days_offset" validate:"gte=-60,lte=60"`
	Tone       string         `gorm:"type:varchar(20);not null;default:'friendly'" json:"tone" validate:"oneof=friendly neutral firm"`
	Enabled    bool           `gorm:"not null;default:true;index" json:"enabled"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *ReminderRule) Validate() error {
	v := validator.New()

	return v.Struct(r)
}
