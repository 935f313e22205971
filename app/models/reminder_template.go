package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// ReminderTemplate is a per-user override of the built-in tone templates.
// At most one row per (user, tone); absent rows fall back to the defaults.
type ReminderTemplate struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index:ux_reminder_templates_user_tone,unique,priority:1" json:"user_id"`
	Tone      string         `gorm:"type:varchar(20);not null;index:ux_reminder_templates_user_tone,unique,priority:2" json:"tone" validate:"oneof=friendly neutral firm"`
	Subject   string         `gorm:"type:varchar(500);not null" json:"subject" validate:"required,min=1,max=500"`
	Body      string         `gorm:"type:text;not null" json:"body" validate:"required,min=1"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t *ReminderTemplate) Validate() error {
	v := validator.New()

	return v.Struct(t)
}
