package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is a reminder recipient owned by exactly one user. Email is the
// delivery address; a client without one can still be invoiced but never
// receives reminder mail.
type Client struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UUID        string         `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	Name        string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Email       string         `gorm:"type:varchar(200);default:''" json:"email" validate:"omitempty,email,max=200"`
	CompanyName string         `gorm:"type:varchar(200);default:''" json:"company_name" validate:"max=200"`
	Notes       string         `gorm:"type:text" json:"notes" validate:"max=2000"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Client) Validate() error {
	v := validator.New()

	return v.Struct(c)
}

// BeforeCreate assigns a public UUID.
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == "" {
		c.UUID = uuid.New().String()
	}
	return nil
}

// HasEmail reports whether reminder mail can be delivered to this client.
func (c *Client) HasEmail() bool {
	return c.Email != ""
}
