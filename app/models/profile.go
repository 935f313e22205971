package models

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Subscription statuses mirrored from the payment provider.
const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusTrialing = "trialing"
	SubscriptionStatusPastDue  = "past_due"
	SubscriptionStatusCanceled = "canceled"
)

// Profile stores per-user sender identity, billing state and API key material.
// Sender fields are nullable on purpose: the reminder renderer falls back to
// the business name when nothing is configured.
type Profile struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	UserID               uint           `gorm:"uniqueIndex" json:"user_id"`
	SenderName           *string        `gorm:"type:varchar(150);default:null" json:"sender_name"`
	ReplyToEmail         *string        `gorm:"type:varchar(200);default:null" json:"reply_to_email"`
	EmailSignature       *string        `gorm:"type:text;default:null" json:"email_signature"`
	SubscriptionStatus   *string        `gorm:"type:varchar(32);default:null;index" json:"subscription_status"`
	TrialEndsAt          *time.Time     `gorm:"type:timestamp;default:null" json:"trial_ends_at"`
	StripeCustomerID     *string        `gorm:"type:varchar(191);default:null;index" json:"-"`
	StripeSubscriptionID *string        `gorm:"type:varchar(191);default:null" json:"-"`
	CurrentPeriodEnd     *time.Time     `gorm:"type:timestamp;default:null" json:"current_period_end"`
	APIKeyHash           string         `gorm:"type:char(64);default:''" json:"-"`
	APIKeyPrefix         string         `gorm:"type:varchar(20);default:''" json:"api_key_prefix"`
	APIKeyCreatedAt      *time.Time     `json:"api_key_created_at"`
	APIKeyLastUsedAt     *time.Time     `json:"api_key_last_used_at"`
	APIKeyRevokedAt      *time.Time     `json:"api_key_revoked_at"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}

var apiKeyEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

const apiKeyPrefix = "pnd_"

// HasActiveAPIKey reports whether the user has an active API key configured
func (p *Profile) HasActiveAPIKey() bool {
	return p != nil && p.APIKeyHash != "" && p.APIKeyRevokedAt == nil
}

// IssueAPIKey generates a new API key, persists metadata on the struct, and returns the raw secret.
// Callers must persist the struct via the database after invoking this method.
func (p *Profile) IssueAPIKey() (string, error) {
	rawKey, prefix, hash, err := generateAPIKeyMaterial()
	if err != nil {
		return "", err
	}
	now := time.Now()
	p.APIKeyHash = hash
	p.APIKeyPrefix = prefix
	p.APIKeyCreatedAt = &now
	p.APIKeyRevokedAt = nil
	p.APIKeyLastUsedAt = nil
	return rawKey, nil
}

// RevokeAPIKey clears the stored API key metadata without deleting the record.
func (p *Profile) RevokeAPIKey() {
	p.APIKeyHash = ""
	p.APIKeyPrefix = ""
	now := time.Now()
	p.APIKeyRevokedAt = &now
	p.APIKeyLastUsedAt = nil
}

// TouchAPIKeyUsage updates the last-used timestamp metadata.
func (p *Profile) TouchAPIKeyUsage() {
	now := time.Now()
	p.APIKeyLastUsedAt = &now
}

// HashAPIKey returns the SHA-256 hash for the provided API key.
func HashAPIKey(raw string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(raw)))
	return hex.EncodeToString(sum[:])
}

func generateAPIKeyMaterial() (string, string, string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", "", err
	}
	encoded := apiKeyEncoding.EncodeToString(b)
	encoded = strings.ToLower(encoded)
	rawKey := apiKeyPrefix + encoded
	if len(rawKey) < 12 {
		return "", "", "", fmt.Errorf("api key generation failed: key too short")
	}
	prefix := rawKey[:min(len(rawKey), 16)]
	hash := HashAPIKey(rawKey)
	return rawKey, prefix, hash, nil
}
