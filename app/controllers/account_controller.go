package controllers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/paynudge/paynudge/app/repository"
	"github.com/paynudge/paynudge/internal/pkg/billing"
	"github.com/paynudge/paynudge/internal/pkg/env"
	"github.com/paynudge/paynudge/internal/pkg/usercontext"
)

type accountSettingsForm struct {
	SenderName     string `json:"sender_name" validate:"max=150"`
	ReplyToEmail   string `json:"reply_to_email" validate:"omitempty,email,max=200"`
	EmailSignature string `json:"email_signature" validate:"max=2000"`
}

// HandleGetAccount returns the user's sender settings and billing state. The
// access flag comes from the same predicate the reminder job enforces.
func HandleGetAccount(c *fiber.Ctx) error {
	userCtx := usercontext.Get(c)
	factory := repository.GetGlobalFactory()

	user, err := factory.GetUserRepository().GetByID(userCtx.UserID)
	if err != nil {
		return internalError(c, "Failed to load user")
	}
	profile, err := factory.GetProfileRepository().GetOrCreateByUserID(userCtx.UserID)
	if err != nil {
		return internalError(c, "Failed to load profile")
	}

	now := time.Now()
	billingEnabled := env.GetBool("BILLING_ENABLED")

	return c.JSON(fiber.Map{
		"id":        user.ID,
		"full_name": user.FullName,
		"email":     user.Email,
		"sender_profile": fiber.Map{
			"sender_name":     profile.SenderName,
			"reply_to_email":  profile.ReplyToEmail,
			"email_signature": profile.EmailSignature,
		},
		"billing": fiber.Map{
			"enabled":             billingEnabled,
			"subscription_status": profile.SubscriptionStatus,
			"trial_ends_at":       formatTimePtr(profile.TrialEndsAt),
			"trial_days_left":     billing.TrialDaysLeft(profile, now),
			"has_access":          billing.HasAccess(profile, billingEnabled, now),
		},
		"api_key": fiber.Map{
			"prefix":       profile.APIKeyPrefix,
			"created_at":   formatTimePtr(profile.APIKeyCreatedAt),
			"last_used_at": formatTimePtr(profile.APIKeyLastUsedAt),
		},
	})
}

// HandleUpdateAccountSettings updates the sender profile. Empty strings
// clear a field back to unset.
func HandleUpdateAccountSettings(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	var form accountSettingsForm
	if err := c.BodyParser(&form); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(form); err != nil {
		return validationErrorResponse(c, err)
	}

	repo := repository.GetGlobalFactory().GetProfileRepository()
	profile, err := repo.GetOrCreateByUserID(userID)
	if err != nil {
		return internalError(c, "Failed to load profile")
	}

	profile.SenderName = optionalString(form.SenderName)
	profile.ReplyToEmail = optionalString(form.ReplyToEmail)
	profile.EmailSignature = optionalString(form.EmailSignature)

	if err := repo.Save(profile); err != nil {
		log.Printf("account settings update failed for user %d: %v", userID, err)
		return internalError(c, "Failed to save settings")
	}
	return c.JSON(fiber.Map{"ok": true})
}

// HandleIssueAPIKey issues a fresh API key; the raw secret is shown once.
func HandleIssueAPIKey(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	repo := repository.GetGlobalFactory().GetProfileRepository()

	profile, err := repo.GetOrCreateByUserID(userID)
	if err != nil {
		return internalError(c, "Failed to load profile")
	}
	rawKey, err := profile.IssueAPIKey()
	if err != nil {
		return internalError(c, "Failed to issue API key")
	}
	if err := repo.Save(profile); err != nil {
		return internalError(c, "Failed to store API key")
	}
	return c.JSON(fiber.Map{"api_key": rawKey, "prefix": profile.APIKeyPrefix})
}

// HandleRevokeAPIKey revokes the current API key.
func HandleRevokeAPIKey(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	repo := repository.GetGlobalFactory().GetProfileRepository()

	profile, err := repo.GetOrCreateByUserID(userID)
	if err != nil {
		return internalError(c, "Failed to load profile")
	}
	profile.RevokeAPIKey()
	if err := repo.Save(profile); err != nil {
		return internalError(c, "Failed to revoke API key")
	}
	return c.JSON(fiber.Map{"ok": true})
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
