package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/paynudge/paynudge/app/models"
	"github.com/paynudge/paynudge/app/repository"
	"github.com/paynudge/paynudge/internal/pkg/reminder"
	"github.com/paynudge/paynudge/internal/pkg/usercontext"
)

type reminderTemplateForm struct {
	Tone    string `json:"tone" validate:"required,oneof=friendly neutral firm"`
	Subject string `json:"subject" validate:"required,min=1,max=500"`
	Body    string `json:"body" validate:"required,min=1"`
}

// HandleListReminderTemplates returns the user's overrides plus the built-in
// defaults so the settings screen can show the effective template per tone.
func HandleListReminderTemplates(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	templates, err := repository.GetGlobalFactory().GetReminderTemplateRepository().ListByUser(userID)
	if err != nil {
		log.Printf("template list failed for user %d: %v", userID, err)
		return internalError(c, "Failed to load reminder templates")
	}

	defaults := fiber.Map{}
	for tone, tpl := range reminder.DefaultTemplates {
		defaults[tone] = fiber.Map{"subject": tpl.Subject, "body": tpl.Body}
	}

	return c.JSON(fiber.Map{"templates": templates, "defaults": defaults})
}

// HandleUpsertReminderTemplate stores or replaces the override for a tone.
func HandleUpsertReminderTemplate(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	var form reminderTemplateForm
	if err := c.BodyParser(&form); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(form); err != nil {
		return validationErrorResponse(c, err)
	}

	template := &models.ReminderTemplate{
		UserID:  userID,
		Tone:    form.Tone,
		Subject: form.Subject,
		Body:    form.Body,
	}
	if err := repository.GetGlobalFactory().GetReminderTemplateRepository().Upsert(template); err != nil {
		log.Printf("template upsert failed for user %d tone %s: %v", userID, form.Tone, err)
		return internalError(c, "Failed to save reminder template")
	}
	return c.JSON(fiber.Map{"template": template})
}

// HandleDeleteReminderTemplate removes an override; the tone falls back to
// the built-in default.
func HandleDeleteReminderTemplate(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	tone := c.Params("tone")
	if tone != models.ToneFriendly && tone != models.ToneNeutral && tone != models.ToneFirm {
		return badRequest(c, "Invalid tone")
	}

	if err := repository.GetGlobalFactory().GetReminderTemplateRepository().DeleteByUserAndTone(userID, tone); err != nil {
		log.Printf("template delete failed for user %d tone %s: %v", userID, tone, err)
		return internalError(c, "Failed to delete reminder template")
	}
	return c.JSON(fiber.Map{"ok": true})
}
