package controllers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/paynudge/paynudge/app/models"
	"github.com/paynudge/paynudge/app/repository"
	"github.com/paynudge/paynudge/internal/pkg/usercontext"
)

type reminderRuleForm struct {
	DaysOffset *int   `json:"days_offset" validate:"required"`
	Tone       string `json:"tone" validate:"required,oneof=friendly neutral firm"`
	Enabled    *bool  `json:"enabled"`
}

type reminderRuleUpdateForm struct {
	DaysOffset *int  `json:"days_offset" validate:"required"`
	Enabled    *bool `json:"enabled" validate:"required"`
}

// HandleListReminderRules returns all rules of the authenticated user.
func HandleListReminderRules(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	rules, err := repository.GetGlobalFactory().GetReminderRuleRepository().ListByUser(userID)
	if err != nil {
		log.Printf("rule list failed for user %d: %v", userID, err)
		return internalError(c, "Failed to load reminder rules")
	}
	return c.JSON(fiber.Map{"rules": rules})
}

// HandleCreateReminderRule creates a rule for the authenticated user.
func HandleCreateReminderRule(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	var form reminderRuleForm
	if err := c.BodyParser(&form); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(form); err != nil {
		return validationErrorResponse(c, err)
	}

	enabled := true
	if form.Enabled != nil {
		enabled = *form.Enabled
	}
	rule := &models.ReminderRule{
		UserID:     userID,
		DaysOffset: *form.DaysOffset,
		Tone:       form.Tone,
		Enabled:    enabled,
	}
	if err := rule.Validate(); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := repository.GetGlobalFactory().GetReminderRuleRepository().Create(rule); err != nil {
		log.Printf("rule create failed for user %d: %v", userID, err)
		return internalError(c, "Failed to create reminder rule")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"rule": rule})
}

// HandleUpdateReminderRule changes offset and enabled state of a rule.
func HandleUpdateReminderRule(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	ruleID := parseIDParam(c, "id")
	if ruleID == 0 {
		return badRequest(c, "Invalid rule id")
	}

	var form reminderRuleUpdateForm
	if err := c.BodyParser(&form); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(form); err != nil {
		return validationErrorResponse(c, err)
	}

	repo := repository.GetGlobalFactory().GetReminderRuleRepository()
	rule, err := repo.GetByID(ruleID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Reminder rule not found")
		}
		return internalError(c, "Failed to load reminder rule")
	}

	rule.DaysOffset = *form.DaysOffset
	rule.Enabled = *form.Enabled
	if err := rule.Validate(); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := repo.Update(rule); err != nil {
		log.Printf("rule update failed for user %d: %v", userID, err)
		return internalError(c, "Failed to update reminder rule")
	}
	return c.JSON(fiber.Map{"rule": rule})
}

// HandleDeleteReminderRule deletes a rule and purges its pending reminder
// records; already-sent history is kept.
func HandleDeleteReminderRule(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	ruleID := parseIDParam(c, "id")
	if ruleID == 0 {
		return badRequest(c, "Invalid rule id")
	}

	factory := repository.GetGlobalFactory()
	if _, err := factory.GetReminderRuleRepository().GetByID(ruleID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Reminder rule not found")
		}
		return internalError(c, "Failed to load reminder rule")
	}

	if err := factory.GetReminderRuleRepository().Delete(ruleID, userID); err != nil {
		log.Printf("rule delete failed for user %d: %v", userID, err)
		return internalError(c, "Failed to delete reminder rule")
	}
	if err := factory.GetReminderRepository().DeletePendingByRule(ruleID, time.Now()); err != nil {
		log.Printf("pending reminder purge failed for rule %d: %v", ruleID, err)
	}

	return c.JSON(fiber.Map{"ok": true})
}
