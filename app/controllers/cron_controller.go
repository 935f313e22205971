package controllers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/paynudge/paynudge/app/repository"
	"github.com/paynudge/paynudge/internal/pkg/cache"
	"github.com/paynudge/paynudge/internal/pkg/mail"
	"github.com/paynudge/paynudge/internal/pkg/reminder"
)

const (
	dailyRunLockKey   = "reminder:daily-run:lock"
	lastSummaryKey    = "reminder:daily-run:last-summary"
	dailyRunLockTTL   = 10 * time.Minute
	lastSummaryRetain = 48 * time.Hour
)

// HandleDailyReminders runs the daily reminder job. The redis lock keeps
// overlapping cron deliveries from double sending.
func HandleDailyReminders(c *fiber.Ctx) error {
	acquired, err := cache.AcquireLock(dailyRunLockKey, dailyRunLockTTL)
	if err != nil {
		log.Printf("reminder run lock error: %v", err)
		return internalError(c, "Failed to acquire run lock")
	}
	if !acquired {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "A reminder run is already in progress",
		})
	}
	defer cache.ReleaseLock(dailyRunLockKey)

	mailer, err := mail.NewResendMailer()
	if err != nil {
		log.Printf("mailer setup failed: %v", err)
		return internalError(c, "Mail provider is not configured")
	}

	job := reminder.NewJob(repository.GetGlobalFactory().GetRepositories(), mailer)
	summary, err := job.Run(c.Context())
	if err != nil {
		log.Printf("daily reminder run failed: %v", err)
		return internalError(c, "Reminder run failed")
	}

	if encoded, err := json.Marshal(summary); err == nil {
		if err := cache.Set(lastSummaryKey, string(encoded), lastSummaryRetain); err != nil {
			log.Printf("failed to cache reminder summary: %v", err)
		}
	}

	return c.JSON(fiber.Map{"ok": true, "summary": summary})
}

// HandleLastReminderSummary returns the cached summary of the most recent run.
func HandleLastReminderSummary(c *fiber.Ctx) error {
	raw, err := cache.Get(lastSummaryKey)
	if err != nil || raw == "" {
		return c.JSON(fiber.Map{"summary": nil})
	}
	var summary reminder.Summary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return c.JSON(fiber.Map{"summary": nil})
	}
	return c.JSON(fiber.Map{"summary": summary})
}
