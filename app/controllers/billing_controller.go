package controllers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/paynudge/paynudge/app/models"
	"github.com/paynudge/paynudge/internal/pkg/billing"
	"github.com/paynudge/paynudge/internal/pkg/database"
	"github.com/paynudge/paynudge/internal/pkg/env"
)

// HandleStripeWebhook processes subscription lifecycle events from Stripe.
// Events are recorded before processing so retries with the same event id
// are acknowledged without reapplying the state change.
func HandleStripeWebhook(c *fiber.Ctx) error {
	webhookSecret := env.GetEnv("STRIPE_WEBHOOK_SECRET", "")
	if webhookSecret == "" {
		log.Printf("stripe webhook received but STRIPE_WEBHOOK_SECRET is not set")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Webhook secret not configured",
		})
	}

	payload := c.Body()
	signatureHeader := c.Get("Stripe-Signature")
	signatureValid := billing.VerifyStripeWebhookSignature(payload, signatureHeader, webhookSecret, time.Now())
	if !signatureValid {
		log.Printf("stripe webhook rejected: invalid signature")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook signature",
		})
	}

	event, parseErr := billing.ParseStripeEvent(payload)
	if parseErr != nil && !errors.Is(parseErr, billing.ErrUnhandledEventType) {
		log.Printf("stripe webhook payload parse failed: %v", parseErr)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	service := billing.NewServiceFromDB(database.GetDB())
	created, record, err := service.RecordWebhookEvent(c.Context(), billing.WebhookEventInput{
		Provider:        models.BillingProviderStripe,
		ProviderEventID: event.ID,
		EventType:       event.Type,
		PayloadJSON:     string(payload),
		SignatureValid:  true,
	})
	if err != nil {
		log.Printf("stripe webhook event persistence failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record webhook event",
		})
	}
	if !created {
		return c.JSON(fiber.Map{"received": true, "duplicate": true})
	}

	// Event types the sync does not track are stored and acknowledged.
	if errors.Is(parseErr, billing.ErrUnhandledEventType) {
		if err := service.MarkWebhookProcessed(c.Context(), record.ID, nil); err != nil {
			log.Printf("failed to mark webhook event %d processed: %v", record.ID, err)
		}
		return c.JSON(fiber.Map{"received": true})
	}

	var applyErr error
	switch {
	case event.Checkout != nil:
		applyErr = service.ApplyCheckoutCompleted(c.Context(), event.Checkout, event.Sub)
	case event.Sub != nil:
		applyErr = service.ApplySubscriptionEvent(c.Context(), event.Sub)
	}
	if applyErr != nil {
		log.Printf("stripe webhook %s (%s) apply failed: %v", event.ID, event.Type, applyErr)
	}
	if err := service.MarkWebhookProcessed(c.Context(), record.ID, applyErr); err != nil {
		log.Printf("failed to mark webhook event %d processed: %v", record.ID, err)
	}
	if applyErr != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to apply webhook event",
		})
	}

	return c.JSON(fiber.Map{"received": true})
}
