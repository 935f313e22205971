package billing

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/paynudge/paynudge/app/models"
)

// Service applies provider webhook events to local billing state.
type Service struct {
	repo Repository
}

// NewService creates a billing service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// RecordWebhookEvent persists an incoming webhook payload exactly once per
// provider event id. Returns created=false when the event was seen before.
func (s *Service) RecordWebhookEvent(ctx context.Context, input WebhookEventInput) (bool, *models.BillingWebhookEvent, error) {
	_ = ctx
	event := &models.BillingWebhookEvent{
		Provider:        strings.ToLower(strings.TrimSpace(input.Provider)),
		ProviderEventID: strings.TrimSpace(input.ProviderEventID),
		EventType:       strings.TrimSpace(input.EventType),
		PayloadJSON:     input.PayloadJSON,
		SignatureValid:  input.SignatureValid,
	}
	if event.Provider == "" || event.EventType == "" {
		return false, nil, errors.New("provider and event_type are required")
	}
	return s.repo.CreateWebhookEventIfNotExists(event)
}

// MarkWebhookProcessed records the processing outcome on a stored event.
func (s *Service) MarkWebhookProcessed(ctx context.Context, eventID uint, processingError error) error {
	_ = ctx
	msg := ""
	if processingError != nil {
		msg = processingError.Error()
	}
	return s.repo.MarkWebhookProcessed(eventID, msg)
}

// ApplyCheckoutCompleted links the Stripe customer/subscription to the user
// referenced by the checkout session and stores the subscription status.
func (s *Service) ApplyCheckoutCompleted(ctx context.Context, session *StripeCheckoutSession, sub *StripeSubscriptionState) error {
	_ = ctx
	if session == nil || session.UserRef == "" {
		return errors.New("checkout session has no user reference")
	}
	userID, err := strconv.ParseUint(session.UserRef, 10, 64)
	if err != nil {
		return errors.New("checkout session user reference is not a local user id")
	}

	profile, err := s.repo.GetProfileByUserID(uint(userID))
	if err != nil {
		return err
	}

	if session.CustomerID != "" {
		profile.StripeCustomerID = &session.CustomerID
	}
	if session.SubscriptionID != "" {
		profile.StripeSubscriptionID = &session.SubscriptionID
	}
	if sub != nil {
		applySubscriptionState(profile, sub)
	}
	return s.repo.SaveProfile(profile)
}

// ApplySubscriptionEvent updates the profile owning the Stripe customer with
// the latest subscription status and period end.
func (s *Service) ApplySubscriptionEvent(ctx context.Context, sub *StripeSubscriptionState) error {
	_ = ctx
	if sub == nil || sub.CustomerID == "" {
		return errors.New("subscription event has no customer id")
	}

	profile, err := s.repo.GetProfileByStripeCustomerID(sub.CustomerID)
	if err != nil {
		return err
	}

	applySubscriptionState(profile, sub)
	return s.repo.SaveProfile(profile)
}

func applySubscriptionState(profile *models.Profile, sub *StripeSubscriptionState) {
	if sub.SubscriptionID != "" {
		profile.StripeSubscriptionID = &sub.SubscriptionID
	}
	if sub.Status != "" {
		status := sub.Status
		profile.SubscriptionStatus = &status
	}
	profile.CurrentPeriodEnd = sub.CurrentPeriodEnd
}
