package billing

import (
	"encoding/json"
	"errors"
	"time"
)

// WebhookEventInput is the normalized input for webhook event persistence.
type WebhookEventInput struct {
	Provider        string
	ProviderEventID string
	EventType       string
	PayloadJSON     string
	SignatureValid  bool
}

// SubscriptionUpdate is the provider-agnostic subscription state applied to a
// user profile after a webhook event. The reminder core only ever consumes
// the resulting (subscription_status, trial_ends_at) pair.
type SubscriptionUpdate struct {
	UserID           uint
	CustomerID       string
	SubscriptionID   string
	Status           string
	CurrentPeriodEnd *time.Time
}

// Stripe event payload shapes, trimmed to the fields the sync service reads.
type stripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type stripeCheckoutSession struct {
	ClientReferenceID string            `json:"client_reference_id"`
	Customer          string            `json:"customer"`
	Subscription      string            `json:"subscription"`
	Metadata          map[string]string `json:"metadata"`
}

type stripeSubscription struct {
	ID               string `json:"id"`
	Customer         string `json:"customer"`
	Status           string `json:"status"`
	CurrentPeriodEnd int64  `json:"current_period_end"`
}

// StripeEvent is the parsed view of a Stripe webhook body.
type StripeEvent struct {
	ID       string
	Type     string
	Checkout *StripeCheckoutSession
	Sub      *StripeSubscriptionState
}

type StripeCheckoutSession struct {
	UserRef        string
	CustomerID     string
	SubscriptionID string
}

type StripeSubscriptionState struct {
	SubscriptionID   string
	CustomerID       string
	Status           string
	CurrentPeriodEnd *time.Time
}

var ErrUnhandledEventType = errors.New("unhandled webhook event type")

// ParseStripeEvent decodes the raw webhook body into the subset of event
// types the billing sync cares about. Other event types return
// ErrUnhandledEventType and are acknowledged without processing.
func ParseStripeEvent(payload []byte) (*StripeEvent, error) {
	var raw stripeEvent
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}

	event := &StripeEvent{ID: raw.ID, Type: raw.Type}

	switch raw.Type {
	case "checkout.session.completed":
		var session stripeCheckoutSession
		if err := json.Unmarshal(raw.Data.Object, &session); err != nil {
			return nil, err
		}
		userRef := session.ClientReferenceID
		if userRef == "" {
			userRef = session.Metadata["user_id"]
		}
		event.Checkout = &StripeCheckoutSession{
			UserRef:        userRef,
			CustomerID:     session.Customer,
			SubscriptionID: session.Subscription,
		}
		return event, nil
	case "customer.subscription.created", "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripeSubscription
		if err := json.Unmarshal(raw.Data.Object, &sub); err != nil {
			return nil, err
		}
		state := &StripeSubscriptionState{
			SubscriptionID: sub.ID,
			CustomerID:     sub.Customer,
			Status:         sub.Status,
		}
		if sub.CurrentPeriodEnd > 0 {
			end := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
			state.CurrentPeriodEnd = &end
		}
		event.Sub = state
		return event, nil
	default:
		return event, ErrUnhandledEventType
	}
}
