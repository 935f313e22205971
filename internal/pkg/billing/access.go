package billing

import (
	"time"

	"github.com/paynudge/paynudge/app/models"
)

const DefaultTrialDays = 14

// TrialEndsAt returns the effective trial end for a profile. Profiles are
// given a trial end at signup; a missing value falls back to now + 14 days.
func TrialEndsAt(profile *models.Profile, now time.Time) *time.Time {
	if profile == nil {
		return nil
	}
	if profile.TrialEndsAt != nil {
		return profile.TrialEndsAt
	}
	endsAt := now.Add(DefaultTrialDays * 24 * time.Hour)
	return &endsAt
}

// IsSubscriptionActive reports whether the provider-side subscription state
// entitles the user on its own.
func IsSubscriptionActive(profile *models.Profile) bool {
	if profile == nil || profile.SubscriptionStatus == nil {
		return false
	}
	status := *profile.SubscriptionStatus
	return status == models.SubscriptionStatusActive || status == models.SubscriptionStatusTrialing
}

// IsTrialActive reports whether the trial window is still open.
func IsTrialActive(profile *models.Profile, now time.Time) bool {
	endsAt := TrialEndsAt(profile, now)
	if endsAt == nil {
		return false
	}
	return now.Before(*endsAt)
}

// TrialDaysLeft returns whole days remaining in the trial, never negative.
func TrialDaysLeft(profile *models.Profile, now time.Time) int {
	endsAt := TrialEndsAt(profile, now)
	if endsAt == nil {
		return 0
	}
	diff := endsAt.Sub(now)
	if diff <= 0 {
		return 0
	}
	days := int((diff + 24*time.Hour - 1) / (24 * time.Hour))
	return days
}

// HasAccess is the single send-eligibility predicate. The dashboard and the
// reminder job must both go through it so displayed and enforced access never
// diverge. With billing disabled for the deployment everyone has access.
func HasAccess(profile *models.Profile, billingEnabled bool, now time.Time) bool {
	if !billingEnabled {
		return true
	}
	return IsSubscriptionActive(profile) || IsTrialActive(profile, now)
}
