package reminder

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/paynudge/paynudge/app/models"
	"github.com/paynudge/paynudge/app/repository"
	"github.com/paynudge/paynudge/internal/pkg/billing"
	"github.com/paynudge/paynudge/internal/pkg/env"
	"github.com/paynudge/paynudge/internal/pkg/format"
	"github.com/paynudge/paynudge/internal/pkg/mail"
)

// Summary is the outcome of one daily reminder run.
type Summary struct {
	RulesProcessed      int `json:"rulesProcessed"`
	InvoicesMatched     int `json:"invoicesMatched"`
	RemindersSent       int `json:"remindersSent"`
	SkippedDuplicates   int `json:"skippedDuplicates"`
	SkippedMissingEmail int `json:"skippedMissingEmail"`
}

const dedupWindow = 24 * time.Hour

// Job runs one pass of the reminder matching engine: every enabled rule of
// every send-eligible user against that user's outstanding invoices. The run
// is idempotent within the dedup window rather than transactional; it is
// meant to be triggered once per day and tolerates same-day re-runs.
type Job struct {
	Rules     repository.ReminderRuleRepository
	Invoices  repository.InvoiceRepository
	Reminders repository.ReminderRepository
	Templates repository.ReminderTemplateRepository
	Profiles  repository.ProfileRepository
	Users     repository.UserRepository
	Mailer    mail.Mailer

	BillingEnabled bool
	BusinessName   string
	Now            func() time.Time
}

// NewJob builds a reminder job from the repository bundle and a mailer,
// pulling deployment config from the environment.
func NewJob(repos *repository.Repositories, mailer mail.Mailer) *Job {
	return &Job{
		Rules:          repos.ReminderRule,
		Invoices:       repos.Invoice,
		Reminders:      repos.Reminder,
		Templates:      repos.ReminderTemplate,
		Profiles:       repos.Profile,
		Users:          repos.User,
		Mailer:         mailer,
		BillingEnabled: env.GetBool("BILLING_ENABLED"),
		BusinessName:   env.GetEnv("BUSINESS_NAME", "PayNudge"),
		Now:            time.Now,
	}
}

// Run executes one sequential pass. Only a failure to list the enabled rules
// aborts the run; everything below that is logged and skipped so one bad
// user or one provider hiccup never takes down the whole pass.
func (j *Job) Run(ctx context.Context) (Summary, error) {
	now := j.Now()
	today := startOfDay(now)
	dedupSince := now.Add(-dedupWindow)

	// Per-run caches, scoped to this invocation only.
	profileCache := map[uint]*models.Profile{}
	senderCache := map[uint]SenderProfile{}
	templateCache := map[string]*Template{}

	rules, err := j.Rules.ListEnabled()
	if err != nil {
		return Summary{}, fmt.Errorf("list enabled rules: %w", err)
	}

	summary := Summary{RulesProcessed: len(rules)}

	for _, rule := range rules {
		if !rule.Enabled {
			continue
		}

		profile, ok := profileCache[rule.UserID]
		if !ok {
			p, err := j.Profiles.GetByUserID(rule.UserID)
			if err != nil {
				// Missing or unreadable profile: gate decides on nil.
				p = nil
			}
			profile = p
			profileCache[rule.UserID] = profile
		}

		if !billing.HasAccess(profile, j.BillingEnabled, now) {
			continue
		}

		invoices, err := j.Invoices.ListOutstandingByUser(rule.UserID)
		if err != nil {
			log.Printf("Invoice fetch failed for user %d: %v", rule.UserID, err)
			continue
		}

		for _, invoice := range invoices {
			if !invoice.IsOutstanding() {
				continue
			}

			offset := calendarDaysBetween(invoice.DueDate, today)
			if offset != rule.DaysOffset {
				continue
			}

			summary.InvoicesMatched++

			if invoice.Client == nil || !invoice.Client.HasEmail() {
				summary.SkippedMissingEmail++
				continue
			}

			exists, err := j.Reminders.ExistsSince(invoice.ID, rule.ID, dedupSince)
			if err != nil {
				log.Printf("Reminder dedup check failed for invoice %d rule %d: %v", invoice.ID, rule.ID, err)
				continue
			}
			if exists {
				summary.SkippedDuplicates++
				continue
			}

			if j.sendReminder(ctx, rule, invoice, senderCache, templateCache, now) {
				summary.RemindersSent++
			}
		}
	}

	return summary, nil
}

// sendReminder renders, dispatches and records one reminder. Returns false
// on any failure; a failed send leaves no ledger record, so a same-day
// re-run retries it.
func (j *Job) sendReminder(
	ctx context.Context,
	rule models.ReminderRule,
	invoice models.Invoice,
	senderCache map[uint]SenderProfile,
	templateCache map[string]*Template,
	now time.Time,
) bool {
	template := j.lookupTemplate(rule.UserID, rule.Tone, templateCache)

	sender, ok := senderCache[rule.UserID]
	if !ok {
		resolved, err := ResolveSenderProfile(j.Profiles, j.Users, rule.UserID)
		if err != nil {
			log.Printf("Sender profile resolution failed for user %d: %v", rule.UserID, err)
			resolved = SenderProfile{}
		}
		sender = resolved
		senderCache[rule.UserID] = sender
	}

	clientName := invoice.Client.Name
	if clientName == "" {
		clientName = "there"
	}

	content := RenderContent(RenderInput{
		Template:      template,
		Tone:          rule.Tone,
		DaysOffset:    rule.DaysOffset,
		ClientName:    clientName,
		InvoiceNumber: invoice.InvoiceNumber,
		Amount:        format.GBP(invoice.AmountPence),
		DueDate:       format.Date(invoice.DueDate),
		IssueDate:     format.Date(invoice.IssueDate),
		BusinessName:  j.BusinessName,
		Sender:        sender,
	})

	messageID, err := j.Mailer.Send(ctx, &mail.Message{
		To:      invoice.Client.Email,
		ReplyTo: content.ReplyToEmail,
		Subject: content.Subject,
		Text:    content.Text,
		HTML:    content.HTML,
	})
	if err != nil {
		log.Printf("Email send failed for invoice %d rule %d: %v", invoice.ID, rule.ID, err)
		return false
	}

	record := &models.Reminder{
		UserID:            invoice.UserID,
		InvoiceID:         invoice.ID,
		RuleID:            rule.ID,
		SentAt:            now,
		Subject:           content.Subject,
		Body:              content.Text,
		SentTo:            invoice.Client.Email,
		ProviderMessageID: messageID,
	}
	if err := j.Reminders.Create(record); err != nil {
		// The email went out but the ledger write failed: counted as
		// not-sent, accepted at-most-once-record tradeoff.
		log.Printf("Reminder insert failed for invoice %d rule %d: %v", invoice.ID, rule.ID, err)
		return false
	}

	return true
}

func (j *Job) lookupTemplate(userID uint, tone string, cache map[string]*Template) Template {
	key := fmt.Sprintf("%d:%s", userID, tone)
	if cached, ok := cache[key]; ok {
		if cached != nil {
			return *cached
		}
		return DefaultTemplateFor(tone)
	}

	stored, err := j.Templates.GetByUserAndTone(userID, tone)
	if err != nil {
		log.Printf("Template lookup failed for user %d tone %s: %v", userID, tone, err)
		stored = nil
	}

	if stored == nil {
		cache[key] = nil
		return DefaultTemplateFor(tone)
	}
	override := &Template{Subject: stored.Subject, Body: stored.Body}
	cache[key] = override
	return *override
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// calendarDaysBetween counts whole calendar days from due to today: positive
// when today is past the due date (overdue), negative when it is before.
func calendarDaysBetween(due, today time.Time) int {
	diff := startOfDay(today).Sub(startOfDay(due))
	return int(math.Round(diff.Hours() / 24))
}
