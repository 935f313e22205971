package reminder

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paynudge/paynudge/app/models"
	"github.com/paynudge/paynudge/internal/pkg/mail"
)

// In-memory repository fakes. Only the methods the job touches carry logic;
// the rest satisfy the interfaces.

type fakeRuleRepo struct {
	rules   []models.ReminderRule
	listErr error
}

func (f *fakeRuleRepo) Create(*models.ReminderRule) error { return nil }
func (f *fakeRuleRepo) GetByID(uint, uint) (*models.ReminderRule, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeRuleRepo) ListByUser(uint) ([]models.ReminderRule, error) { return nil, nil }
func (f *fakeRuleRepo) ListEnabled() ([]models.ReminderRule, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.rules, nil
}
func (f *fakeRuleRepo) Update(*models.ReminderRule) error { return nil }
func (f *fakeRuleRepo) Delete(uint, uint) error           { return nil }

type fakeInvoiceRepo struct {
	byUser  map[uint][]models.Invoice
	listErr error
}

func (f *fakeInvoiceRepo) Create(*models.Invoice) error { return nil }
func (f *fakeInvoiceRepo) GetByID(uint, uint) (*models.Invoice, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeInvoiceRepo) ListByUser(uint) ([]models.Invoice, error) { return nil, nil }
func (f *fakeInvoiceRepo) ListOutstandingByUser(userID uint) ([]models.Invoice, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.byUser[userID], nil
}
func (f *fakeInvoiceRepo) Update(*models.Invoice) error    { return nil }
func (f *fakeInvoiceRepo) Delete(uint, uint) error         { return nil }
func (f *fakeInvoiceRepo) CountByUser(uint) (int64, error) { return 0, nil }

type fakeReminderRepo struct {
	created   []models.Reminder
	existing  map[[2]uint]bool
	createErr error
}

func (f *fakeReminderRepo) Create(r *models.Reminder) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, *r)
	return nil
}
func (f *fakeReminderRepo) ExistsSince(invoiceID, ruleID uint, _ time.Time) (bool, error) {
	return f.existing[[2]uint{invoiceID, ruleID}], nil
}
func (f *fakeReminderRepo) ListByInvoice(uint, uint) ([]models.Reminder, error) { return nil, nil }
func (f *fakeReminderRepo) DeletePendingByInvoice(uint, time.Time) error        { return nil }
func (f *fakeReminderRepo) DeletePendingByRule(uint, time.Time) error           { return nil }

type fakeTemplateRepo struct {
	overrides map[string]*models.ReminderTemplate
}

func (f *fakeTemplateRepo) GetByUserAndTone(userID uint, tone string) (*models.ReminderTemplate, error) {
	return f.overrides[templateKey(userID, tone)], nil
}
func (f *fakeTemplateRepo) ListByUser(uint) ([]models.ReminderTemplate, error) { return nil, nil }
func (f *fakeTemplateRepo) Upsert(*models.ReminderTemplate) error              { return nil }
func (f *fakeTemplateRepo) DeleteByUserAndTone(uint, string) error             { return nil }

func templateKey(userID uint, tone string) string {
	return fmt.Sprintf("%d:%s", userID, tone)
}

type fakeProfileRepo struct {
	profiles map[uint]*models.Profile
}

func (f *fakeProfileRepo) GetByUserID(userID uint) (*models.Profile, error) {
	if p, ok := f.profiles[userID]; ok {
		return p, nil
	}
	return nil, errors.New("record not found")
}
func (f *fakeProfileRepo) GetOrCreateByUserID(userID uint) (*models.Profile, error) {
	if p, ok := f.profiles[userID]; ok {
		return p, nil
	}
	return &models.Profile{UserID: userID}, nil
}
func (f *fakeProfileRepo) GetByAPIKeyHash(string) (*models.Profile, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeProfileRepo) Save(*models.Profile) error             { return nil }
func (f *fakeProfileRepo) TouchAPIKeyUsage(uint, time.Time) error { return nil }

type fakeUserRepo struct {
	users map[uint]*models.User
}

func (f *fakeUserRepo) Create(*models.User) error { return nil }
func (f *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("record not found")
}
func (f *fakeUserRepo) GetByEmail(string) (*models.User, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeUserRepo) Update(*models.User) error { return nil }
func (f *fakeUserRepo) Delete(uint) error         { return nil }
func (f *fakeUserRepo) Count() (int64, error)     { return 0, nil }

type fakeMailer struct {
	sent    []mail.Message
	sendErr error
}

func (f *fakeMailer) Send(_ context.Context, msg *mail.Message) (string, error) {
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.sent = append(f.sent, *msg)
	return "msg_fake", nil
}

// testJob wires a job around fakes with billing disabled and a frozen clock.
func testJob(rules *fakeRuleRepo, invoices *fakeInvoiceRepo, reminders *fakeReminderRepo, mailer *fakeMailer, now time.Time) *Job {
	return &Job{
		Rules:     rules,
		Invoices:  invoices,
		Reminders: reminders,
		Templates: &fakeTemplateRepo{overrides: map[string]*models.ReminderTemplate{}},
		Profiles:  &fakeProfileRepo{profiles: map[uint]*models.Profile{}},
		Users:     &fakeUserRepo{users: map[uint]*models.User{1: {ID: 1, FullName: "Grace Hopper", Email: "grace@acme.test"}}},
		Mailer:    mailer,

		BusinessName: "Acme",
		Now:          func() time.Time { return now },
	}
}

func dueInvoice(id uint, due time.Time, email string) models.Invoice {
	return models.Invoice{
		ID:            id,
		UserID:        1,
		ClientID:      id,
		InvoiceNumber: "INV-001",
		AmountPence:   125050,
		IssueDate:     due.AddDate(0, 0, -14),
		DueDate:       due,
		Status:        models.InvoiceStatusSent,
		Client:        &models.Client{ID: id, UserID: 1, Name: "Ada", Email: email},
	}
}

func TestJobSendsMatchingReminder(t *testing.T) {
	now := time.Date(2026, time.September, 7, 9, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, -3) // 3 days overdue

	rules := &fakeRuleRepo{rules: []models.ReminderRule{
		{ID: 10, UserID: 1, DaysOffset: 3, Tone: models.ToneFirm, Enabled: true},
	}}
	invoices := &fakeInvoiceRepo{byUser: map[uint][]models.Invoice{
		1: {dueInvoice(100, due, "ada@client.test")},
	}}
	reminders := &fakeReminderRepo{existing: map[[2]uint]bool{}}
	mailer := &fakeMailer{}

	summary, err := testJob(rules, invoices, reminders, mailer, now).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.RulesProcessed)
	assert.Equal(t, 1, summary.InvoicesMatched)
	assert.Equal(t, 1, summary.RemindersSent)
	assert.Equal(t, 0, summary.SkippedDuplicates)
	assert.Equal(t, 0, summary.SkippedMissingEmail)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "ada@client.test", mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].Subject, "INV-001")
	assert.Contains(t, mailer.sent[0].Text, "£1,250.50")

	require.Len(t, reminders.created, 1)
	assert.Equal(t, uint(100), reminders.created[0].InvoiceID)
	assert.Equal(t, uint(10), reminders.created[0].RuleID)
	assert.Equal(t, "msg_fake", reminders.created[0].ProviderMessageID)
	assert.Equal(t, now, reminders.created[0].SentAt)
}

func TestJobOffsetMismatchDoesNotMatch(t *testing.T) {
	now := time.Date(2026, time.September, 7, 9, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, -2) // 2 days overdue, rule wants 3

	rules := &fakeRuleRepo{rules: []models.ReminderRule{
		{ID: 10, UserID: 1, DaysOffset: 3, Tone: models.ToneFirm, Enabled: true},
	}}
	invoices := &fakeInvoiceRepo{byUser: map[uint][]models.Invoice{
		1: {dueInvoice(100, due, "ada@client.test")},
	}}
	reminders := &fakeReminderRepo{existing: map[[2]uint]bool{}}
	mailer := &fakeMailer{}

	summary, err := testJob(rules, invoices, reminders, mailer, now).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.InvoicesMatched)
	assert.Empty(t, mailer.sent)
}

func TestJobNegativeOffsetMatchesBeforeDue(t *testing.T) {
	now := time.Date(2026, time.September, 7, 9, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, 3) // due in 3 days

	rules := &fakeRuleRepo{rules: []models.ReminderRule{
		{ID: 11, UserID: 1, DaysOffset: -3, Tone: models.ToneFriendly, Enabled: true},
	}}
	invoices := &fakeInvoiceRepo{byUser: map[uint][]models.Invoice{
		1: {dueInvoice(100, due, "ada@client.test")},
	}}
	reminders := &fakeReminderRepo{existing: map[[2]uint]bool{}}
	mailer := &fakeMailer{}

	summary, err := testJob(rules, invoices, reminders, mailer, now).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.RemindersSent)
}

func TestJobIgnoresDisabledRule(t *testing.T) {
	now := time.Date(2026, time.September, 7, 9, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, -3)

	rules := &fakeRuleRepo{rules: []models.ReminderRule{
		{ID: 10, UserID: 1, DaysOffset: 3, Tone: models.ToneFirm, Enabled: false},
	}}
	invoices := &fakeInvoiceRepo{byUser: map[uint][]models.Invoice{
		1: {dueInvoice(100, due, "ada@client.test")},
	}}
	reminders := &fakeReminderRepo{existing: map[[2]uint]bool{}}
	mailer := &fakeMailer{}

	summary, err := testJob(rules, invoices, reminders, mailer, now).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.InvoicesMatched)
	assert.Equal(t, 0, summary.RemindersSent)
	assert.Empty(t, mailer.sent)
	assert.Empty(t, reminders.created)
}

func TestJobSkipsMissingEmail(t *testing.T) {
	now := time.Date(2026, time.September, 7, 9, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, -3)

	rules := &fakeRuleRepo{rules: []models.ReminderRule{
		{ID: 10, UserID: 1, DaysOffset: 3, Tone: models.ToneFirm, Enabled: true},
	}}
	invoices := &fakeInvoiceRepo{byUser: map[uint][]models.Invoice{
		1: {dueInvoice(100, due, "")},
	}}
	reminders := &fakeReminderRepo{existing: map[[2]uint]bool{}}
	mailer := &fakeMailer{}

	summary, err := testJob(rules, invoices, reminders, mailer, now).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.InvoicesMatched)
	assert.Equal(t, 1, summary.SkippedMissingEmail)
	assert.Equal(t, 0, summary.RemindersSent)
	assert.Empty(t, mailer.sent)
	assert.Empty(t, reminders.created)
}

func TestJobSkipsDuplicateWithinWindow(t *testing.T) {
	now := time.Date(2026, time.September, 7, 9, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, -3)

	rules := &fakeRuleRepo{rules: []models.ReminderRule{
		{ID: 10, UserID: 1, DaysOffset: 3, Tone: models.ToneFirm, Enabled: true},
	}}
	invoices := &fakeInvoiceRepo{byUser: map[uint][]models.Invoice{
		1: {dueInvoice(100, due, "ada@client.test")},
	}}
	reminders := &fakeReminderRepo{existing: map[[2]uint]bool{{100, 10}: true}}
	mailer := &fakeMailer{}

	summary, err := testJob(rules, invoices, reminders, mailer, now).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.InvoicesMatched)
	assert.Equal(t, 1, summary.SkippedDuplicates)
	assert.Equal(t, 0, summary.RemindersSent)
	assert.Empty(t, mailer.sent)
}

func TestJobProviderFailureLeavesNoRecord(t *testing.T) {
	now := time.Date(2026, time.September, 7, 9, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, -3)

	rules := &fakeRuleRepo{rules: []models.ReminderRule{
		{ID: 10, UserID: 1, DaysOffset: 3, Tone: models.ToneFirm, Enabled: true},
	}}
	invoices := &fakeInvoiceRepo{byUser: map[uint][]models.Invoice{
		1: {dueInvoice(100, due, "ada@client.test")},
	}}
	reminders := &fakeReminderRepo{existing: map[[2]uint]bool{}}
	mailer := &fakeMailer{sendErr: errors.New("provider down")}

	summary, err := testJob(rules, invoices, reminders, mailer, now).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.InvoicesMatched)
	assert.Equal(t, 0, summary.RemindersSent)
	assert.Empty(t, reminders.created)
}

func TestJobSkipsNonOutstandingInvoices(t *testing.T) {
	now := time.Date(2026, time.September, 7, 9, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, -3)

	paid := dueInvoice(100, due, "ada@client.test")
	paid.MarkPaid(now)

	rules := &fakeRuleRepo{rules: []models.ReminderRule{
		{ID: 10, UserID: 1, DaysOffset: 3, Tone: models.ToneFirm, Enabled: true},
	}}
	invoices := &fakeInvoiceRepo{byUser: map[uint][]models.Invoice{1: {paid}}}
	reminders := &fakeReminderRepo{existing: map[[2]uint]bool{}}
	mailer := &fakeMailer{}

	summary, err := testJob(rules, invoices, reminders, mailer, now).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.InvoicesMatched)
	assert.Empty(t, mailer.sent)
}

func TestJobInvoiceFetchFailureSkipsRule(t *testing.T) {
	now := time.Date(2026, time.September, 7, 9, 0, 0, 0, time.UTC)

	rules := &fakeRuleRepo{rules: []models.ReminderRule{
		{ID: 10, UserID: 1, DaysOffset: 3, Tone: models.ToneFirm, Enabled: true},
	}}
	invoices := &fakeInvoiceRepo{listErr: errors.New("db gone")}
	reminders := &fakeReminderRepo{existing: map[[2]uint]bool{}}
	mailer := &fakeMailer{}

	summary, err := testJob(rules, invoices, reminders, mailer, now).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.RulesProcessed)
	assert.Equal(t, 0, summary.InvoicesMatched)
}

func TestJobRuleListFailureAborts(t *testing.T) {
	now := time.Date(2026, time.September, 7, 9, 0, 0, 0, time.UTC)

	rules := &fakeRuleRepo{listErr: errors.New("db gone")}
	_, err := testJob(rules, &fakeInvoiceRepo{}, &fakeReminderRepo{}, &fakeMailer{}, now).Run(context.Background())
	require.Error(t, err)
}

func TestJobBillingGateBlocksLapsedUser(t *testing.T) {
	now := time.Date(2026, time.September, 7, 9, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, -3)
	lapsed := now.Add(-time.Hour)

	rules := &fakeRuleRepo{rules: []models.ReminderRule{
		{ID: 10, UserID: 1, DaysOffset: 3, Tone: models.ToneFirm, Enabled: true},
	}}
	invoices := &fakeInvoiceRepo{byUser: map[uint][]models.Invoice{
		1: {dueInvoice(100, due, "ada@client.test")},
	}}
	reminders := &fakeReminderRepo{existing: map[[2]uint]bool{}}
	mailer := &fakeMailer{}

	job := testJob(rules, invoices, reminders, mailer, now)
	job.BillingEnabled = true
	job.Profiles = &fakeProfileRepo{profiles: map[uint]*models.Profile{
		1: {UserID: 1, TrialEndsAt: &lapsed},
	}}

	summary, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.InvoicesMatched)
	assert.Empty(t, mailer.sent)
}

func TestJobUsesTemplateOverride(t *testing.T) {
	now := time.Date(2026, time.September, 7, 9, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, -3)

	rules := &fakeRuleRepo{rules: []models.ReminderRule{
		{ID: 10, UserID: 1, DaysOffset: 3, Tone: models.ToneFirm, Enabled: true},
	}}
	invoices := &fakeInvoiceRepo{byUser: map[uint][]models.Invoice{
		1: {dueInvoice(100, due, "ada@client.test")},
	}}
	reminders := &fakeReminderRepo{existing: map[[2]uint]bool{}}
	mailer := &fakeMailer{}

	job := testJob(rules, invoices, reminders, mailer, now)
	job.Templates = &fakeTemplateRepo{overrides: map[string]*models.ReminderTemplate{
		templateKey(1, models.ToneFirm): {
			UserID:  1,
			Tone:    models.ToneFirm,
			Subject: "Custom chase for {{invoice_number}}",
			Body:    "Pay up, {{client_name}}.",
		},
	}}

	_, err := job.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Custom chase for INV-001", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].Text, "Pay up, Ada.")
}

func TestCalendarDaysBetween(t *testing.T) {
	today := time.Date(2026, time.September, 7, 23, 59, 0, 0, time.UTC)

	tests := []struct {
		due  time.Time
		want int
	}{
		{due: time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC), want: 0},
		{due: time.Date(2026, time.September, 4, 10, 0, 0, 0, time.UTC), want: 3},
		{due: time.Date(2026, time.September, 10, 1, 0, 0, 0, time.UTC), want: -3},
	}

	for _, tt := range tests {
		if got := calendarDaysBetween(tt.due, today); got != tt.want {
			t.Fatalf("calendarDaysBetween(%v) = %d, want %d", tt.due, got, tt.want)
		}
	}
}
