package scheduler

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/paynudge/paynudge/app/repository"
	"github.com/paynudge/paynudge/internal/pkg/cache"
	"github.com/paynudge/paynudge/internal/pkg/env"
	"github.com/paynudge/paynudge/internal/pkg/mail"
	"github.com/paynudge/paynudge/internal/pkg/reminder"
)

const (
	runLockKey     = "reminder:daily-run:lock"
	summaryKey     = "reminder:daily-run:last-summary"
	runLockTTL     = 10 * time.Minute
	summaryRetain  = 48 * time.Hour
	defaultTimeout = 5 * time.Minute
)

// Scheduler runs the daily reminder job in-process on a cron expression.
// Deployments that trigger the run over HTTP instead leave REMINDER_CRON
// unset and this never starts.
type Scheduler struct {
	cron *cron.Cron
}

// Start reads REMINDER_CRON and schedules the reminder job. Returns nil when
// no schedule is configured.
func Start() *Scheduler {
	spec := env.GetEnv("REMINDER_CRON", "")
	if spec == "" {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, runDailyReminders); err != nil {
		log.Printf("invalid REMINDER_CRON %q: %v", spec, err)
		return nil
	}
	c.Start()
	log.Printf("reminder scheduler started with schedule %q", spec)
	return &Scheduler{cron: c}
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	if s == nil || s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

func runDailyReminders() {
	acquired, err := cache.AcquireLock(runLockKey, runLockTTL)
	if err != nil {
		log.Printf("reminder run lock error: %v", err)
		return
	}
	if !acquired {
		log.Printf("reminder run skipped: another run holds the lock")
		return
	}
	defer cache.ReleaseLock(runLockKey)

	mailer, err := mail.NewResendMailer()
	if err != nil {
		log.Printf("reminder run aborted, mailer setup failed: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	job := reminder.NewJob(repository.GetGlobalFactory().GetRepositories(), mailer)
	summary, err := job.Run(ctx)
	if err != nil {
		log.Printf("scheduled reminder run failed: %v", err)
		return
	}

	if encoded, err := json.Marshal(summary); err == nil {
		if err := cache.Set(summaryKey, string(encoded), summaryRetain); err != nil {
			log.Printf("failed to cache reminder summary: %v", err)
		}
	}
}
