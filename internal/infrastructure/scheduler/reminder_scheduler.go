// Package scheduler triggers the daily payment reminder run.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	appinvoicing "github.com/factura/backend/internal/application/invoicing"
	"github.com/factura/backend/internal/infrastructure/config"
)

// ReminderRunner runs one reminder pass over all tenants
type ReminderRunner interface {
	SendDueReminders(ctx context.Context, now time.Time) (*appinvoicing.ReminderRunStats, error)
}

// clock lets tests control time
type clock func() time.Time

// ReminderScheduler fires the reminder run once per day at the configured
// UTC hour. It polls with a coarse ticker rather than computing the next
// wake-up, so clock adjustments and DST cannot skip a run.
type ReminderScheduler struct {
	checkInterval time.Duration
	runHourUTC    int
	runner        ReminderRunner
	logger        *zap.Logger
	now           clock

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// ReminderSchedulerOption is a functional option for ReminderScheduler
type ReminderSchedulerOption func(*ReminderScheduler)

// WithClock overrides the time source (for tests)
func WithClock(now func() time.Time) ReminderSchedulerOption {
	return func(s *ReminderScheduler) {
		s.now = now
	}
}

// NewReminderScheduler creates a new ReminderScheduler
func NewReminderScheduler(cfg config.SchedulerConfig, runner ReminderRunner, logger *zap.Logger, opts ...ReminderSchedulerOption) *ReminderScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	checkInterval := cfg.CheckInterval
	if checkInterval <= 0 {
		checkInterval = time.Minute
	}

	s := &ReminderScheduler{
		checkInterval: checkInterval,
		runHourUTC:    cfg.RunHourUTC,
		runner:        runner,
		logger:        logger,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start starts the scheduler loop. Calling Start on a running scheduler is a no-op.
func (s *ReminderScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("reminder scheduler started",
		zap.Int("run_hour_utc", s.runHourUTC),
		zap.Duration("check_interval", s.checkInterval),
	)
	return nil
}

// Stop stops the scheduler and waits for an in-flight run to finish
func (s *ReminderScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("reminder scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ReminderScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkAndRun(ctx)
		}
	}
}

// checkAndRun fires the reminder run once the configured UTC hour has been
// reached and no run happened yet today
func (s *ReminderScheduler) checkAndRun(ctx context.Context) {
	now := s.now().UTC()
	currentDate := now.Format("2006-01-02")

	s.mu.Lock()
	alreadyRan := s.lastRunDate == currentDate
	s.mu.Unlock()
	if alreadyRan || now.Hour() < s.runHourUTC {
		return
	}

	s.mu.Lock()
	s.lastRunDate = currentDate
	s.mu.Unlock()

	s.runOnce(ctx, now)
}

// runOnce executes a single reminder pass
func (s *ReminderScheduler) runOnce(ctx context.Context, now time.Time) {
	s.logger.Info("starting daily reminder run", zap.Time("run_time", now))

	stats, err := s.runner.SendDueReminders(ctx, now)
	if err != nil {
		s.logger.Error("reminder run failed", zap.Error(err))
		return
	}

	s.logger.Info("daily reminder run finished",
		zap.Int("tenants_processed", stats.TenantsProcessed),
		zap.Int("reminders_sent", stats.RemindersSent),
		zap.Int("invoices_overdue", stats.InvoicesOverdue),
		zap.Int("failures", stats.Failures),
	)
}

// TriggerNow runs a reminder pass immediately, outside the daily schedule.
// Exposed for operational tooling.
func (s *ReminderScheduler) TriggerNow(ctx context.Context) (*appinvoicing.ReminderRunStats, error) {
	now := s.now().UTC()
	s.logger.Info("manual reminder run triggered", zap.Time("run_time", now))
	return s.runner.SendDueReminders(ctx, now)
}
