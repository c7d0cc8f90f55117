// Package scheduler runs the background reminder jobs: a daily pass
// that schedules due-date reminders and a periodic pass that dispatches
// pending notifications.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	appbilling "github.com/crediario/backend/internal/application/billing"
	"github.com/crediario/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// checkInterval is how often the daily trigger checks the clock.
const checkInterval = time.Minute

// ReminderScheduler drives NotificationService on a schedule.
type ReminderScheduler struct {
	cfg           config.ReminderConfig
	notifications *appbilling.NotificationService
	logger        *zap.Logger

	runHour   int
	runMinute int

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// NewReminderScheduler creates a scheduler from validated config.
// RunAt must be in "HH:MM" 24h format.
func NewReminderScheduler(
	cfg config.ReminderConfig,
	notifications *appbilling.NotificationService,
	logger *zap.Logger,
) (*ReminderScheduler, error) {
	runAt, err := time.Parse("15:04", cfg.RunAt)
	if err != nil {
		return nil, fmt.Errorf("invalid reminder run_at %q: %w", cfg.RunAt, err)
	}

	return &ReminderScheduler{
		cfg:           cfg,
		notifications: notifications,
		logger:        logger.Named("scheduler"),
		runHour:       runAt.Hour(),
		runMinute:     runAt.Minute(),
	}, nil
}

// Start launches the scheduling and dispatch loops.
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

	s.wg.Add(2)
	go s.scheduleLoop(ctx)
	go s.dispatchLoop(ctx)

	s.logger.Info("Reminder scheduler started",
		zap.String("run_at", s.cfg.RunAt),
		zap.Int("days_ahead", s.cfg.DaysAhead),
		zap.Duration("dispatch_every", s.cfg.DispatchEvery),
	)
	return nil
}

// Stop shuts down the loops, waiting up to ctx's deadline.
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
		s.logger.Info("Reminder scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ReminderScheduler) scheduleLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkAndSchedule(ctx)
		}
	}
}

// checkAndSchedule runs the daily reminder pass once the configured
// time of day is reached, at most once per calendar day.
func (s *ReminderScheduler) checkAndSchedule(ctx context.Context) {
	now := time.Now()
	currentDate := now.Format("2006-01-02")

	s.mu.Lock()
	alreadyRan := s.lastRunDate == currentDate
	s.mu.Unlock()
	if alreadyRan {
		return
	}

	if now.Hour() != s.runHour || now.Minute() != s.runMinute {
		return
	}

	s.mu.Lock()
	s.lastRunDate = currentDate
	s.mu.Unlock()

	count, err := s.notifications.ScheduleDueReminders(ctx, s.cfg.DaysAhead)
	if err != nil {
		s.logger.Error("Failed to schedule due reminders", zap.Error(err))
		return
	}
	s.logger.Info("Due reminders scheduled", zap.Int("count", count))
}

func (s *ReminderScheduler) dispatchLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.DispatchEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sent, err := s.notifications.DispatchPending(ctx, s.cfg.DispatchBatch)
			if err != nil {
				s.logger.Error("Failed to dispatch notifications", zap.Error(err))
				continue
			}
			if sent > 0 {
				s.logger.Info("Notifications dispatched", zap.Int("sent", sent))
			}
		}
	}
}

// RunNow schedules reminders immediately, bypassing the daily trigger.
// Used by the manual trigger endpoint.
func (s *ReminderScheduler) RunNow(ctx context.Context) (int, error) {
	return s.notifications.ScheduleDueReminders(ctx, s.cfg.DaysAhead)
}
