package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"ArticleCourier/internal/domain"
	"ArticleCourier/internal/ports"
)

// CronScheduler drives the per-subscriber daily delivery trigger through
// a cron runner and hands out one-shot reminder timers for the fixed
// reminder hours of the current day.
type CronScheduler struct {
	cron          *cron.Cron
	location      *time.Location
	spec          string
	reminderHours []int
	logger        *slog.Logger

	mu      sync.Mutex
	entries map[int64]cron.EntryID
	started bool

	// now is swappable for tests.
	now func() time.Time
}

var _ ports.ReminderScheduler = (*CronScheduler)(nil)

// New builds a scheduler firing daily at deliveryTime (HH:MM) in the
// given location, with reminders at the listed hours. Malformed trigger
// configuration is an error here, at startup, never at runtime.
func New(loc *time.Location, deliveryTime string, reminderHours []int, logger *slog.Logger) (*CronScheduler, error) {
	if loc == nil {
		loc = time.UTC
	}

	hour, minute, err := parseClock(deliveryTime)
	if err != nil {
		return nil, err
	}
	for _, h := range reminderHours {
		if h < 0 || h > 23 {
			return nil, fmt.Errorf("reminder hour %d out of range", h)
		}
	}

	return &CronScheduler{
		cron:          cron.New(cron.WithLocation(loc)),
		location:      loc,
		spec:          fmt.Sprintf("%d %d * * *", minute, hour),
		reminderHours: reminderHours,
		logger:        logger,
		entries:       map[int64]cron.EntryID{},
		now:           time.Now,
	}, nil
}

// ScheduleDaily registers the daily delivery job for one subscriber.
// A subscriber already registered keeps its existing entry.
func (s *CronScheduler) ScheduleDaily(subscriberID int64, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[subscriberID]; exists {
		return nil
	}

	entryID, err := s.cron.AddFunc(s.spec, fn)
	if err != nil {
		return fmt.Errorf("add daily job for %d: %w", subscriberID, err)
	}
	s.entries[subscriberID] = entryID
	return nil
}

// ScheduleReminders creates one-shot timers for each configured reminder
// hour still ahead of now today and returns their handles. Hours already
// past get no timer: a late delivery simply has fewer nags left.
func (s *CronScheduler) ScheduleReminders(subscriberID int64, fn func()) []domain.ReminderHandle {
	now := s.now().In(s.location)

	var handles []domain.ReminderHandle
	for _, hour := range s.reminderHours {
		at := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, s.location)
		if !at.After(now) {
			continue
		}
		timer := time.AfterFunc(at.Sub(now), fn)
		handles = append(handles, &reminderHandle{timer: timer})
	}

	if s.logger != nil {
		s.logger.Debug("reminders scheduled", "subscriber", subscriberID, "count", len(handles))
	}
	return handles
}

// Start begins the cron runner.
func (s *CronScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		s.cron.Start()
		s.started = true
	}
}

// Stop halts the cron runner, waiting for in-flight jobs until ctx
// expires. One-shot reminder timers are owned by the subscription
// records and stop with the process.
func (s *CronScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.started = false

	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// reminderHandle wraps a one-shot timer. Stop is idempotent, so
// cancelling twice or after the timer fired is a no-op.
type reminderHandle struct {
	timer *time.Timer
}

func (h *reminderHandle) Cancel() {
	h.timer.Stop()
}

func parseClock(value string) (int, int, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid delivery time %q (expected HH:MM)", value)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid delivery hour in %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid delivery minute in %q", value)
	}
	return hour, minute, nil
}
