package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/chime/internal/digest"
	"github.com/roach88/chime/internal/reminder"
)

// Store is the persistence surface the scheduler needs.
// Implemented by *store.Store and by test fakes.
type Store interface {
	AllActive(ctx context.Context) ([]reminder.Reminder, error)
	SetLastFired(ctx context.Context, id int64, date string) error
	DeactivateExpiredOnce(ctx context.Context, today string) (int64, error)
	PurgeStale(ctx context.Context, today string, retentionDays int) (int64, error)
}

// Notifier delivers a notification to an owner.
// Implemented by the chat transport adapter outside the core.
type Notifier interface {
	Send(ctx context.Context, owner int64, text string) error
}

// Defaults for scheduler configuration.
const (
	DefaultSendTimeout   = 10 * time.Second
	DefaultRetentionDays = 30
)

// Scheduler is the periodic driver: one check pass per minute, one
// maintenance pass per day, one digest pass per week.
//
// Run must be called from exactly one goroutine; all store mutations
// triggered by scheduling happen inside it.
type Scheduler struct {
	store    Store
	notifier Notifier
	clock    Clock

	sendTimeout   time.Duration
	retentionDays int
	maintainAt    reminder.TimeOfDay

	digestDay       int // ISO weekday, 0 = digest disabled
	digestAt        reminder.TimeOfDay
	digestRecipient int64
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithSendTimeout bounds each notification send attempt.
func WithSendTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		s.sendTimeout = d
	}
}

// WithRetentionDays sets how long inactive reminders are kept after their
// last firing before the maintenance pass purges them.
func WithRetentionDays(days int) Option {
	return func(s *Scheduler) {
		s.retentionDays = days
	}
}

// WithMaintenanceAt sets the daily maintenance time.
func WithMaintenanceAt(at reminder.TimeOfDay) Option {
	return func(s *Scheduler) {
		s.maintainAt = at
	}
}

// WithDigest enables the weekly digest at the given ISO weekday and time,
// delivered to the recipient.
func WithDigest(day int, at reminder.TimeOfDay, recipient int64) Option {
	return func(s *Scheduler) {
		s.digestDay = day
		s.digestAt = at
		s.digestRecipient = recipient
	}
}

// New creates a Scheduler. Maintenance defaults to midnight and the digest
// is disabled unless WithDigest is applied.
func New(st Store, n Notifier, clock Clock, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:         st,
		notifier:      n,
		clock:         clock,
		sendTimeout:   DefaultSendTimeout,
		retentionDays: DefaultRetentionDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run drives the scheduler until ctx is cancelled.
// Ticks once per minute against the injected clock's "now".
func (s *Scheduler) Run(ctx context.Context) error {
	slog.Info("scheduler starting")

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler stopping")
			return ctx.Err()
		case <-ticker.C:
			s.Tick(ctx, s.clock.Now())
		}
	}
}

// Tick runs every pass whose cadence boundary matches now.
// Exported so tests can drive the scheduler without the wall-clock ticker.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	s.CheckPass(ctx, now)

	tod := reminder.TimeOfDayFrom(now)
	if tod == s.maintainAt {
		s.MaintenancePass(ctx, now)
	}
	if s.digestDay != 0 && reminder.ISOWeekday(now) == s.digestDay && tod == s.digestAt {
		s.DigestPass(ctx, now)
	}
}

// CheckPass evaluates every active reminder against now and delivers the
// due ones. One reminder's failure never prevents evaluation of the rest:
// errors are logged per item and the pass continues.
func (s *Scheduler) CheckPass(ctx context.Context, now time.Time) {
	tick := uuid.Must(uuid.NewV7()).String()
	log := slog.With("tick", tick, "at", now.Format("2006-01-02 15:04"))

	reminders, err := s.store.AllActive(ctx)
	if err != nil {
		log.Error("check pass: fetch active reminders", "error", err)
		return
	}

	today := reminder.FormatDate(now)
	for i := range reminders {
		rem := &reminders[i]
		if !IsDue(rem, now) {
			continue
		}
		if err := s.deliver(ctx, rem, now); err != nil {
			// last_fired stays unset so the reminder remains a candidate
			// at the next qualifying tick
			log.Error("delivery failed", "reminder", rem.ID, "owner", rem.OwnerID, "error", err)
			continue
		}
		if err := s.store.SetLastFired(ctx, rem.ID, today); err != nil {
			log.Error("persist last_fired", "reminder", rem.ID, "error", err)
			continue
		}
		log.Info("reminder delivered", "reminder", rem.ID, "owner", rem.OwnerID)
	}
}

// deliver sends one notification, bounded by the send timeout.
func (s *Scheduler) deliver(ctx context.Context, rem *reminder.Reminder, now time.Time) error {
	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	if err := s.notifier.Send(sendCtx, rem.OwnerID, NotificationText(rem, now)); err != nil {
		return fmt.Errorf("send reminder %d: %w", rem.ID, err)
	}
	return nil
}

// NotificationText builds the message body for a firing reminder.
func NotificationText(rem *reminder.Reminder, now time.Time) string {
	if age, ok := AgeAt(rem, now); ok {
		return fmt.Sprintf("Reminder: %s (turns %d)", rem.Text, age)
	}
	return "Reminder: " + rem.Text
}

// MaintenancePass deactivates expired once reminders and purges stale
// inactive ones. Runs daily at the configured time.
func (s *Scheduler) MaintenancePass(ctx context.Context, now time.Time) {
	today := reminder.FormatDate(now)

	deactivated, err := s.store.DeactivateExpiredOnce(ctx, today)
	if err != nil {
		slog.Error("maintenance: deactivate expired once reminders", "error", err)
	} else if deactivated > 0 {
		slog.Info("maintenance: expired once reminders deactivated", "count", deactivated)
	}

	purged, err := s.store.PurgeStale(ctx, today, s.retentionDays)
	if err != nil {
		slog.Error("maintenance: purge stale reminders", "error", err)
	} else if purged > 0 {
		slog.Info("maintenance: stale reminders purged", "count", purged)
	}
}

// DigestPass projects the coming seven days and delivers the summary to the
// configured recipient. The window is [today, today+6], inclusive.
func (s *Scheduler) DigestPass(ctx context.Context, now time.Time) {
	reminders, err := s.store.AllActive(ctx)
	if err != nil {
		slog.Error("digest pass: fetch active reminders", "error", err)
		return
	}

	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 6)
	groups := digest.Project(reminders, start, end, now)
	text := digest.Render(groups, start, end)

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()
	if err := s.notifier.Send(sendCtx, s.digestRecipient, text); err != nil {
		slog.Error("digest pass: send digest", "recipient", s.digestRecipient, "error", err)
		return
	}
	slog.Info("digest delivered", "recipient", s.digestRecipient, "groups", len(groups))
}
