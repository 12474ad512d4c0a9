package expiry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"doccontrol/internal/config"
	"doccontrol/internal/domain"
	"doccontrol/internal/domain/lifecycle"
	"doccontrol/internal/domain/models"
	"doccontrol/internal/domain/repositories"
	"doccontrol/internal/domain/services"
)

// Sweeper periodically reclassifies documents whose expiry date has
// passed and emits reminder events for thresholds crossed since the last
// sweep. Sweeping an already-expired document is a no-op, so re-running
// is always safe.
type Sweeper struct {
	docs         repositories.DocumentRepository
	sink         services.NotificationSink
	clock        services.Clock
	interval     time.Duration
	reminderDays []int
	policy       *config.ReminderPolicy
	logger       *slog.Logger
}

// NewSweeper creates a sweeper with the given sweep interval and reminder
// policy. A nil policy uses the built-in default schedule.
func NewSweeper(
	docs repositories.DocumentRepository,
	sink services.NotificationSink,
	clock services.Clock,
	interval time.Duration,
	policy *config.ReminderPolicy,
	logger *slog.Logger,
) *Sweeper {
	if policy == nil {
		policy = &config.ReminderPolicy{}
	}
	reminderDays := Schedule(policy.DefaultDays, DefaultReminderDays)
	return &Sweeper{
		docs:         docs,
		sink:         sink,
		clock:        clock,
		interval:     interval,
		reminderDays: reminderDays,
		policy:       policy,
		logger:       logger,
	}
}

// Run sweeps on every tick until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("expiry sweeper started", "interval", s.interval)

	lastRun := s.clock.Now()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("expiry sweeper stopped")
			return
		case <-ticker.C:
			now := s.clock.Now()
			if err := s.SweepOnce(ctx, lastRun); err != nil {
				s.logger.Error("sweep failed", "error", err)
			}
			lastRun = now
		}
	}
}

// SweepOnce expires overdue documents and emits reminders for thresholds
// whose instant fell in (since, now].
func (s *Sweeper) SweepOnce(ctx context.Context, since time.Time) error {
	now := s.clock.Now()

	expired, err := s.expireOverdue(ctx, now)
	if err != nil {
		return err
	}

	reminded, err := s.emitReminders(ctx, since, now)
	if err != nil {
		return err
	}

	if expired > 0 || reminded > 0 {
		s.logger.Info("sweep complete", "expired", expired, "reminders", reminded)
	}
	return nil
}

func (s *Sweeper) expireOverdue(ctx context.Context, now time.Time) (int, error) {
	candidates, err := s.docs.ListExpiryCandidates(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("sweep expiry candidates: %w", err)
	}

	expired := 0
	for _, doc := range candidates {
		if !lifecycle.CanExpire(doc.Status) {
			continue
		}

		err := s.docs.UpdateStatus(ctx, doc.ID, doc.Status, lifecycle.StatusExpired, now)
		if err != nil {
			// A lost race means someone else transitioned the document
			// between list and update; the next sweep settles it.
			if errors.Is(err, domain.ErrPreconditionFailed) || errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return expired, fmt.Errorf("expire document %s: %w", doc.ID, err)
		}
		expired++

		s.sink.Emit(ctx, &models.Event{
			ID:         uuid.NewString(),
			DocumentID: doc.ID,
			Kind:       models.EventExpired,
			FromStatus: doc.Status.String(),
			ToStatus:   lifecycle.StatusExpired.String(),
			OccurredAt: now,
		})
	}

	return expired, nil
}

func (s *Sweeper) emitReminders(ctx context.Context, since, now time.Time) (int, error) {
	maxDays := 0
	for _, d := range s.reminderDays {
		if d > maxDays {
			maxDays = d
		}
	}
	for _, days := range s.policy.Categories {
		for _, d := range days {
			if d > maxDays {
				maxDays = d
			}
		}
	}

	upcoming, err := s.docs.ListExpiringWithin(ctx, now, maxDays)
	if err != nil {
		return 0, fmt.Errorf("sweep upcoming expiries: %w", err)
	}

	reminded := 0
	for _, doc := range upcoming {
		if doc.ExpiryDate == nil {
			continue
		}

		fallback := Schedule(s.policy.DaysFor(doc.Category), s.reminderDays)
		schedule := Schedule(doc.NotificationDays, fallback)
		for _, d := range schedule {
			instant := doc.ExpiryDate.Add(-time.Duration(d) * day)
			// Only thresholds crossed during this window fire; earlier
			// ones already fired on a previous sweep.
			if instant.After(since) && !instant.After(now) {
				s.sink.Emit(ctx, &models.Event{
					ID:         uuid.NewString(),
					DocumentID: doc.ID,
					Kind:       models.EventExpiryReminder,
					Comment:    fmt.Sprintf("expires in %d days", d),
					OccurredAt: now,
				})
				reminded++
			}
		}
	}

	return reminded, nil
}
