package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"doccontrol/internal/domain"
	"doccontrol/internal/domain/lifecycle"
	"doccontrol/internal/domain/models"
	"doccontrol/internal/domain/repositories"
	"doccontrol/internal/domain/services"
)

// LockManager tracks at most one active checkout per document and
// grants/releases exclusive edit rights. Locks carry a lease; an expired
// lease is reclaimable by the next checkout, so a crashed client can
// never wedge a document forever. A lease of 0 disables expiry.
type LockManager struct {
	docs   repositories.DocumentRepository
	clock  services.Clock
	lease  time.Duration
	logger *slog.Logger
}

// NewLockManager creates a new lock manager
func NewLockManager(docs repositories.DocumentRepository, clock services.Clock, lease time.Duration, logger *slog.Logger) *LockManager {
	return &LockManager{
		docs:   docs,
		clock:  clock,
		lease:  lease,
		logger: logger,
	}
}

// Checkout acquires the document's lock for userID. Re-checkout by the
// current holder is idempotent and returns the existing lock unchanged.
func (m *LockManager) Checkout(ctx context.Context, doc *models.Document, userID string) (*models.Lock, error) {
	now := m.clock.Now()

	if !doc.Status.Lockable() {
		return nil, &domain.PreconditionError{
			DocumentID:     doc.ID,
			Operation:      "checkout",
			ExpectedStatus: lockableStatuses(),
			ActualStatus:   doc.Status.String(),
		}
	}

	var expectedHolder *string
	if doc.Lock != nil {
		if doc.Lock.HolderID == userID && !doc.Lock.ExpiredAsOf(now) {
			return doc.Lock, nil
		}
		if !doc.Lock.ExpiredAsOf(now) {
			return nil, &domain.LockConflictError{
				DocumentID: doc.ID,
				HolderID:   doc.Lock.HolderID,
				AcquiredAt: doc.Lock.AcquiredAt,
				Checkout:   true,
			}
		}
		// Stale lease - reclaim from the previous holder
		expectedHolder = &doc.Lock.HolderID
		m.logger.Info("reclaiming expired lock",
			"document_id", doc.ID,
			"previous_holder", doc.Lock.HolderID,
			"new_holder", userID,
		)
	}

	lock := &models.Lock{HolderID: userID, AcquiredAt: now}
	if m.lease > 0 {
		expires := now.Add(m.lease)
		lock.ExpiresAt = &expires
	}

	if err := m.docs.UpdateLock(ctx, doc.ID, expectedHolder, lock, now); err != nil {
		return nil, err
	}

	return lock, nil
}

// Release clears the caller's lock. Fails with NotLockedByCaller when the
// caller does not hold it.
func (m *LockManager) Release(ctx context.Context, doc *models.Document, userID string) error {
	if err := m.requireHolder(doc, userID); err != nil {
		return err
	}
	return m.docs.UpdateLock(ctx, doc.ID, &doc.Lock.HolderID, nil, m.clock.Now())
}

// ForceClear removes whatever lock is present, regardless of holder. The
// caller's admin capability is checked by the document service.
func (m *LockManager) ForceClear(ctx context.Context, doc *models.Document) error {
	if doc.Lock == nil {
		return nil
	}
	return m.docs.UpdateLock(ctx, doc.ID, &doc.Lock.HolderID, nil, m.clock.Now())
}

// GuardWrite fails with Locked when the document carries a live lock held
// by someone other than userID. Reads are never guarded.
func (m *LockManager) GuardWrite(doc *models.Document, userID string) error {
	if doc.LockedByOther(userID, m.clock.Now()) {
		return &domain.LockConflictError{
			DocumentID: doc.ID,
			HolderID:   doc.Lock.HolderID,
			AcquiredAt: doc.Lock.AcquiredAt,
		}
	}
	return nil
}

// requireHolder verifies the caller holds the current lock
func (m *LockManager) requireHolder(doc *models.Document, userID string) error {
	if doc.Lock == nil || doc.Lock.HolderID != userID {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotLockedByCaller)
	}
	return nil
}

func lockableStatuses() string {
	statuses := []string{
		lifecycle.StatusDraft.String(),
		lifecycle.StatusPendingApproval.String(),
		lifecycle.StatusApproved.String(),
		lifecycle.StatusPublished.String(),
	}
	return strings.Join(statuses, "|")
}
