package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrValidation         = errors.New("validation failed")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrLocked             = errors.New("document is checked out by another user")
	ErrAlreadyLocked      = errors.New("document is already checked out")
	ErrNotLockedByCaller  = errors.New("document is not checked out by caller")
	ErrStorageUnavailable = errors.New("blob storage unavailable")
)

// PreconditionError reports a status guard violation (stale read or a lost
// race). It carries the document's actual status so the caller can decide
// whether to refresh and retry.
type PreconditionError struct {
	DocumentID     string
	Operation      string
	ExpectedStatus string
	ActualStatus   string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: document %s must be %q but is %q",
		e.Operation, e.DocumentID, e.ExpectedStatus, e.ActualStatus)
}

// Is allows errors.Is() to match against ErrPreconditionFailed
func (e *PreconditionError) Is(target error) bool {
	return target == ErrPreconditionFailed
}

// LockConflictError reports that a write was blocked by somebody else's
// checkout. It carries the current holder so the caller can surface it.
type LockConflictError struct {
	DocumentID string
	HolderID   string
	AcquiredAt time.Time
	// Checkout marks a failed checkout attempt (AlreadyLocked) as opposed
	// to a blocked write on a locked document (Locked).
	Checkout bool
}

func (e *LockConflictError) Error() string {
	if e.Checkout {
		return fmt.Sprintf("document %s is already checked out by %s", e.DocumentID, e.HolderID)
	}
	return fmt.Sprintf("document %s is checked out by %s", e.DocumentID, e.HolderID)
}

// Is matches ErrAlreadyLocked for checkout conflicts and ErrLocked for
// blocked writes.
func (e *LockConflictError) Is(target error) bool {
	if e.Checkout {
		return target == ErrAlreadyLocked
	}
	return target == ErrLocked
}
