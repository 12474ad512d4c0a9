package models

import (
	"time"

	"doccontrol/internal/domain/lifecycle"
)

// Lock records an exclusive checkout of a document. At most one lock
// exists per document.
type Lock struct {
	HolderID   string     `json:"holder_id" db:"lock_holder"`
	AcquiredAt time.Time  `json:"acquired_at" db:"lock_acquired_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty" db:"lock_expires_at"` // nil = no lease
}

// ExpiredAsOf reports whether the lock's lease has lapsed and the lock is
// reclaimable by another user.
func (l *Lock) ExpiredAsOf(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}

// Document is the aggregate root: identity, metadata, current status,
// current version pointer, lock state and expiry configuration.
type Document struct {
	ID          string           `json:"id" db:"id"`
	Title       string           `json:"title" db:"title"`
	Description string           `json:"description,omitempty" db:"description"`
	Category    string           `json:"category" db:"category"`
	Status      lifecycle.Status `json:"status" db:"status"`

	// CurrentVersion starts at 1 and increments by exactly 1 on every
	// content-replacing edit; it is never decremented or reused.
	CurrentVersion int `json:"current_version" db:"current_version"`

	FileName string `json:"file_name" db:"file_name"`
	FileSize int64  `json:"file_size" db:"file_size"`
	FileType string `json:"file_type" db:"file_type"`
	// FilePath is the blob locator for CurrentVersion.
	FilePath string `json:"file_path" db:"file_path"`

	// Tags are unordered for matching; insertion order is preserved for
	// display.
	Tags []string `json:"tags" db:"tags"`

	ExpiryDate *time.Time `json:"expiry_date,omitempty" db:"expiry_date"`
	// NotificationDays lists days-before-expiry to notify on; empty means
	// the platform default schedule applies.
	NotificationDays []int `json:"notification_days,omitempty" db:"notification_days"`

	Lock *Lock `json:"lock,omitempty"`

	CreatedBy string     `json:"created_by" db:"created_by"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// LockedByOther reports whether the document carries a live lock held by
// someone other than userID.
func (d *Document) LockedByOther(userID string, now time.Time) bool {
	return d.Lock != nil && d.Lock.HolderID != userID && !d.Lock.ExpiredAsOf(now)
}

// DocumentFilter narrows document listings.
type DocumentFilter struct {
	Category string
	Status   lifecycle.Status
	Tag      string
	// ExpiringWithinDays, when > 0, keeps only documents whose expiry date
	// falls within that many days of now.
	ExpiringWithinDays int
	Limit              int
	Offset             int
}
