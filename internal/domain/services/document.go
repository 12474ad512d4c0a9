package services

import (
	"context"
	"io"
	"time"

	"doccontrol/internal/domain/models"
)

// DocumentService is the document aggregate's public surface. Every
// operation takes the caller's identity explicitly; there is no ambient
// current user.
type DocumentService interface {
	// Upload creates a document at Draft/version 1 with one ledger row.
	// The blob write is awaited before any state is mutated.
	Upload(ctx context.Context, req *UploadRequest) (*models.Document, error)

	// Get retrieves a document. Reads are always permitted for holders of
	// the read capability, locked or not.
	Get(ctx context.Context, callerID, documentID string) (*models.Document, error)

	// List returns documents matching the filter.
	List(ctx context.Context, callerID string, filter *models.DocumentFilter) ([]models.Document, error)

	// EditMetadata patches title/description/category/tags. Blocked while
	// locked by another user or in a read-only status.
	EditMetadata(ctx context.Context, callerID, documentID string, req *EditMetadataRequest) (*models.Document, error)

	// Delete tombstones a document. Version history is retained.
	Delete(ctx context.Context, callerID, documentID string) error

	// Lifecycle transitions. Each is a single compare-and-swap on status;
	// a stale transition fails with a precondition error.
	SubmitForApproval(ctx context.Context, callerID, documentID string) (*models.Document, error)
	Approve(ctx context.Context, callerID, documentID, comment string) (*models.Document, error)
	Reject(ctx context.Context, callerID, documentID, reason string) (*models.Document, error)
	ReturnToDraft(ctx context.Context, callerID, documentID string) (*models.Document, error)
	Publish(ctx context.Context, callerID, documentID string) (*models.Document, error)
	Archive(ctx context.Context, callerID, documentID string) (*models.Document, error)

	// Checkout grants exclusive edit rights. Idempotent for the current
	// holder; reclaims expired leases.
	Checkout(ctx context.Context, callerID, documentID string) (*models.Lock, error)

	// Checkin releases the caller's lock and, when requested, stores a new
	// revision atomically with the version counter bump.
	Checkin(ctx context.Context, callerID, documentID string, req *CheckinRequest) (*models.Document, error)

	// ForceUnlock clears another user's lock. Admin capability required.
	ForceUnlock(ctx context.Context, callerID, documentID string) error

	// ListVersions returns the ledger, ascending by version number.
	ListVersions(ctx context.Context, callerID, documentID string) ([]models.DocumentVersion, error)

	// RevertToVersion appends a new version whose blob locator is copied
	// from the target version. History is never rewritten.
	RevertToVersion(ctx context.Context, callerID, documentID string, versionNumber int) (*models.Document, error)

	// SetExpirySettings updates expiry date and reminder thresholds.
	SetExpirySettings(ctx context.Context, callerID, documentID string, req *ExpirySettingsRequest) (*models.Document, error)

	// DownloadURL issues a time-limited signed read URL for the current
	// version's blob.
	DownloadURL(ctx context.Context, callerID, documentID string) (string, error)

	// ListEvents returns the document's activity log, newest first.
	ListEvents(ctx context.Context, callerID, documentID string, limit int) ([]models.Event, error)

	// ListExpiring returns live documents expiring within the given number
	// of days.
	ListExpiring(ctx context.Context, callerID string, days int) ([]models.Document, error)
}

// UploadRequest carries a new document's metadata and content.
type UploadRequest struct {
	CallerID         string     `json:"-"` // set by the handler from auth context
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	Category         string     `json:"category"`
	Tags             []string   `json:"tags,omitempty"`
	FileName         string     `json:"file_name"`
	FileType         string     `json:"file_type"`
	FileSize         int64      `json:"file_size"`
	Content          io.Reader  `json:"-"`
	ExpiryDate       *time.Time `json:"expiry_date,omitempty"`
	NotificationDays []int      `json:"notification_days,omitempty"`
}

// EditMetadataRequest patches document metadata. Nil fields are left
// unchanged.
type EditMetadataRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"` // nil = unchanged
}

// CheckinRequest releases a checkout. With CreateNewVersion the new
// content replaces the document's file fields and one ledger row is
// appended; without it only the lock is released.
type CheckinRequest struct {
	CreateNewVersion bool      `json:"create_new_version"`
	FileName         string    `json:"file_name,omitempty"`
	FileType         string    `json:"file_type,omitempty"`
	FileSize         int64     `json:"file_size,omitempty"`
	Content          io.Reader `json:"-"`
	ChangeNotes      string    `json:"change_notes,omitempty"`
}

// ExpirySettingsRequest configures expiry-driven reminders. ExpiryDate is
// required when NotificationDays is non-empty.
type ExpirySettingsRequest struct {
	ExpiryDate       *time.Time `json:"expiry_date,omitempty"`
	NotificationDays []int      `json:"notification_days,omitempty"`
}
