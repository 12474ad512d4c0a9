package repositories

import (
	"context"
	"time"

	"doccontrol/internal/domain/lifecycle"
	"doccontrol/internal/domain/models"
)

// FileInfo is the content-describing subset of a document swapped on
// check-in and revert.
type FileInfo struct {
	FileName string
	FileSize int64
	FileType string
	FilePath string
}

// DocumentRepository defines data access for the document aggregate.
//
// Status and lock mutations are compare-and-swap updates keyed on the
// expected prior value. A conditional update that matches no row fails
// cleanly instead of being retried silently: two clients racing to approve
// the same document get exactly one winner and one precondition failure.
type DocumentRepository interface {
	// Create inserts a new document row.
	Create(ctx context.Context, doc *models.Document) error

	// GetByID retrieves a document by ID, including its lock state.
	GetByID(ctx context.Context, id string) (*models.Document, error)

	// List returns documents matching the filter, newest first.
	List(ctx context.Context, filter *models.DocumentFilter) ([]models.Document, error)

	// UpdateMetadata writes title, description, category, tags and
	// updated_at.
	UpdateMetadata(ctx context.Context, doc *models.Document) error

	// UpdateStatus transitions status from expected to next iff the stored
	// status still equals expected. On a lost race it returns a
	// domain.PreconditionError carrying the actual stored status.
	UpdateStatus(ctx context.Context, id string, expected, next lifecycle.Status, updatedAt time.Time) error

	// UpdateLock swaps the lock columns iff the stored holder still equals
	// expectedHolder (nil = unlocked). lock == nil clears the lock. On a
	// lost race it returns domain.ErrPreconditionFailed.
	UpdateLock(ctx context.Context, id string, expectedHolder *string, lock *models.Lock, updatedAt time.Time) error

	// UpdateFile bumps current_version from expectedVersion to
	// expectedVersion+1 and swaps the file columns, iff the stored counter
	// still equals expectedVersion.
	UpdateFile(ctx context.Context, id string, expectedVersion int, file FileInfo, updatedAt time.Time) error

	// UpdateExpiry writes expiry_date and notification_days.
	UpdateExpiry(ctx context.Context, id string, expiryDate *time.Time, notificationDays []int, updatedAt time.Time) error

	// SoftDelete tombstones a document; version history is retained.
	SoftDelete(ctx context.Context, id string, deletedAt time.Time) error

	// ListExpiryCandidates returns non-terminal documents whose expiry date
	// has passed as of now, for the periodic sweep.
	ListExpiryCandidates(ctx context.Context, now time.Time) ([]models.Document, error)

	// ListExpiringWithin returns live documents whose expiry date falls in
	// (now, now+days].
	ListExpiringWithin(ctx context.Context, now time.Time, days int) ([]models.Document, error)
}
