package services

import (
	"context"
	"io"
	"time"

	"doccontrol/internal/domain/models"
)

// BlobStore is the external storage the document core writes file bytes
// to. Implementations must be awaited to completion before any document
// or version state is mutated, so a failed upload never produces an
// orphaned ledger entry.
type BlobStore interface {
	// Put stores content under key. Failures surface as
	// domain.ErrStorageUnavailable.
	Put(ctx context.Context, key string, content io.Reader, size int64, contentType string) error

	// SignedURL issues a time-limited read URL for key.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Clock abstracts time.Now for testability of expiry and lease logic.
type Clock interface {
	Now() time.Time
}

// RealClock is the production Clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// NotificationSink receives domain events. Emission is fire-and-forget
// from the core's perspective; sink failures never fail the operation
// that produced the event.
type NotificationSink interface {
	Emit(ctx context.Context, event *models.Event)
}
