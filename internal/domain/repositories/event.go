package repositories

import (
	"context"

	"doccontrol/internal/domain/models"
)

// EventRepository persists the per-document activity log.
type EventRepository interface {
	// Append records an event.
	Append(ctx context.Context, event *models.Event) error

	// ListByDocument returns a document's events, newest first.
	ListByDocument(ctx context.Context, documentID string, limit int) ([]models.Event, error)
}
