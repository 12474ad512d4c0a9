package repositories

import (
	"context"

	"doccontrol/internal/domain/models"
)

// AccessRepository stores per-document access grants. (document_id,
// user_id) is unique; Upsert replaces the level on re-grant instead of
// appending a duplicate row.
type AccessRepository interface {
	// Upsert inserts or updates a grant.
	Upsert(ctx context.Context, grant *models.AccessGrant) error

	// Get retrieves the grant for a user on a document, or
	// domain.ErrNotFound.
	Get(ctx context.Context, documentID, userID string) (*models.AccessGrant, error)

	// ListByDocument returns all grants on a document.
	ListByDocument(ctx context.Context, documentID string) ([]models.AccessGrant, error)

	// Delete removes a grant.
	Delete(ctx context.Context, documentID, userID string) error
}
