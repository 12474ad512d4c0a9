package repositories

import (
	"context"

	"doccontrol/internal/domain/models"
)

// VersionRepository is the append-only version ledger. Rows are never
// updated or deleted; a revert appends a new row pointing at an old blob.
type VersionRepository interface {
	// Append inserts a new version row.
	Append(ctx context.Context, version *models.DocumentVersion) error

	// ListByDocument returns all versions ordered by version number
	// ascending.
	ListByDocument(ctx context.Context, documentID string) ([]models.DocumentVersion, error)

	// GetByNumber retrieves one version of a document.
	GetByNumber(ctx context.Context, documentID string, versionNumber int) (*models.DocumentVersion, error)

	// CountByDocument returns the number of ledger rows for a document.
	CountByDocument(ctx context.Context, documentID string) (int, error)
}
