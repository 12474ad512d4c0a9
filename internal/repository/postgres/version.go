package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"doccontrol/internal/domain"
	"doccontrol/internal/domain/models"
	"doccontrol/internal/domain/repositories"
)

// PostgresVersionRepository implements the VersionRepository interface.
// The table is append-only: no UPDATE or DELETE statement exists here.
type PostgresVersionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewVersionRepository creates a new version ledger repository
func NewVersionRepository(config *RepositoryConfig) repositories.VersionRepository {
	return &PostgresVersionRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Append inserts a new version row
func (r *PostgresVersionRepository) Append(ctx context.Context, version *models.DocumentVersion) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, document_id, version_number, file_name, file_size,
			file_type, blob_locator, change_notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, r.tables.Versions)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		version.ID,
		version.DocumentID,
		version.VersionNumber,
		version.FileName,
		version.FileSize,
		version.FileType,
		version.BlobLocator,
		version.ChangeNotes,
		version.CreatedBy,
		version.CreatedAt,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			// (document_id, version_number) collision: somebody else
			// appended this number first
			return fmt.Errorf("version %d of document %s already recorded: %w",
				version.VersionNumber, version.DocumentID, domain.ErrPreconditionFailed)
		}
		return fmt.Errorf("append version: %w", err)
	}

	return nil
}

// ListByDocument returns all versions ordered by version number ascending
func (r *PostgresVersionRepository) ListByDocument(ctx context.Context, documentID string) ([]models.DocumentVersion, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, version_number, file_name, file_size, file_type,
			blob_locator, change_notes, created_by, created_at
		FROM %s
		WHERE document_id = $1
		ORDER BY version_number ASC
	`, r.tables.Versions)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var versions []models.DocumentVersion
	for rows.Next() {
		var v models.DocumentVersion
		err := rows.Scan(
			&v.ID,
			&v.DocumentID,
			&v.VersionNumber,
			&v.FileName,
			&v.FileSize,
			&v.FileType,
			&v.BlobLocator,
			&v.ChangeNotes,
			&v.CreatedBy,
			&v.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		versions = append(versions, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate versions: %w", err)
	}

	// Return empty slice instead of nil
	if versions == nil {
		versions = []models.DocumentVersion{}
	}

	return versions, nil
}

// GetByNumber retrieves one version of a document
func (r *PostgresVersionRepository) GetByNumber(ctx context.Context, documentID string, versionNumber int) (*models.DocumentVersion, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, version_number, file_name, file_size, file_type,
			blob_locator, change_notes, created_by, created_at
		FROM %s
		WHERE document_id = $1 AND version_number = $2
	`, r.tables.Versions)

	var v models.DocumentVersion
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, documentID, versionNumber).Scan(
		&v.ID,
		&v.DocumentID,
		&v.VersionNumber,
		&v.FileName,
		&v.FileSize,
		&v.FileType,
		&v.BlobLocator,
		&v.ChangeNotes,
		&v.CreatedBy,
		&v.CreatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("version %d of document %s: %w", versionNumber, documentID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get version: %w", err)
	}

	return &v, nil
}

// CountByDocument returns the number of ledger rows for a document
func (r *PostgresVersionRepository) CountByDocument(ctx context.Context, documentID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s WHERE document_id = $1
	`, r.tables.Versions)

	var count int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, documentID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count versions: %w", err)
	}

	return count, nil
}
