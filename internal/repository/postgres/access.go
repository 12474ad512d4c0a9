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

// PostgresAccessRepository implements the AccessRepository interface
type PostgresAccessRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewAccessRepository creates a new access grant repository
func NewAccessRepository(config *RepositoryConfig) repositories.AccessRepository {
	return &PostgresAccessRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Upsert inserts or updates a grant. (document_id, user_id) is unique, so
// re-granting replaces the level instead of appending a duplicate row.
func (r *PostgresAccessRepository) Upsert(ctx context.Context, grant *models.AccessGrant) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (document_id, user_id, permission_level, granted_by, granted_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (document_id, user_id)
		DO UPDATE SET permission_level = EXCLUDED.permission_level,
			granted_by = EXCLUDED.granted_by,
			granted_at = EXCLUDED.granted_at
	`, r.tables.Access)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		grant.DocumentID,
		grant.UserID,
		string(grant.PermissionLevel),
		grant.GrantedBy,
		grant.GrantedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert access grant: %w", err)
	}

	return nil
}

// Get retrieves the grant for a user on a document
func (r *PostgresAccessRepository) Get(ctx context.Context, documentID, userID string) (*models.AccessGrant, error) {
	query := fmt.Sprintf(`
		SELECT document_id, user_id, permission_level, granted_by, granted_at
		FROM %s
		WHERE document_id = $1 AND user_id = $2
	`, r.tables.Access)

	var grant models.AccessGrant
	var level string
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, documentID, userID).Scan(
		&grant.DocumentID,
		&grant.UserID,
		&level,
		&grant.GrantedBy,
		&grant.GrantedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("grant for user %s on document %s: %w", userID, documentID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get access grant: %w", err)
	}

	parsed, err := models.ParsePermissionLevel(level)
	if err != nil {
		return nil, fmt.Errorf("stored grant for document %s: %w", documentID, err)
	}
	grant.PermissionLevel = parsed

	return &grant, nil
}

// ListByDocument returns all grants on a document
func (r *PostgresAccessRepository) ListByDocument(ctx context.Context, documentID string) ([]models.AccessGrant, error) {
	query := fmt.Sprintf(`
		SELECT document_id, user_id, permission_level, granted_by, granted_at
		FROM %s
		WHERE document_id = $1
		ORDER BY granted_at ASC
	`, r.tables.Access)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list access grants: %w", err)
	}
	defer rows.Close()

	var grants []models.AccessGrant
	for rows.Next() {
		var grant models.AccessGrant
		var level string
		err := rows.Scan(
			&grant.DocumentID,
			&grant.UserID,
			&level,
			&grant.GrantedBy,
			&grant.GrantedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan access grant: %w", err)
		}

		parsed, err := models.ParsePermissionLevel(level)
		if err != nil {
			return nil, fmt.Errorf("stored grant for document %s: %w", documentID, err)
		}
		grant.PermissionLevel = parsed
		grants = append(grants, grant)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate access grants: %w", err)
	}

	// Return empty slice instead of nil
	if grants == nil {
		grants = []models.AccessGrant{}
	}

	return grants, nil
}

// Delete removes a grant
func (r *PostgresAccessRepository) Delete(ctx context.Context, documentID, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s WHERE document_id = $1 AND user_id = $2
	`, r.tables.Access)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, documentID, userID)
	if err != nil {
		return fmt.Errorf("delete access grant: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("grant for user %s on document %s: %w", userID, documentID, domain.ErrNotFound)
	}

	return nil
}
