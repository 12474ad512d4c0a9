package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"doccontrol/internal/domain"
	"doccontrol/internal/domain/lifecycle"
	"doccontrol/internal/domain/models"
	"doccontrol/internal/domain/repositories"
)

// documentColumns is the select list shared by every document query.
const documentColumns = `id, title, description, category, status, current_version,
	file_name, file_size, file_type, file_path, tags, expiry_date, notification_days,
	lock_holder, lock_acquired_at, lock_expires_at, created_by, created_at, updated_at`

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new document row
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, description, category, status, current_version,
			file_name, file_size, file_type, file_path, tags, expiry_date,
			notification_days, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		doc.ID,
		doc.Title,
		doc.Description,
		doc.Category,
		doc.Status.String(),
		doc.CurrentVersion,
		doc.FileName,
		doc.FileSize,
		doc.FileType,
		doc.FilePath,
		doc.Tags,
		doc.ExpiryDate,
		doc.NotificationDays,
		doc.CreatedBy,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// GetByID retrieves a document by ID, including its lock state
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND deleted_at IS NULL
	`, documentColumns, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	doc, err := scanDocument(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return doc, nil
}

// List returns documents matching the filter, newest first
func (r *PostgresDocumentRepository) List(ctx context.Context, filter *models.DocumentFilter) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE deleted_at IS NULL
	`, documentColumns, r.tables.Documents)

	var args []interface{}
	paramIndex := 1

	if filter.Category != "" {
		query += fmt.Sprintf(` AND category = $%d`, paramIndex)
		args = append(args, filter.Category)
		paramIndex++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, paramIndex)
		args = append(args, filter.Status.String())
		paramIndex++
	}
	if filter.Tag != "" {
		query += fmt.Sprintf(` AND $%d = ANY(tags)`, paramIndex)
		args = append(args, filter.Tag)
		paramIndex++
	}
	if filter.ExpiringWithinDays > 0 {
		query += fmt.Sprintf(` AND expiry_date IS NOT NULL AND expiry_date <= NOW() + $%d * INTERVAL '1 day'`, paramIndex)
		args = append(args, filter.ExpiringWithinDays)
		paramIndex++
	}

	query += ` ORDER BY updated_at DESC`

	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, paramIndex, paramIndex+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	return collectDocuments(rows)
}

// UpdateMetadata writes title, description, category, tags and updated_at
func (r *PostgresDocumentRepository) UpdateMetadata(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, description = $2, category = $3, tags = $4, updated_at = $5
		WHERE id = $6 AND deleted_at IS NULL
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		doc.Title,
		doc.Description,
		doc.Category,
		doc.Tags,
		doc.UpdatedAt,
		doc.ID,
	)
	if err != nil {
		return fmt.Errorf("update document metadata: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}

	return nil
}

// UpdateStatus transitions status iff the stored status still equals
// expected. On a lost race the actual stored status is fetched and
// returned inside a PreconditionError so the caller can see who won.
func (r *PostgresDocumentRepository) UpdateStatus(ctx context.Context, id string, expected, next lifecycle.Status, updatedAt time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4 AND deleted_at IS NULL
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, next.String(), updatedAt, id, expected.String())
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}

	if result.RowsAffected() == 0 {
		actual, getErr := r.currentStatus(ctx, id)
		if getErr != nil {
			return getErr
		}
		return &domain.PreconditionError{
			DocumentID:     id,
			Operation:      "status transition",
			ExpectedStatus: expected.String(),
			ActualStatus:   actual.String(),
		}
	}

	return nil
}

// UpdateLock swaps the lock columns iff the stored holder still equals
// expectedHolder (nil = unlocked)
func (r *PostgresDocumentRepository) UpdateLock(ctx context.Context, id string, expectedHolder *string, lock *models.Lock, updatedAt time.Time) error {
	var holder *string
	var acquiredAt, expiresAt *time.Time
	if lock != nil {
		holder = &lock.HolderID
		acquiredAt = &lock.AcquiredAt
		expiresAt = lock.ExpiresAt
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET lock_holder = $1, lock_acquired_at = $2, lock_expires_at = $3, updated_at = $4
		WHERE id = $5 AND lock_holder IS NOT DISTINCT FROM $6 AND deleted_at IS NULL
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, holder, acquiredAt, expiresAt, updatedAt, id, expectedHolder)
	if err != nil {
		return fmt.Errorf("update document lock: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Row missing or lock holder changed under us
		if _, getErr := r.currentStatus(ctx, id); getErr != nil {
			return getErr
		}
		return fmt.Errorf("document %s lock changed concurrently: %w", id, domain.ErrPreconditionFailed)
	}

	return nil
}

// UpdateFile bumps current_version by exactly 1 and swaps the file
// columns, iff the stored counter still equals expectedVersion
func (r *PostgresDocumentRepository) UpdateFile(ctx context.Context, id string, expectedVersion int, file repositories.FileInfo, updatedAt time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET current_version = $1, file_name = $2, file_size = $3, file_type = $4,
			file_path = $5, updated_at = $6
		WHERE id = $7 AND current_version = $8 AND deleted_at IS NULL
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		expectedVersion+1,
		file.FileName,
		file.FileSize,
		file.FileType,
		file.FilePath,
		updatedAt,
		id,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("update document file: %w", err)
	}

	if result.RowsAffected() == 0 {
		if _, getErr := r.currentStatus(ctx, id); getErr != nil {
			return getErr
		}
		return fmt.Errorf("document %s version advanced concurrently (expected %d): %w",
			id, expectedVersion, domain.ErrPreconditionFailed)
	}

	return nil
}

// UpdateExpiry writes expiry_date and notification_days
func (r *PostgresDocumentRepository) UpdateExpiry(ctx context.Context, id string, expiryDate *time.Time, notificationDays []int, updatedAt time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET expiry_date = $1, notification_days = $2, updated_at = $3
		WHERE id = $4 AND deleted_at IS NULL
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, expiryDate, notificationDays, updatedAt, id)
	if err != nil {
		return fmt.Errorf("update document expiry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// SoftDelete tombstones a document by setting deleted_at
func (r *PostgresDocumentRepository) SoftDelete(ctx context.Context, id string, deletedAt time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, deletedAt, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListExpiryCandidates returns non-terminal documents whose expiry date
// has passed as of now
func (r *PostgresDocumentRepository) ListExpiryCandidates(ctx context.Context, now time.Time) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE deleted_at IS NULL
		  AND expiry_date IS NOT NULL AND expiry_date <= $1
		  AND status NOT IN ($2, $3)
		ORDER BY expiry_date ASC
	`, documentColumns, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, now,
		lifecycle.StatusArchived.String(), lifecycle.StatusExpired.String())
	if err != nil {
		return nil, fmt.Errorf("list expiry candidates: %w", err)
	}
	defer rows.Close()

	return collectDocuments(rows)
}

// ListExpiringWithin returns live documents whose expiry date falls in
// (now, now+days]
func (r *PostgresDocumentRepository) ListExpiringWithin(ctx context.Context, now time.Time, days int) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE deleted_at IS NULL
		  AND expiry_date IS NOT NULL
		  AND expiry_date > $1 AND expiry_date <= $1 + $2 * INTERVAL '1 day'
		  AND status NOT IN ($3, $4)
		ORDER BY expiry_date ASC
	`, documentColumns, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, now, days,
		lifecycle.StatusArchived.String(), lifecycle.StatusExpired.String())
	if err != nil {
		return nil, fmt.Errorf("list expiring documents: %w", err)
	}
	defer rows.Close()

	return collectDocuments(rows)
}

// currentStatus fetches the stored status for precondition-failure
// reporting, mapping a missing row to ErrNotFound
func (r *PostgresDocumentRepository) currentStatus(ctx context.Context, id string) (lifecycle.Status, error) {
	query := fmt.Sprintf(`
		SELECT status FROM %s WHERE id = $1 AND deleted_at IS NULL
	`, r.tables.Documents)

	var raw string
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, id).Scan(&raw); err != nil {
		if IsPgNoRowsError(err) {
			return "", fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return "", fmt.Errorf("get document status: %w", err)
	}

	status, err := lifecycle.ParseStatus(raw)
	if err != nil {
		return "", fmt.Errorf("stored status for document %s: %w", id, err)
	}
	return status, nil
}

// scanDocument scans one document row, assembling the lock from its
// nullable columns and normalizing legacy status serializations.
func scanDocument(row pgx.Row) (*models.Document, error) {
	var doc models.Document
	var rawStatus string
	var lockHolder *string
	var lockAcquiredAt, lockExpiresAt *time.Time

	err := row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.Description,
		&doc.Category,
		&rawStatus,
		&doc.CurrentVersion,
		&doc.FileName,
		&doc.FileSize,
		&doc.FileType,
		&doc.FilePath,
		&doc.Tags,
		&doc.ExpiryDate,
		&doc.NotificationDays,
		&lockHolder,
		&lockAcquiredAt,
		&lockExpiresAt,
		&doc.CreatedBy,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	status, err := lifecycle.ParseStatus(rawStatus)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", doc.ID, err)
	}
	doc.Status = status

	if lockHolder != nil && lockAcquiredAt != nil {
		doc.Lock = &models.Lock{
			HolderID:   *lockHolder,
			AcquiredAt: *lockAcquiredAt,
			ExpiresAt:  lockExpiresAt,
		}
	}

	return &doc, nil
}

// collectDocuments drains rows into a slice
func collectDocuments(rows pgx.Rows) ([]models.Document, error) {
	var documents []models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		documents = append(documents, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	// Return empty slice instead of nil
	if documents == nil {
		documents = []models.Document{}
	}

	return documents, nil
}
