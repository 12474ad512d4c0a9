package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"doccontrol/internal/domain/models"
	"doccontrol/internal/domain/repositories"
)

// PostgresEventRepository implements the EventRepository interface
type PostgresEventRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewEventRepository creates a new event repository
func NewEventRepository(config *RepositoryConfig) repositories.EventRepository {
	return &PostgresEventRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Append records an event
func (r *PostgresEventRepository) Append(ctx context.Context, event *models.Event) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, document_id, kind, actor, from_status, to_status, comment, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, r.tables.Events)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		event.ID,
		event.DocumentID,
		string(event.Kind),
		event.Actor,
		event.FromStatus,
		event.ToStatus,
		event.Comment,
		event.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}

	return nil
}

// ListByDocument returns a document's events, newest first
func (r *PostgresEventRepository) ListByDocument(ctx context.Context, documentID string, limit int) ([]models.Event, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, kind, actor, from_status, to_status, comment, occurred_at
		FROM %s
		WHERE document_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2
	`, r.tables.Events)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID, limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		var kind string
		err := rows.Scan(
			&event.ID,
			&event.DocumentID,
			&kind,
			&event.Actor,
			&event.FromStatus,
			&event.ToStatus,
			&event.Comment,
			&event.OccurredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		event.Kind = models.EventKind(kind)
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	// Return empty slice instead of nil
	if events == nil {
		events = []models.Event{}
	}

	return events, nil
}
