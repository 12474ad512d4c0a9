package notify

import (
	"context"
	"log/slog"

	"doccontrol/internal/domain/models"
	"doccontrol/internal/domain/repositories"
	"doccontrol/internal/domain/services"
)

// LogSink writes every event to the structured log. Always safe to use;
// it never fails.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger.With("component", "events")}
}

func (s *LogSink) Emit(ctx context.Context, event *models.Event) {
	s.logger.Info("document event",
		"document_id", event.DocumentID,
		"kind", event.Kind,
		"actor", event.Actor,
		"from", event.FromStatus,
		"to", event.ToStatus,
	)
}

// RecordingSink persists events to the activity log. Persistence is
// best-effort: a failed append is logged and dropped, it never fails the
// operation that produced the event.
type RecordingSink struct {
	events repositories.EventRepository
	logger *slog.Logger
}

func NewRecordingSink(events repositories.EventRepository, logger *slog.Logger) *RecordingSink {
	return &RecordingSink{events: events, logger: logger.With("component", "events")}
}

func (s *RecordingSink) Emit(ctx context.Context, event *models.Event) {
	if err := s.events.Append(ctx, event); err != nil {
		s.logger.Warn("event append failed",
			"document_id", event.DocumentID,
			"kind", event.Kind,
			"error", err,
		)
	}
}

// MultiSink fans an event out to every configured sink in order.
type MultiSink []services.NotificationSink

func (m MultiSink) Emit(ctx context.Context, event *models.Event) {
	for _, sink := range m {
		sink.Emit(ctx, event)
	}
}
