package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"doccontrol/internal/domain"
	"doccontrol/internal/domain/lifecycle"
	"doccontrol/internal/domain/models"
	"doccontrol/internal/domain/repositories"
	"doccontrol/internal/domain/services"
)

// accessService implements the AccessService interface
type accessService struct {
	accessRepo repositories.AccessRepository
	sink       services.NotificationSink
	clock      services.Clock
	logger     *slog.Logger
}

// NewAccessService creates a new access service
func NewAccessService(
	accessRepo repositories.AccessRepository,
	sink services.NotificationSink,
	clock services.Clock,
	logger *slog.Logger,
) services.AccessService {
	return &accessService{
		accessRepo: accessRepo,
		sink:       sink,
		clock:      clock,
		logger:     logger,
	}
}

// HasCapability reports whether the caller holds the capability on the
// document. The creator holds implicit admin; everyone else needs an
// explicit grant.
func (s *accessService) HasCapability(ctx context.Context, callerID string, doc *models.Document, capability lifecycle.Capability) (bool, error) {
	if callerID == "" {
		return false, nil
	}
	if doc.CreatedBy == callerID {
		return true, nil
	}

	grant, err := s.accessRepo.Get(ctx, doc.ID, callerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return grant.PermissionLevel.Grants(capability), nil
}

// RequireCapability returns ErrPermissionDenied when the caller lacks the
// capability
func (s *accessService) RequireCapability(ctx context.Context, callerID string, doc *models.Document, capability lifecycle.Capability) error {
	ok, err := s.HasCapability(ctx, callerID, doc, capability)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user %s lacks %s on document %s: %w",
			callerID, capability, doc.ID, domain.ErrPermissionDenied)
	}
	return nil
}

// Grant upserts an access grant
func (s *accessService) Grant(ctx context.Context, callerID string, doc *models.Document, userID string, level models.PermissionLevel) (*models.AccessGrant, error) {
	if err := s.RequireCapability(ctx, callerID, doc, lifecycle.CapabilityAdmin); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}

	grant := &models.AccessGrant{
		DocumentID:      doc.ID,
		UserID:          userID,
		PermissionLevel: level,
		GrantedBy:       callerID,
		GrantedAt:       s.clock.Now(),
	}

	if err := s.accessRepo.Upsert(ctx, grant); err != nil {
		return nil, err
	}

	s.sink.Emit(ctx, &models.Event{
		ID:         uuid.NewString(),
		DocumentID: doc.ID,
		Kind:       models.EventAccessGranted,
		Actor:      callerID,
		Comment:    fmt.Sprintf("%s granted %s", userID, level),
		OccurredAt: grant.GrantedAt,
	})

	s.logger.Info("access granted",
		"document_id", doc.ID,
		"user_id", userID,
		"level", level,
		"granted_by", callerID,
	)

	return grant, nil
}

// Revoke removes a grant
func (s *accessService) Revoke(ctx context.Context, callerID string, doc *models.Document, userID string) error {
	if err := s.RequireCapability(ctx, callerID, doc, lifecycle.CapabilityAdmin); err != nil {
		return err
	}

	if err := s.accessRepo.Delete(ctx, doc.ID, userID); err != nil {
		return err
	}

	s.sink.Emit(ctx, &models.Event{
		ID:         uuid.NewString(),
		DocumentID: doc.ID,
		Kind:       models.EventAccessRevoked,
		Actor:      callerID,
		Comment:    fmt.Sprintf("revoked access for %s", userID),
		OccurredAt: s.clock.Now(),
	})

	s.logger.Info("access revoked",
		"document_id", doc.ID,
		"user_id", userID,
		"revoked_by", callerID,
	)

	return nil
}

// ListGrants returns all grants on the document
func (s *accessService) ListGrants(ctx context.Context, callerID string, doc *models.Document) ([]models.AccessGrant, error) {
	if err := s.RequireCapability(ctx, callerID, doc, lifecycle.CapabilityRead); err != nil {
		return nil, err
	}
	return s.accessRepo.ListByDocument(ctx, doc.ID)
}
