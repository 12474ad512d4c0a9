package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"doccontrol/internal/domain"
	"doccontrol/internal/domain/lifecycle"
	"doccontrol/internal/domain/models"
	"doccontrol/internal/domain/repositories"
	"doccontrol/internal/domain/services"
	"doccontrol/internal/service/expiry"
)

const (
	maxTitleLength    = 255
	maxCategoryLength = 100
	defaultEventLimit = 50
)

// DocumentServiceConfig carries the tunables the aggregate needs.
type DocumentServiceConfig struct {
	SignedURLTTL        time.Duration
	DefaultReminderDays []int
}

// documentService implements the DocumentService interface. It composes
// the lifecycle state machine, the lock manager, the version ledger and
// the expiry scheduler: every mutation consults the lock state and the
// transition table before anything is written, and multi-row writes run
// as one transaction.
type documentService struct {
	docRepo     repositories.DocumentRepository
	versionRepo repositories.VersionRepository
	eventRepo   repositories.EventRepository
	access      services.AccessService
	locks       *LockManager
	txManager   repositories.TransactionManager
	blobs       services.BlobStore
	clock       services.Clock
	sink        services.NotificationSink
	cfg         DocumentServiceConfig
	logger      *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	versionRepo repositories.VersionRepository,
	eventRepo repositories.EventRepository,
	access services.AccessService,
	locks *LockManager,
	txManager repositories.TransactionManager,
	blobs services.BlobStore,
	clock services.Clock,
	sink services.NotificationSink,
	cfg DocumentServiceConfig,
	logger *slog.Logger,
) services.DocumentService {
	if len(cfg.DefaultReminderDays) == 0 {
		cfg.DefaultReminderDays = expiry.DefaultReminderDays
	}
	return &documentService{
		docRepo:     docRepo,
		versionRepo: versionRepo,
		eventRepo:   eventRepo,
		access:      access,
		locks:       locks,
		txManager:   txManager,
		blobs:       blobs,
		clock:       clock,
		sink:        sink,
		cfg:         cfg,
		logger:      logger,
	}
}

// Upload creates a document at Draft/version 1 with one ledger row. The
// blob write completes before any database state is touched, so a failed
// upload never leaves an orphaned ledger entry.
func (s *documentService) Upload(ctx context.Context, req *services.UploadRequest) (*models.Document, error) {
	if err := validateUpload(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := s.clock.Now()
	docID := uuid.NewString()
	locator := blobKey(docID, 1, req.FileName)

	if err := s.putBlob(ctx, locator, req.Content, req.FileSize, req.FileType); err != nil {
		return nil, err
	}

	doc := &models.Document{
		ID:               docID,
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		Category:         strings.TrimSpace(req.Category),
		Status:           lifecycle.StatusDraft,
		CurrentVersion:   1,
		FileName:         req.FileName,
		FileSize:         req.FileSize,
		FileType:         req.FileType,
		FilePath:         locator,
		Tags:             req.Tags,
		ExpiryDate:       req.ExpiryDate,
		NotificationDays: expiry.Schedule(req.NotificationDays, nil),
		CreatedBy:        req.CallerID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	version := &models.DocumentVersion{
		ID:            uuid.NewString(),
		DocumentID:    docID,
		VersionNumber: 1,
		FileName:      req.FileName,
		FileSize:      req.FileSize,
		FileType:      req.FileType,
		BlobLocator:   locator,
		ChangeNotes:   "Initial upload",
		CreatedBy:     req.CallerID,
		CreatedAt:     now,
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.docRepo.Create(txCtx, doc); err != nil {
			return err
		}
		return s.versionRepo.Append(txCtx, version)
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, &models.Event{
		DocumentID: docID,
		Kind:       models.EventUploaded,
		Actor:      req.CallerID,
		ToStatus:   doc.Status.String(),
		OccurredAt: now,
	})

	s.logger.Info("document uploaded",
		"id", docID,
		"title", doc.Title,
		"category", doc.Category,
		"file_size", doc.FileSize,
	)

	return doc, nil
}

// Get retrieves a document. Expiry is a derived fact: a read of an
// overdue document reclassifies it before returning.
func (s *documentService) Get(ctx context.Context, callerID, documentID string) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireCapability(ctx, callerID, doc, lifecycle.CapabilityRead); err != nil {
		return nil, err
	}

	return s.refreshExpiry(ctx, doc)
}

// List returns documents matching the filter. The document register is
// visible to every authenticated user; content access is enforced on Get
// and DownloadURL.
func (s *documentService) List(ctx context.Context, callerID string, filter *models.DocumentFilter) ([]models.Document, error) {
	if filter == nil {
		filter = &models.DocumentFilter{}
	}
	return s.docRepo.List(ctx, filter)
}

// EditMetadata patches title/description/category/tags
func (s *documentService) EditMetadata(ctx context.Context, callerID, documentID string, req *services.EditMetadataRequest) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireCapability(ctx, callerID, doc, lifecycle.CapabilityWrite); err != nil {
		return nil, err
	}
	if err := s.locks.GuardWrite(doc, callerID); err != nil {
		return nil, err
	}

	// Published, archived and expired documents are read-only for metadata
	if doc.Status.Terminal() || doc.Status == lifecycle.StatusPublished {
		return nil, &domain.PreconditionError{
			DocumentID:     documentID,
			Operation:      "edit metadata",
			ExpectedStatus: editableStatuses(),
			ActualStatus:   doc.Status.String(),
		}
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrValidation)
		}
		doc.Title = title
	}
	if req.Description != nil {
		doc.Description = *req.Description
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			return nil, fmt.Errorf("%w: category cannot be empty", domain.ErrValidation)
		}
		doc.Category = category
	}
	if req.Tags != nil {
		doc.Tags = dedupeTags(req.Tags)
	}
	doc.UpdatedAt = s.clock.Now()

	if err := s.docRepo.UpdateMetadata(ctx, doc); err != nil {
		return nil, err
	}

	s.emit(ctx, &models.Event{
		DocumentID: documentID,
		Kind:       models.EventMetadataEdited,
		Actor:      callerID,
		OccurredAt: doc.UpdatedAt,
	})

	return doc, nil
}

// Delete tombstones a document. Version history is retained.
func (s *documentService) Delete(ctx context.Context, callerID, documentID string) error {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	if err := s.access.RequireCapability(ctx, callerID, doc, lifecycle.CapabilityAdmin); err != nil {
		return err
	}
	if err := s.locks.GuardWrite(doc, callerID); err != nil {
		return err
	}

	now := s.clock.Now()
	if err := s.docRepo.SoftDelete(ctx, documentID, now); err != nil {
		return err
	}

	s.emit(ctx, &models.Event{
		DocumentID: documentID,
		Kind:       models.EventDeleted,
		Actor:      callerID,
		FromStatus: doc.Status.String(),
		OccurredAt: now,
	})

	s.logger.Info("document deleted", "id", documentID, "deleted_by", callerID)
	return nil
}

// SubmitForApproval moves Draft -> PendingApproval
func (s *documentService) SubmitForApproval(ctx context.Context, callerID, documentID string) (*models.Document, error) {
	return s.transition(ctx, callerID, documentID, lifecycle.TriggerSubmit, "")
}

// Approve moves PendingApproval -> Approved. A stale approve fails with a
// precondition error, never a silent retry.
func (s *documentService) Approve(ctx context.Context, callerID, documentID, comment string) (*models.Document, error) {
	return s.transition(ctx, callerID, documentID, lifecycle.TriggerApprove, comment)
}

// Reject moves PendingApproval -> Rejected. The reason is mandatory.
func (s *documentService) Reject(ctx context.Context, callerID, documentID, reason string) (*models.Document, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", domain.ErrValidation)
	}
	return s.transition(ctx, callerID, documentID, lifecycle.TriggerReject, reason)
}

// ReturnToDraft moves Rejected -> Draft for re-submission
func (s *documentService) ReturnToDraft(ctx context.Context, callerID, documentID string) (*models.Document, error) {
	return s.transition(ctx, callerID, documentID, lifecycle.TriggerReturnToDraft, "")
}

// Publish moves Approved -> Published
func (s *documentService) Publish(ctx context.Context, callerID, documentID string) (*models.Document, error) {
	return s.transition(ctx, callerID, documentID, lifecycle.TriggerPublish, "")
}

// Archive retires a document
func (s *documentService) Archive(ctx context.Context, callerID, documentID string) (*models.Document, error) {
	return s.transition(ctx, callerID, documentID, lifecycle.TriggerArchive, "")
}

// transition applies one lifecycle trigger as a single compare-and-swap.
func (s *documentService) transition(ctx context.Context, callerID, documentID string, trigger lifecycle.Trigger, comment string) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	next, capability, ok := lifecycle.Next(doc.Status, trigger)
	if !ok {
		return nil, &domain.PreconditionError{
			DocumentID:     documentID,
			Operation:      string(trigger),
			ExpectedStatus: joinStatuses(lifecycle.SourceStatuses(trigger)),
			ActualStatus:   doc.Status.String(),
		}
	}

	if err := s.access.RequireCapability(ctx, callerID, doc, capability); err != nil {
		return nil, err
	}
	if err := s.locks.GuardWrite(doc, callerID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := s.docRepo.UpdateStatus(ctx, documentID, doc.Status, next, now); err != nil {
		return nil, err
	}

	s.emit(ctx, &models.Event{
		DocumentID: documentID,
		Kind:       eventKindFor(trigger),
		Actor:      callerID,
		FromStatus: doc.Status.String(),
		ToStatus:   next.String(),
		Comment:    comment,
		OccurredAt: now,
	})

	s.logger.Info("document transitioned",
		"id", documentID,
		"from", doc.Status,
		"to", next,
		"actor", callerID,
	)

	doc.Status = next
	doc.UpdatedAt = now
	return doc, nil
}

// Checkout acquires exclusive edit rights
func (s *documentService) Checkout(ctx context.Context, callerID, documentID string) (*models.Lock, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireCapability(ctx, callerID, doc, lifecycle.CapabilityWrite); err != nil {
		return nil, err
	}

	held := doc.Lock != nil && doc.Lock.HolderID == callerID
	lock, err := s.locks.Checkout(ctx, doc, callerID)
	if err != nil {
		return nil, err
	}

	if !held {
		s.emit(ctx, &models.Event{
			DocumentID: documentID,
			Kind:       models.EventCheckedOut,
			Actor:      callerID,
			OccurredAt: lock.AcquiredAt,
		})
	}

	return lock, nil
}

// Checkin releases the caller's lock. With CreateNewVersion the new
// revision, the version counter bump and the lock release commit as a
// single transaction.
func (s *documentService) Checkin(ctx context.Context, callerID, documentID string, req *services.CheckinRequest) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireCapability(ctx, callerID, doc, lifecycle.CapabilityWrite); err != nil {
		return nil, err
	}
	if doc.Lock == nil || doc.Lock.HolderID != callerID {
		return nil, fmt.Errorf("document %s: %w", documentID, domain.ErrNotLockedByCaller)
	}

	now := s.clock.Now()

	if !req.CreateNewVersion {
		if err := s.locks.Release(ctx, doc, callerID); err != nil {
			return nil, err
		}
		doc.Lock = nil
		doc.UpdatedAt = now

		s.emit(ctx, &models.Event{
			DocumentID: documentID,
			Kind:       models.EventCheckedIn,
			Actor:      callerID,
			Comment:    "no new version",
			OccurredAt: now,
		})
		return doc, nil
	}

	if req.FileName == "" || req.Content == nil {
		return nil, fmt.Errorf("%w: file name and content are required for a new version", domain.ErrValidation)
	}

	nextVersion := doc.CurrentVersion + 1
	locator := blobKey(documentID, nextVersion, req.FileName)

	if err := s.putBlob(ctx, locator, req.Content, req.FileSize, req.FileType); err != nil {
		return nil, err
	}

	version := &models.DocumentVersion{
		ID:            uuid.NewString(),
		DocumentID:    documentID,
		VersionNumber: nextVersion,
		FileName:      req.FileName,
		FileSize:      req.FileSize,
		FileType:      req.FileType,
		BlobLocator:   locator,
		ChangeNotes:   req.ChangeNotes,
		CreatedBy:     callerID,
		CreatedAt:     now,
	}
	file := repositories.FileInfo{
		FileName: req.FileName,
		FileSize: req.FileSize,
		FileType: req.FileType,
		FilePath: locator,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.versionRepo.Append(txCtx, version); err != nil {
			return err
		}
		if err := s.docRepo.UpdateFile(txCtx, documentID, doc.CurrentVersion, file, now); err != nil {
			return err
		}
		return s.locks.Release(txCtx, doc, callerID)
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, &models.Event{
		DocumentID: documentID,
		Kind:       models.EventCheckedIn,
		Actor:      callerID,
		Comment:    fmt.Sprintf("version %d", nextVersion),
		OccurredAt: now,
	})
	s.emit(ctx, &models.Event{
		DocumentID: documentID,
		Kind:       models.EventVersionCreated,
		Actor:      callerID,
		Comment:    version.ChangeNotes,
		OccurredAt: now,
	})

	s.logger.Info("document checked in",
		"id", documentID,
		"version", nextVersion,
		"actor", callerID,
	)

	doc.Lock = nil
	doc.CurrentVersion = nextVersion
	doc.FileName = file.FileName
	doc.FileSize = file.FileSize
	doc.FileType = file.FileType
	doc.FilePath = file.FilePath
	doc.UpdatedAt = now
	return doc, nil
}

// ForceUnlock clears another user's lock. Admin only.
func (s *documentService) ForceUnlock(ctx context.Context, callerID, documentID string) error {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	if err := s.access.RequireCapability(ctx, callerID, doc, lifecycle.CapabilityAdmin); err != nil {
		return err
	}
	if doc.Lock == nil {
		return nil
	}

	holder := doc.Lock.HolderID
	if err := s.locks.ForceClear(ctx, doc); err != nil {
		return err
	}

	s.emit(ctx, &models.Event{
		DocumentID: documentID,
		Kind:       models.EventForceUnlocked,
		Actor:      callerID,
		Comment:    fmt.Sprintf("lock held by %s cleared", holder),
		OccurredAt: s.clock.Now(),
	})

	s.logger.Warn("lock force-cleared",
		"id", documentID,
		"previous_holder", holder,
		"actor", callerID,
	)
	return nil
}

// ListVersions returns the ledger, ascending by version number
func (s *documentService) ListVersions(ctx context.Context, callerID, documentID string) ([]models.DocumentVersion, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireCapability(ctx, callerID, doc, lifecycle.CapabilityRead); err != nil {
		return nil, err
	}
	return s.versionRepo.ListByDocument(ctx, documentID)
}

// RevertToVersion appends a new version whose blob locator is copied from
// the target version. This is the only way content moves backward;
// history is never truncated.
func (s *documentService) RevertToVersion(ctx context.Context, callerID, documentID string, versionNumber int) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireCapability(ctx, callerID, doc, lifecycle.CapabilityWrite); err != nil {
		return nil, err
	}
	if err := s.locks.GuardWrite(doc, callerID); err != nil {
		return nil, err
	}

	target, err := s.versionRepo.GetByNumber(ctx, documentID, versionNumber)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	nextVersion := doc.CurrentVersion + 1
	version := &models.DocumentVersion{
		ID:            uuid.NewString(),
		DocumentID:    documentID,
		VersionNumber: nextVersion,
		FileName:      target.FileName,
		FileSize:      target.FileSize,
		FileType:      target.FileType,
		BlobLocator:   target.BlobLocator,
		ChangeNotes:   fmt.Sprintf("Reverted to version %d", versionNumber),
		CreatedBy:     callerID,
		CreatedAt:     now,
	}
	file := repositories.FileInfo{
		FileName: target.FileName,
		FileSize: target.FileSize,
		FileType: target.FileType,
		FilePath: target.BlobLocator,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.versionRepo.Append(txCtx, version); err != nil {
			return err
		}
		return s.docRepo.UpdateFile(txCtx, documentID, doc.CurrentVersion, file, now)
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, &models.Event{
		DocumentID: documentID,
		Kind:       models.EventReverted,
		Actor:      callerID,
		Comment:    version.ChangeNotes,
		OccurredAt: now,
	})

	doc.CurrentVersion = nextVersion
	doc.FileName = file.FileName
	doc.FileSize = file.FileSize
	doc.FileType = file.FileType
	doc.FilePath = file.FilePath
	doc.UpdatedAt = now
	return doc, nil
}

// SetExpirySettings updates expiry date and reminder thresholds
func (s *documentService) SetExpirySettings(ctx context.Context, callerID, documentID string, req *services.ExpirySettingsRequest) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireCapability(ctx, callerID, doc, lifecycle.CapabilityWrite); err != nil {
		return nil, err
	}
	if err := s.locks.GuardWrite(doc, callerID); err != nil {
		return nil, err
	}

	if len(req.NotificationDays) > 0 && req.ExpiryDate == nil {
		return nil, fmt.Errorf("%w: expiry date is required when notification days are set", domain.ErrValidation)
	}
	for _, d := range req.NotificationDays {
		if d <= 0 {
			return nil, fmt.Errorf("%w: notification days must be positive, got %d", domain.ErrValidation, d)
		}
	}

	days := expiry.Schedule(req.NotificationDays, nil)
	now := s.clock.Now()
	if err := s.docRepo.UpdateExpiry(ctx, documentID, req.ExpiryDate, days, now); err != nil {
		return nil, err
	}

	s.emit(ctx, &models.Event{
		DocumentID: documentID,
		Kind:       models.EventExpiryUpdated,
		Actor:      callerID,
		OccurredAt: now,
	})

	doc.ExpiryDate = req.ExpiryDate
	doc.NotificationDays = days
	doc.UpdatedAt = now
	return doc, nil
}

// DownloadURL issues a time-limited signed read URL for the current blob
func (s *documentService) DownloadURL(ctx context.Context, callerID, documentID string) (string, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return "", err
	}
	if err := s.access.RequireCapability(ctx, callerID, doc, lifecycle.CapabilityRead); err != nil {
		return "", err
	}

	url, err := s.blobs.SignedURL(ctx, doc.FilePath, s.cfg.SignedURLTTL)
	if err != nil {
		return "", fmt.Errorf("sign download url for document %s: %w", documentID, err)
	}
	return url, nil
}

// ListEvents returns the document's activity log, newest first
func (s *documentService) ListEvents(ctx context.Context, callerID, documentID string, limit int) ([]models.Event, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireCapability(ctx, callerID, doc, lifecycle.CapabilityRead); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultEventLimit
	}
	return s.eventRepo.ListByDocument(ctx, documentID, limit)
}

// ListExpiring returns live documents expiring within the given days
func (s *documentService) ListExpiring(ctx context.Context, callerID string, days int) ([]models.Document, error) {
	if days <= 0 {
		days = s.cfg.DefaultReminderDays[0]
	}
	return s.docRepo.ListExpiringWithin(ctx, s.clock.Now(), days)
}

// refreshExpiry lazily reclassifies an overdue document as Expired.
// Re-evaluating an already-expired document is a no-op.
func (s *documentService) refreshExpiry(ctx context.Context, doc *models.Document) (*models.Document, error) {
	if doc.ExpiryDate == nil || !lifecycle.CanExpire(doc.Status) {
		return doc, nil
	}

	now := s.clock.Now()
	if !expiry.IsExpired(now, *doc.ExpiryDate) {
		return doc, nil
	}

	if err := s.docRepo.UpdateStatus(ctx, doc.ID, doc.Status, lifecycle.StatusExpired, now); err != nil {
		// Lost the race: somebody transitioned the document first.
		// Return the fresh state instead of guessing.
		if errors.Is(err, domain.ErrPreconditionFailed) {
			return s.docRepo.GetByID(ctx, doc.ID)
		}
		return nil, err
	}

	s.emit(ctx, &models.Event{
		DocumentID: doc.ID,
		Kind:       models.EventExpired,
		FromStatus: doc.Status.String(),
		ToStatus:   lifecycle.StatusExpired.String(),
		OccurredAt: now,
	})

	doc.Status = lifecycle.StatusExpired
	doc.UpdatedAt = now
	return doc, nil
}

// putBlob writes content to the blob store before any document state is
// mutated. Storage failures surface as ErrStorageUnavailable.
func (s *documentService) putBlob(ctx context.Context, locator string, content io.Reader, size int64, contentType string) error {
	if err := s.blobs.Put(ctx, locator, content, size, contentType); err != nil {
		return fmt.Errorf("store blob %s: %w", locator, err)
	}
	return nil
}

// emit assigns the event an ID and forwards it to the sink
func (s *documentService) emit(ctx context.Context, event *models.Event) {
	event.ID = uuid.NewString()
	s.sink.Emit(ctx, event)
}

// validateUpload validates a document upload request
func validateUpload(req *services.UploadRequest) error {
	if req.Content == nil {
		return fmt.Errorf("file content is required")
	}
	if len(req.NotificationDays) > 0 && req.ExpiryDate == nil {
		return fmt.Errorf("expiry date is required when notification days are set")
	}

	return validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, maxTitleLength)),
		validation.Field(&req.Category, validation.Required, validation.Length(1, maxCategoryLength)),
		validation.Field(&req.FileName, validation.Required),
		validation.Field(&req.FileSize, validation.Min(int64(0))),
	)
}

func eventKindFor(trigger lifecycle.Trigger) models.EventKind {
	switch trigger {
	case lifecycle.TriggerSubmit:
		return models.EventSubmitted
	case lifecycle.TriggerApprove:
		return models.EventApproved
	case lifecycle.TriggerReject:
		return models.EventRejected
	case lifecycle.TriggerReturnToDraft:
		return models.EventReturnedDraft
	case lifecycle.TriggerPublish:
		return models.EventPublished
	case lifecycle.TriggerArchive:
		return models.EventArchived
	}
	return models.EventKind(trigger)
}

func joinStatuses(statuses []lifecycle.Status) string {
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = s.String()
	}
	return strings.Join(parts, "|")
}

func editableStatuses() string {
	return joinStatuses([]lifecycle.Status{
		lifecycle.StatusDraft,
		lifecycle.StatusPendingApproval,
		lifecycle.StatusApproved,
		lifecycle.StatusRejected,
	})
}

func dedupeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	var out []string
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

func blobKey(documentID string, version int, fileName string) string {
	return fmt.Sprintf("documents/%s/v%d/%s", documentID, version, fileName)
}
