package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"doccontrol/internal/domain"
	"doccontrol/internal/domain/lifecycle"
	"doccontrol/internal/domain/models"
	"doccontrol/internal/domain/services"
	"doccontrol/internal/notify"
)

const (
	creatorID  = "11111111-1111-1111-1111-111111111111"
	approverID = "22222222-2222-2222-2222-222222222222"
	readerID   = "33333333-3333-3333-3333-333333333333"
	writerID   = "44444444-4444-4444-4444-444444444444"
	strangerID = "55555555-5555-5555-5555-555555555555"
)

type testEnv struct {
	docs     *fakeDocRepo
	versions *fakeVersionRepo
	access   *fakeAccessRepo
	events   *fakeEventRepo
	blobs    *fakeBlobStore
	clock    *fakeClock
	locks    *LockManager
	svc      services.DocumentService
	accSvc   services.AccessService
}

func newTestEnv(t *testing.T, lease time.Duration) *testEnv {
	t.Helper()

	logger := testLogger()
	docs := newFakeDocRepo()
	versions := newFakeVersionRepo()
	access := newFakeAccessRepo()
	events := &fakeEventRepo{}
	blobs := newFakeBlobStore()
	clock := &fakeClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	sink := notify.NewRecordingSink(events, logger)

	accSvc := NewAccessService(access, sink, clock, logger)
	locks := NewLockManager(docs, clock, lease, logger)
	svc := NewDocumentService(
		docs, versions, events,
		accSvc, locks, fakeTxManager{},
		blobs, clock, sink,
		DocumentServiceConfig{SignedURLTTL: 15 * time.Minute},
		logger,
	)

	return &testEnv{
		docs:     docs,
		versions: versions,
		access:   access,
		events:   events,
		blobs:    blobs,
		clock:    clock,
		locks:    locks,
		svc:      svc,
		accSvc:   accSvc,
	}
}

func (e *testEnv) upload(t *testing.T) *models.Document {
	t.Helper()
	doc, err := e.svc.Upload(context.Background(), &services.UploadRequest{
		CallerID: creatorID,
		Title:    "Allergen Control Plan",
		Category: "food-safety",
		Tags:     []string{"haccp", "allergens"},
		FileName: "allergen-plan.pdf",
		FileType: "application/pdf",
		FileSize: 12,
		Content:  strings.NewReader("pdf contents"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	return doc
}

func (e *testEnv) grant(t *testing.T, docID, userID string, level models.PermissionLevel) {
	t.Helper()
	doc, err := e.docs.GetByID(context.Background(), docID)
	if err != nil {
		t.Fatalf("get document for grant: %v", err)
	}
	if _, err := e.accSvc.Grant(context.Background(), creatorID, doc, userID, level); err != nil {
		t.Fatalf("grant %s to %s: %v", level, userID, err)
	}
}

func TestUploadCreatesDraftAtVersionOne(t *testing.T) {
	env := newTestEnv(t, 0)
	doc := env.upload(t)

	if doc.Status != lifecycle.StatusDraft {
		t.Errorf("status = %v, want draft", doc.Status)
	}
	if doc.CurrentVersion != 1 {
		t.Errorf("current version = %d, want 1", doc.CurrentVersion)
	}

	versions, err := env.versions.ListByDocument(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("list versions: %v", err)
	}
	if len(versions) != 1 {
		t.Fatalf("ledger rows = %d, want 1", len(versions))
	}
	if versions[0].VersionNumber != 1 || versions[0].BlobLocator != doc.FilePath {
		t.Errorf("version row = %+v, want number 1 pointing at %s", versions[0], doc.FilePath)
	}
	if _, ok := env.blobs.objects[doc.FilePath]; !ok {
		t.Errorf("blob not stored at %s", doc.FilePath)
	}

	kinds := env.events.kinds(doc.ID)
	if len(kinds) != 1 || kinds[0] != models.EventUploaded {
		t.Errorf("events = %v, want [uploaded]", kinds)
	}
}

func TestUploadValidation(t *testing.T) {
	env := newTestEnv(t, 0)
	expiry := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		req  services.UploadRequest
	}{
		{
			name: "missing title",
			req: services.UploadRequest{
				CallerID: creatorID, Category: "food-safety",
				FileName: "f.pdf", Content: strings.NewReader("x"),
			},
		},
		{
			name: "missing category",
			req: services.UploadRequest{
				CallerID: creatorID, Title: "Plan",
				FileName: "f.pdf", Content: strings.NewReader("x"),
			},
		},
		{
			name: "missing content",
			req: services.UploadRequest{
				CallerID: creatorID, Title: "Plan", Category: "food-safety",
				FileName: "f.pdf",
			},
		},
		{
			name: "notification days without expiry date",
			req: services.UploadRequest{
				CallerID: creatorID, Title: "Plan", Category: "food-safety",
				FileName: "f.pdf", Content: strings.NewReader("x"),
				NotificationDays: []int{30},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Upload(context.Background(), &tt.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("Upload() error = %v, want ErrValidation", err)
			}
		})
	}

	// Control: the same request with an expiry date succeeds
	_, err := env.svc.Upload(context.Background(), &services.UploadRequest{
		CallerID: creatorID, Title: "Plan", Category: "food-safety",
		FileName: "f.pdf", Content: strings.NewReader("x"),
		ExpiryDate: &expiry, NotificationDays: []int{30},
	})
	if err != nil {
		t.Errorf("Upload() with expiry date: %v", err)
	}
}

func TestUploadBlobFailureLeavesNoState(t *testing.T) {
	env := newTestEnv(t, 0)
	env.blobs.failPut = true

	_, err := env.svc.Upload(context.Background(), &services.UploadRequest{
		CallerID: creatorID, Title: "Plan", Category: "food-safety",
		FileName: "f.pdf", Content: strings.NewReader("x"),
	})
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("Upload() error = %v, want ErrStorageUnavailable", err)
	}

	docs, _ := env.docs.List(context.Background(), &models.DocumentFilter{})
	if len(docs) != 0 {
		t.Errorf("documents created = %d, want 0", len(docs))
	}
}

func TestApprovalWorkflow(t *testing.T) {
	env := newTestEnv(t, 0)
	doc := env.upload(t)
	env.grant(t, doc.ID, approverID, models.PermissionAdmin)

	ctx := context.Background()

	doc2, err := env.svc.SubmitForApproval(ctx, creatorID, doc.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if doc2.Status != lifecycle.StatusPendingApproval {
		t.Fatalf("status after submit = %v", doc2.Status)
	}

	doc3, err := env.svc.Approve(ctx, approverID, doc.ID, "looks complete")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if doc3.Status != lifecycle.StatusApproved {
		t.Fatalf("status after approve = %v", doc3.Status)
	}

	doc4, err := env.svc.Publish(ctx, approverID, doc.ID)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if doc4.Status != lifecycle.StatusPublished {
		t.Fatalf("status after publish = %v", doc4.Status)
	}

	kinds := env.events.kinds(doc.ID)
	want := []models.EventKind{
		models.EventUploaded, models.EventSubmitted,
		models.EventApproved, models.EventPublished,
	}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("events[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestStaleApproveFailsPrecondition(t *testing.T) {
	env := newTestEnv(t, 0)
	doc := env.upload(t)
	env.grant(t, doc.ID, approverID, models.PermissionAdmin)

	ctx := context.Background()
	if _, err := env.svc.SubmitForApproval(ctx, creatorID, doc.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := env.svc.Approve(ctx, approverID, doc.ID, ""); err != nil {
		t.Fatalf("first approve: %v", err)
	}

	// Second approver raced and lost: the document is no longer pending
	_, err := env.svc.Approve(ctx, creatorID, doc.ID, "")
	if !errors.Is(err, domain.ErrPreconditionFailed) {
		t.Fatalf("stale approve error = %v, want ErrPreconditionFailed", err)
	}

	var preErr *domain.PreconditionError
	if !errors.As(err, &preErr) {
		t.Fatalf("error %v does not carry PreconditionError detail", err)
	}
	if preErr.ActualStatus != lifecycle.StatusApproved.String() {
		t.Errorf("actual status = %s, want approved", preErr.ActualStatus)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	env := newTestEnv(t, 0)
	doc := env.upload(t)
	env.grant(t, doc.ID, approverID, models.PermissionAdmin)

	ctx := context.Background()
	if _, err := env.svc.SubmitForApproval(ctx, creatorID, doc.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := env.svc.Reject(ctx, approverID, doc.ID, "   "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("reject without reason error = %v, want ErrValidation", err)
	}

	doc2, err := env.svc.Reject(ctx, approverID, doc.ID, "missing allergen matrix")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if doc2.Status != lifecycle.StatusRejected {
		t.Fatalf("status after reject = %v", doc2.Status)
	}

	// Rework path goes through Draft, never straight back to approval
	doc3, err := env.svc.ReturnToDraft(ctx, creatorID, doc.ID)
	if err != nil {
		t.Fatalf("return to draft: %v", err)
	}
	if doc3.Status != lifecycle.StatusDraft {
		t.Fatalf("status after return = %v", doc3.Status)
	}
}

func TestCapabilityEnforcement(t *testing.T) {
	env := newTestEnv(t, 0)
	doc := env.upload(t)
	env.grant(t, doc.ID, readerID, models.PermissionRead)
	env.grant(t, doc.ID, writerID, models.PermissionWrite)

	ctx := context.Background()

	// No grant at all: not even reads
	if _, err := env.svc.Get(ctx, strangerID, doc.ID); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("stranger Get error = %v, want ErrPermissionDenied", err)
	}

	// Read grant cannot submit
	if _, err := env.svc.SubmitForApproval(ctx, readerID, doc.ID); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("reader submit error = %v, want ErrPermissionDenied", err)
	}

	// Write grant can submit but not approve
	if _, err := env.svc.SubmitForApproval(ctx, writerID, doc.ID); err != nil {
		t.Fatalf("writer submit: %v", err)
	}
	if _, err := env.svc.Approve(ctx, writerID, doc.ID, ""); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("writer approve error = %v, want ErrPermissionDenied", err)
	}

	// Creator holds implicit admin and may approve
	if _, err := env.svc.Approve(ctx, creatorID, doc.ID, ""); err != nil {
		t.Errorf("creator approve: %v", err)
	}
}

func TestCheckoutConflict(t *testing.T) {
	env := newTestEnv(t, 0)
	doc := env.upload(t)
	env.grant(t, doc.ID, writerID, models.PermissionWrite)

	ctx := context.Background()

	lock, err := env.svc.Checkout(ctx, creatorID, doc.ID)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if lock.HolderID != creatorID {
		t.Fatalf("lock holder = %s, want creator", lock.HolderID)
	}

	// Someone else cannot take the lock
	_, err = env.svc.Checkout(ctx, writerID, doc.ID)
	if !errors.Is(err, domain.ErrAlreadyLocked) {
		t.Fatalf("second checkout error = %v, want ErrAlreadyLocked", err)
	}
	var lockErr *domain.LockConflictError
	if !errors.As(err, &lockErr) || lockErr.HolderID != creatorID {
		t.Errorf("lock conflict detail = %+v, want holder %s", lockErr, creatorID)
	}

	// Writes by non-holders are blocked while locked
	title := "renamed"
	_, err = env.svc.EditMetadata(ctx, writerID, doc.ID, &services.EditMetadataRequest{Title: &title})
	if !errors.Is(err, domain.ErrLocked) {
		t.Errorf("non-holder edit error = %v, want ErrLocked", err)
	}

	// Reads stay open
	if _, err := env.svc.Get(ctx, writerID, doc.ID); err != nil {
		t.Errorf("read while locked: %v", err)
	}

	// The holder edits freely
	if _, err := env.svc.EditMetadata(ctx, creatorID, doc.ID, &services.EditMetadataRequest{Title: &title}); err != nil {
		t.Errorf("holder edit: %v", err)
	}
}

func TestCheckoutIdempotentForHolder(t *testing.T) {
	env := newTestEnv(t, 0)
	doc := env.upload(t)
	ctx := context.Background()

	first, err := env.svc.Checkout(ctx, creatorID, doc.ID)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	env.clock.Advance(time.Minute)
	second, err := env.svc.Checkout(ctx, creatorID, doc.ID)
	if err != nil {
		t.Fatalf("re-checkout: %v", err)
	}
	if !second.AcquiredAt.Equal(first.AcquiredAt) {
		t.Errorf("re-checkout changed acquisition time: %v -> %v", first.AcquiredAt, second.AcquiredAt)
	}

	checkedOut := 0
	for _, kind := range env.events.kinds(doc.ID) {
		if kind == models.EventCheckedOut {
			checkedOut++
		}
	}
	if checkedOut != 1 {
		t.Errorf("checked_out events = %d, want 1", checkedOut)
	}
}

func TestExpiredLeaseIsReclaimable(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	doc := env.upload(t)
	env.grant(t, doc.ID, writerID, models.PermissionWrite)

	ctx := context.Background()
	if _, err := env.svc.Checkout(ctx, creatorID, doc.ID); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	// Lease still live: blocked
	env.clock.Advance(30 * time.Minute)
	if _, err := env.svc.Checkout(ctx, writerID, doc.ID); !errors.Is(err, domain.ErrAlreadyLocked) {
		t.Fatalf("checkout before lease expiry error = %v, want ErrAlreadyLocked", err)
	}

	// Lease lapsed: the next checkout reclaims
	env.clock.Advance(time.Hour)
	lock, err := env.svc.Checkout(ctx, writerID, doc.ID)
	if err != nil {
		t.Fatalf("reclaim checkout: %v", err)
	}
	if lock.HolderID != writerID {
		t.Errorf("lock holder after reclaim = %s, want writer", lock.HolderID)
	}
}

func TestCheckinWithNewVersion(t *testing.T) {
	env := newTestEnv(t, 0)
	doc := env.upload(t)
	ctx := context.Background()

	if _, err := env.svc.Checkout(ctx, creatorID, doc.ID); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	updated, err := env.svc.Checkin(ctx, creatorID, doc.ID, &services.CheckinRequest{
		CreateNewVersion: true,
		FileName:         "allergen-plan-v2.pdf",
		FileType:         "application/pdf",
		FileSize:         20,
		Content:          strings.NewReader("updated pdf contents"),
		ChangeNotes:      "updated allergen matrix",
	})
	if err != nil {
		t.Fatalf("checkin: %v", err)
	}

	if updated.CurrentVersion != 2 {
		t.Errorf("current version = %d, want 2", updated.CurrentVersion)
	}
	if updated.Lock != nil {
		t.Error("lock not released on checkin")
	}
	if updated.FileName != "allergen-plan-v2.pdf" {
		t.Errorf("file name = %s, want allergen-plan-v2.pdf", updated.FileName)
	}

	count, _ := env.versions.CountByDocument(ctx, doc.ID)
	if count != updated.CurrentVersion {
		t.Errorf("ledger rows = %d, current version = %d, must match", count, updated.CurrentVersion)
	}
}

func TestCheckinWithoutNewVersionReleasesOnly(t *testing.T) {
	env := newTestEnv(t, 0)
	doc := env.upload(t)
	ctx := context.Background()

	if _, err := env.svc.Checkout(ctx, creatorID, doc.ID); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	updated, err := env.svc.Checkin(ctx, creatorID, doc.ID, &services.CheckinRequest{})
	if err != nil {
		t.Fatalf("checkin: %v", err)
	}
	if updated.Lock != nil {
		t.Error("lock not released")
	}
	if updated.CurrentVersion != 1 {
		t.Errorf("current version = %d, want 1 (no new version)", updated.CurrentVersion)
	}

	count, _ := env.versions.CountByDocument(ctx, doc.ID)
	if count != 1 {
		t.Errorf("ledger rows = %d, want 1", count)
	}
}

func TestCheckinRequiresLockHolder(t *testing.T) {
	env := newTestEnv(t, 0)
	doc := env.upload(t)
	env.grant(t, doc.ID, writerID, models.PermissionWrite)
	ctx := context.Background()

	// Not locked at all
	_, err := env.svc.Checkin(ctx, creatorID, doc.ID, &services.CheckinRequest{})
	if !errors.Is(err, domain.ErrNotLockedByCaller) {
		t.Fatalf("checkin without lock error = %v, want ErrNotLockedByCaller", err)
	}

	// Locked by someone else
	if _, err := env.svc.Checkout(ctx, creatorID, doc.ID); err != nil {
		t.Fatalf("checkout: %v", err)
	}
	_, err = env.svc.Checkin(ctx, writerID, doc.ID, &services.CheckinRequest{})
	if !errors.Is(err, domain.ErrNotLockedByCaller) {
		t.Fatalf("checkin by non-holder error = %v, want ErrNotLockedByCaller", err)
	}
}

func TestForceUnlockRequiresAdmin(t *testing.T) {
	env := newTestEnv(t, 0)
	doc := env.upload(t)
	env.grant(t, doc.ID, writerID, models.PermissionWrite)
	ctx := context.Background()

	if _, err := env.svc.Checkout(ctx, writerID, doc.ID); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if err := env.svc.ForceUnlock(ctx, writerID, doc.ID); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("writer force-unlock error = %v, want ErrPermissionDenied", err)
	}

	if err := env.svc.ForceUnlock(ctx, creatorID, doc.ID); err != nil {
		t.Fatalf("admin force-unlock: %v", err)
	}

	got, err := env.docs.GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Lock != nil {
		t.Error("lock still present after force-unlock")
	}
}

func TestRevertAppendsNewVersion(t *testing.T) {
	env := newTestEnv(t, 0)
	doc := env.upload(t)
	ctx := context.Background()

	if _, err := env.svc.Checkout(ctx, creatorID, doc.ID); err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if _, err := env.svc.Checkin(ctx, creatorID, doc.ID, &services.CheckinRequest{
		CreateNewVersion: true,
		FileName:         "v2.pdf",
		Content:          strings.NewReader("v2"),
	}); err != nil {
		t.Fatalf("checkin: %v", err)
	}

	reverted, err := env.svc.RevertToVersion(ctx, creatorID, doc.ID, 1)
	if err != nil {
		t.Fatalf("revert: %v", err)
	}

	if reverted.CurrentVersion != 3 {
		t.Errorf("current version after revert = %d, want 3", reverted.CurrentVersion)
	}
	if reverted.FileName != "allergen-plan.pdf" {
		t.Errorf("file name after revert = %s, want the original", reverted.FileName)
	}

	versions, _ := env.versions.ListByDocument(ctx, doc.ID)
	if len(versions) != 3 {
		t.Fatalf("ledger rows = %d, want 3 (history never truncated)", len(versions))
	}
	last := versions[2]
	if last.BlobLocator != versions[0].BlobLocator {
		t.Errorf("revert locator = %s, want copy of version 1's %s", last.BlobLocator, versions[0].BlobLocator)
	}
	if last.ChangeNotes != "Reverted to version 1" {
		t.Errorf("change notes = %q", last.ChangeNotes)
	}

	// Reverting to a version that never existed
	if _, err := env.svc.RevertToVersion(ctx, creatorID, doc.ID, 9); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("revert to missing version error = %v, want ErrNotFound", err)
	}
}

func TestTerminalStatusesAreReadOnly(t *testing.T) {
	env := newTestEnv(t, 0)
	doc := env.upload(t)
	ctx := context.Background()

	if _, err := env.svc.Archive(ctx, creatorID, doc.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}

	title := "renamed"
	if _, err := env.svc.EditMetadata(ctx, creatorID, doc.ID, &services.EditMetadataRequest{Title: &title}); !errors.Is(err, domain.ErrPreconditionFailed) {
		t.Errorf("edit archived error = %v, want ErrPreconditionFailed", err)
	}
	if _, err := env.svc.Checkout(ctx, creatorID, doc.ID); !errors.Is(err, domain.ErrPreconditionFailed) {
		t.Errorf("checkout archived error = %v, want ErrPreconditionFailed", err)
	}
	if _, err := env.svc.SubmitForApproval(ctx, creatorID, doc.ID); !errors.Is(err, domain.ErrPreconditionFailed) {
		t.Errorf("submit archived error = %v, want ErrPreconditionFailed", err)
	}

	// Reads still work
	if _, err := env.svc.Get(ctx, creatorID, doc.ID); err != nil {
		t.Errorf("read archived: %v", err)
	}
}

func TestLazyExpiryOnRead(t *testing.T) {
	env := newTestEnv(t, 0)
	doc := env.upload(t)
	ctx := context.Background()

	expiry := env.clock.Now().Add(48 * time.Hour)
	if _, err := env.svc.SetExpirySettings(ctx, creatorID, doc.ID, &services.ExpirySettingsRequest{
		ExpiryDate: &expiry,
	}); err != nil {
		t.Fatalf("set expiry: %v", err)
	}

	// Not yet due
	got, err := env.svc.Get(ctx, creatorID, doc.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != lifecycle.StatusDraft {
		t.Fatalf("status before expiry = %v", got.Status)
	}

	env.clock.Advance(72 * time.Hour)
	got, err = env.svc.Get(ctx, creatorID, doc.ID)
	if err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if got.Status != lifecycle.StatusExpired {
		t.Fatalf("status after expiry = %v, want expired", got.Status)
	}

	// Re-reading an expired document is a no-op
	expiredEvents := 0
	if _, err := env.svc.Get(ctx, creatorID, doc.ID); err != nil {
		t.Fatalf("second get: %v", err)
	}
	for _, kind := range env.events.kinds(doc.ID) {
		if kind == models.EventExpired {
			expiredEvents++
		}
	}
	if expiredEvents != 1 {
		t.Errorf("expired events = %d, want 1", expiredEvents)
	}
}

func TestExpirySettingsValidation(t *testing.T) {
	env := newTestEnv(t, 0)
	doc := env.upload(t)
	ctx := context.Background()

	_, err := env.svc.SetExpirySettings(ctx, creatorID, doc.ID, &services.ExpirySettingsRequest{
		NotificationDays: []int{30},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("days without expiry error = %v, want ErrValidation", err)
	}

	expiry := env.clock.Now().AddDate(1, 0, 0)
	_, err = env.svc.SetExpirySettings(ctx, creatorID, doc.ID, &services.ExpirySettingsRequest{
		ExpiryDate:       &expiry,
		NotificationDays: []int{-1, 30},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("negative days error = %v, want ErrValidation", err)
	}

	// Duplicates collapse, schedule is stored sorted
	updated, err := env.svc.SetExpirySettings(ctx, creatorID, doc.ID, &services.ExpirySettingsRequest{
		ExpiryDate:       &expiry,
		NotificationDays: []int{60, 30, 30},
	})
	if err != nil {
		t.Fatalf("set expiry: %v", err)
	}
	if len(updated.NotificationDays) != 2 || updated.NotificationDays[0] != 30 || updated.NotificationDays[1] != 60 {
		t.Errorf("notification days = %v, want [30 60]", updated.NotificationDays)
	}
}

func TestSoftDeleteHidesDocument(t *testing.T) {
	env := newTestEnv(t, 0)
	doc := env.upload(t)
	env.grant(t, doc.ID, writerID, models.PermissionWrite)
	ctx := context.Background()

	// Write grant is not enough
	if err := env.svc.Delete(ctx, writerID, doc.ID); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("writer delete error = %v, want ErrPermissionDenied", err)
	}

	if err := env.svc.Delete(ctx, creatorID, doc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := env.svc.Get(ctx, creatorID, doc.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("get deleted error = %v, want ErrNotFound", err)
	}

	// History survives the tombstone
	count, _ := env.versions.CountByDocument(ctx, doc.ID)
	if count != 1 {
		t.Errorf("ledger rows after delete = %d, want 1", count)
	}
}

func TestAccessGrantUpsert(t *testing.T) {
	env := newTestEnv(t, 0)
	doc := env.upload(t)
	ctx := context.Background()

	env.grant(t, doc.ID, readerID, models.PermissionRead)
	env.grant(t, doc.ID, readerID, models.PermissionWrite)

	stored, err := env.docs.GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	grants, err := env.accSvc.ListGrants(ctx, creatorID, stored)
	if err != nil {
		t.Fatalf("list grants: %v", err)
	}
	if len(grants) != 1 {
		t.Fatalf("grants = %d, want 1 (re-grant upserts)", len(grants))
	}
	if grants[0].PermissionLevel != models.PermissionWrite {
		t.Errorf("level = %v, want write", grants[0].PermissionLevel)
	}

	// Revoke removes access entirely
	if err := env.accSvc.Revoke(ctx, creatorID, stored, readerID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := env.svc.Get(ctx, readerID, doc.ID); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("get after revoke error = %v, want ErrPermissionDenied", err)
	}
}

func TestDownloadURL(t *testing.T) {
	env := newTestEnv(t, 0)
	doc := env.upload(t)
	ctx := context.Background()

	url, err := env.svc.DownloadURL(ctx, creatorID, doc.ID)
	if err != nil {
		t.Fatalf("download url: %v", err)
	}
	if !strings.HasSuffix(url, doc.FilePath) {
		t.Errorf("url = %s, want one ending in %s", url, doc.FilePath)
	}

	if _, err := env.svc.DownloadURL(ctx, strangerID, doc.ID); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("stranger download error = %v, want ErrPermissionDenied", err)
	}
}

func TestListFilters(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()

	doc1 := env.upload(t)
	doc2, err := env.svc.Upload(ctx, &services.UploadRequest{
		CallerID: creatorID,
		Title:    "Sanitation SOP",
		Category: "sanitation",
		Tags:     []string{"sop"},
		FileName: "sop.pdf",
		Content:  strings.NewReader("sop"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	byCategory, err := env.svc.List(ctx, creatorID, &models.DocumentFilter{Category: "sanitation"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(byCategory) != 1 || byCategory[0].ID != doc2.ID {
		t.Errorf("category filter returned %d docs", len(byCategory))
	}

	byTag, err := env.svc.List(ctx, creatorID, &models.DocumentFilter{Tag: "haccp"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(byTag) != 1 || byTag[0].ID != doc1.ID {
		t.Errorf("tag filter returned %d docs", len(byTag))
	}

	byStatus, err := env.svc.List(ctx, creatorID, &models.DocumentFilter{Status: lifecycle.StatusDraft})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(byStatus) != 2 {
		t.Errorf("status filter returned %d docs, want 2", len(byStatus))
	}
}
