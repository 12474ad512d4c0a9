package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"doccontrol/internal/domain"
	"doccontrol/internal/domain/lifecycle"
	"doccontrol/internal/domain/models"
	"doccontrol/internal/domain/repositories"
)

// fakeClock is a controllable clock for lease and expiry tests
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// fakeDocRepo is an in-memory DocumentRepository with the same
// compare-and-swap semantics as the Postgres implementation.
type fakeDocRepo struct {
	mu   sync.Mutex
	docs map[string]*models.Document
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{docs: make(map[string]*models.Document)}
}

func copyDoc(doc *models.Document) *models.Document {
	c := *doc
	if doc.Lock != nil {
		lock := *doc.Lock
		c.Lock = &lock
	}
	c.Tags = append([]string(nil), doc.Tags...)
	c.NotificationDays = append([]int(nil), doc.NotificationDays...)
	return &c
}

func (r *fakeDocRepo) get(id string) (*models.Document, error) {
	doc, ok := r.docs[id]
	if !ok || doc.DeletedAt != nil {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return doc, nil
}

func (r *fakeDocRepo) Create(ctx context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = copyDoc(doc)
	return nil
}

func (r *fakeDocRepo) GetByID(ctx context.Context, id string) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, err := r.get(id)
	if err != nil {
		return nil, err
	}
	return copyDoc(doc), nil
}

func (r *fakeDocRepo) List(ctx context.Context, filter *models.DocumentFilter) ([]models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Document
	for _, doc := range r.docs {
		if doc.DeletedAt != nil {
			continue
		}
		if filter.Category != "" && doc.Category != filter.Category {
			continue
		}
		if filter.Status != "" && doc.Status != filter.Status {
			continue
		}
		if filter.Tag != "" && !containsTag(doc.Tags, filter.Tag) {
			continue
		}
		out = append(out, *copyDoc(doc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func (r *fakeDocRepo) UpdateMetadata(ctx context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, err := r.get(doc.ID)
	if err != nil {
		return err
	}
	stored.Title = doc.Title
	stored.Description = doc.Description
	stored.Category = doc.Category
	stored.Tags = append([]string(nil), doc.Tags...)
	stored.UpdatedAt = doc.UpdatedAt
	return nil
}

func (r *fakeDocRepo) UpdateStatus(ctx context.Context, id string, expected, next lifecycle.Status, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, err := r.get(id)
	if err != nil {
		return err
	}
	if stored.Status != expected {
		return &domain.PreconditionError{
			DocumentID:     id,
			Operation:      "update status",
			ExpectedStatus: expected.String(),
			ActualStatus:   stored.Status.String(),
		}
	}
	stored.Status = next
	stored.UpdatedAt = updatedAt
	return nil
}

func (r *fakeDocRepo) UpdateLock(ctx context.Context, id string, expectedHolder *string, lock *models.Lock, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, err := r.get(id)
	if err != nil {
		return err
	}

	var currentHolder *string
	if stored.Lock != nil {
		currentHolder = &stored.Lock.HolderID
	}
	if !sameHolder(currentHolder, expectedHolder) {
		return fmt.Errorf("lock holder changed for document %s: %w", id, domain.ErrPreconditionFailed)
	}

	if lock == nil {
		stored.Lock = nil
	} else {
		l := *lock
		stored.Lock = &l
	}
	stored.UpdatedAt = updatedAt
	return nil
}

func sameHolder(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r *fakeDocRepo) UpdateFile(ctx context.Context, id string, expectedVersion int, file repositories.FileInfo, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, err := r.get(id)
	if err != nil {
		return err
	}
	if stored.CurrentVersion != expectedVersion {
		return fmt.Errorf("version changed for document %s: %w", id, domain.ErrPreconditionFailed)
	}
	stored.CurrentVersion = expectedVersion + 1
	stored.FileName = file.FileName
	stored.FileSize = file.FileSize
	stored.FileType = file.FileType
	stored.FilePath = file.FilePath
	stored.UpdatedAt = updatedAt
	return nil
}

func (r *fakeDocRepo) UpdateExpiry(ctx context.Context, id string, expiryDate *time.Time, notificationDays []int, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, err := r.get(id)
	if err != nil {
		return err
	}
	stored.ExpiryDate = expiryDate
	stored.NotificationDays = append([]int(nil), notificationDays...)
	stored.UpdatedAt = updatedAt
	return nil
}

func (r *fakeDocRepo) SoftDelete(ctx context.Context, id string, deletedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, err := r.get(id)
	if err != nil {
		return err
	}
	stored.DeletedAt = &deletedAt
	return nil
}

func (r *fakeDocRepo) ListExpiryCandidates(ctx context.Context, now time.Time) ([]models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Document
	for _, doc := range r.docs {
		if doc.DeletedAt != nil || doc.ExpiryDate == nil || doc.Status.Terminal() {
			continue
		}
		if !doc.ExpiryDate.After(now) {
			out = append(out, *copyDoc(doc))
		}
	}
	return out, nil
}

func (r *fakeDocRepo) ListExpiringWithin(ctx context.Context, now time.Time, days int) ([]models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	horizon := now.Add(time.Duration(days) * 24 * time.Hour)
	var out []models.Document
	for _, doc := range r.docs {
		if doc.DeletedAt != nil || doc.ExpiryDate == nil || doc.Status.Terminal() {
			continue
		}
		if doc.ExpiryDate.After(now) && !doc.ExpiryDate.After(horizon) {
			out = append(out, *copyDoc(doc))
		}
	}
	return out, nil
}

// fakeVersionRepo is an append-only in-memory ledger
type fakeVersionRepo struct {
	mu       sync.Mutex
	versions map[string][]models.DocumentVersion
}

func newFakeVersionRepo() *fakeVersionRepo {
	return &fakeVersionRepo{versions: make(map[string][]models.DocumentVersion)}
}

func (r *fakeVersionRepo) Append(ctx context.Context, version *models.DocumentVersion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.versions[version.DocumentID] {
		if v.VersionNumber == version.VersionNumber {
			return fmt.Errorf("version %d already exists for document %s: %w",
				version.VersionNumber, version.DocumentID, domain.ErrPreconditionFailed)
		}
	}
	r.versions[version.DocumentID] = append(r.versions[version.DocumentID], *version)
	return nil
}

func (r *fakeVersionRepo) ListByDocument(ctx context.Context, documentID string) ([]models.DocumentVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]models.DocumentVersion(nil), r.versions[documentID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].VersionNumber < out[j].VersionNumber })
	return out, nil
}

func (r *fakeVersionRepo) GetByNumber(ctx context.Context, documentID string, versionNumber int) (*models.DocumentVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.versions[documentID] {
		if v.VersionNumber == versionNumber {
			c := v
			return &c, nil
		}
	}
	return nil, fmt.Errorf("version %d of document %s: %w", versionNumber, documentID, domain.ErrNotFound)
}

func (r *fakeVersionRepo) CountByDocument(ctx context.Context, documentID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.versions[documentID]), nil
}

// fakeAccessRepo keys grants on (document, user)
type fakeAccessRepo struct {
	mu     sync.Mutex
	grants map[string]models.AccessGrant
}

func newFakeAccessRepo() *fakeAccessRepo {
	return &fakeAccessRepo{grants: make(map[string]models.AccessGrant)}
}

func grantKey(documentID, userID string) string { return documentID + "/" + userID }

func (r *fakeAccessRepo) Upsert(ctx context.Context, grant *models.AccessGrant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grants[grantKey(grant.DocumentID, grant.UserID)] = *grant
	return nil
}

func (r *fakeAccessRepo) Get(ctx context.Context, documentID, userID string) (*models.AccessGrant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	grant, ok := r.grants[grantKey(documentID, userID)]
	if !ok {
		return nil, fmt.Errorf("grant for %s on %s: %w", userID, documentID, domain.ErrNotFound)
	}
	c := grant
	return &c, nil
}

func (r *fakeAccessRepo) ListByDocument(ctx context.Context, documentID string) ([]models.AccessGrant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AccessGrant
	for _, grant := range r.grants {
		if grant.DocumentID == documentID {
			out = append(out, grant)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *fakeAccessRepo) Delete(ctx context.Context, documentID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := grantKey(documentID, userID)
	if _, ok := r.grants[key]; !ok {
		return fmt.Errorf("grant for %s on %s: %w", userID, documentID, domain.ErrNotFound)
	}
	delete(r.grants, key)
	return nil
}

// fakeEventRepo stores the activity log
type fakeEventRepo struct {
	mu     sync.Mutex
	events []models.Event
}

func (r *fakeEventRepo) Append(ctx context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *fakeEventRepo) ListByDocument(ctx context.Context, documentID string, limit int) ([]models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Event
	for i := len(r.events) - 1; i >= 0 && len(out) < limit; i-- {
		if r.events[i].DocumentID == documentID {
			out = append(out, r.events[i])
		}
	}
	return out, nil
}

func (r *fakeEventRepo) kinds(documentID string) []models.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.EventKind
	for _, e := range r.events {
		if e.DocumentID == documentID {
			out = append(out, e.Kind)
		}
	}
	return out
}

// fakeTxManager runs the function directly; the fakes have no
// transactional state to roll back.
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// fakeBlobStore records puts and signs deterministic URLs
type fakeBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut bool
	signed  int
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string][]byte)}
}

func (b *fakeBlobStore) Put(ctx context.Context, key string, content io.Reader, size int64, contentType string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failPut {
		return fmt.Errorf("%w: put %s", domain.ErrStorageUnavailable, key)
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	b.objects[key] = data
	return nil
}

func (b *fakeBlobStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.signed++
	if _, ok := b.objects[key]; !ok {
		return "", fmt.Errorf("%w: no object at %s", domain.ErrStorageUnavailable, key)
	}
	return "https://blobs.test/" + key, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
