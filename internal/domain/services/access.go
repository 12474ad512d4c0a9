package services

import (
	"context"

	"doccontrol/internal/domain/lifecycle"
	"doccontrol/internal/domain/models"
)

// AccessService evaluates capabilities and manages per-document grants.
// The document creator holds implicit admin; explicit grants are unique
// per (document, user) and upsert on re-grant.
type AccessService interface {
	// HasCapability reports whether the caller holds the capability on the
	// document.
	HasCapability(ctx context.Context, callerID string, doc *models.Document, capability lifecycle.Capability) (bool, error)

	// RequireCapability returns domain.ErrPermissionDenied (wrapped with
	// the failing capability) when the caller lacks it.
	RequireCapability(ctx context.Context, callerID string, doc *models.Document, capability lifecycle.Capability) error

	// Grant upserts an access grant. Caller needs admin on the document.
	Grant(ctx context.Context, callerID string, doc *models.Document, userID string, level models.PermissionLevel) (*models.AccessGrant, error)

	// Revoke removes a grant. Caller needs admin on the document.
	Revoke(ctx context.Context, callerID string, doc *models.Document, userID string) error

	// ListGrants returns all grants on the document. Caller needs read.
	ListGrants(ctx context.Context, callerID string, doc *models.Document) ([]models.AccessGrant, error)
}
