package models

import (
	"fmt"
	"strings"
	"time"

	"doccontrol/internal/domain/lifecycle"
)

// PermissionLevel is the level of an explicit access grant.
type PermissionLevel string

const (
	PermissionRead  PermissionLevel = "read"
	PermissionWrite PermissionLevel = "write"
	PermissionAdmin PermissionLevel = "admin"
)

// ParsePermissionLevel validates a user-supplied permission level.
func ParsePermissionLevel(raw string) (PermissionLevel, error) {
	switch PermissionLevel(strings.ToLower(strings.TrimSpace(raw))) {
	case PermissionRead:
		return PermissionRead, nil
	case PermissionWrite:
		return PermissionWrite, nil
	case PermissionAdmin:
		return PermissionAdmin, nil
	}
	return "", fmt.Errorf("unknown permission level %q", raw)
}

// Grants reports whether this level satisfies the given capability.
// Levels are cumulative: admin > write > read. Approval rights come with
// admin only.
func (p PermissionLevel) Grants(capability lifecycle.Capability) bool {
	switch capability {
	case lifecycle.CapabilityRead:
		return p == PermissionRead || p == PermissionWrite || p == PermissionAdmin
	case lifecycle.CapabilityWrite:
		return p == PermissionWrite || p == PermissionAdmin
	case lifecycle.CapabilityApprove, lifecycle.CapabilityAdmin:
		return p == PermissionAdmin
	}
	return false
}

// AccessGrant ties a user to a document at a permission level. Uniqueness
// on (document_id, user_id) is enforced; re-granting upserts the level.
type AccessGrant struct {
	DocumentID      string          `json:"document_id" db:"document_id"`
	UserID          string          `json:"user_id" db:"user_id"`
	PermissionLevel PermissionLevel `json:"permission_level" db:"permission_level"`
	GrantedBy       string          `json:"granted_by" db:"granted_by"`
	GrantedAt       time.Time       `json:"granted_at" db:"granted_at"`
}
