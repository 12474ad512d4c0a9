package lifecycle

import (
	"fmt"
	"strings"
)

// Status is the authoritative lifecycle state of a document.
// Exactly one value is active at any time.
type Status string

const (
	StatusDraft           Status = "draft"
	StatusPendingApproval Status = "pending_approval"
	StatusApproved        Status = "approved"
	StatusPublished       Status = "published"
	StatusRejected        Status = "rejected"
	StatusArchived        Status = "archived"
	StatusExpired         Status = "expired"
)

// allStatuses is the closed set of legal values.
var allStatuses = map[Status]bool{
	StatusDraft:           true,
	StatusPendingApproval: true,
	StatusApproved:        true,
	StatusPublished:       true,
	StatusRejected:        true,
	StatusArchived:        true,
	StatusExpired:         true,
}

// String returns the canonical serialization.
func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is a member of the closed status set.
func (s Status) Valid() bool {
	return allStatuses[s]
}

// Terminal reports whether s is a terminal state. Terminal documents
// cannot be checked out or edited.
func (s Status) Terminal() bool {
	return s == StatusArchived || s == StatusExpired
}

// Lockable reports whether a document in this status may be checked out.
func (s Status) Lockable() bool {
	switch s {
	case StatusDraft, StatusPendingApproval, StatusApproved, StatusPublished:
		return true
	}
	return false
}

// ParseStatus normalizes a stored or user-supplied status string to the
// canonical enumeration. Legacy rows carry mixed serializations
// ("Pending Approval", "Pending_Approval", "PENDING-APPROVAL"); all of
// them map to the same canonical value at this boundary.
func ParseStatus(raw string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)

	s := Status(normalized)
	if !s.Valid() {
		return "", fmt.Errorf("unknown document status %q", raw)
	}
	return s, nil
}
