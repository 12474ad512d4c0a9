package models

import "time"

// EventKind classifies a document domain event.
type EventKind string

const (
	EventUploaded       EventKind = "uploaded"
	EventMetadataEdited EventKind = "metadata_edited"
	EventSubmitted      EventKind = "submitted_for_approval"
	EventApproved       EventKind = "approved"
	EventRejected       EventKind = "rejected"
	EventReturnedDraft  EventKind = "returned_to_draft"
	EventPublished      EventKind = "published"
	EventArchived       EventKind = "archived"
	EventExpired        EventKind = "expired"
	EventCheckedOut     EventKind = "checked_out"
	EventCheckedIn      EventKind = "checked_in"
	EventForceUnlocked  EventKind = "force_unlocked"
	EventVersionCreated EventKind = "version_created"
	EventReverted       EventKind = "reverted"
	EventExpiryUpdated  EventKind = "expiry_settings_updated"
	EventDeleted        EventKind = "deleted"
	EventAccessGranted  EventKind = "access_granted"
	EventAccessRevoked  EventKind = "access_revoked"
	EventExpiryReminder EventKind = "expiry_reminder"
)

// Event is a domain event emitted by the document aggregate. Events feed
// the notification sink and the per-document activity log.
type Event struct {
	ID         string    `json:"id" db:"id"`
	DocumentID string    `json:"document_id" db:"document_id"`
	Kind       EventKind `json:"kind" db:"kind"`
	Actor      string    `json:"actor,omitempty" db:"actor"`
	FromStatus string    `json:"from_status,omitempty" db:"from_status"`
	ToStatus   string    `json:"to_status,omitempty" db:"to_status"`
	Comment    string    `json:"comment,omitempty" db:"comment"`
	OccurredAt time.Time `json:"occurred_at" db:"occurred_at"`
}
