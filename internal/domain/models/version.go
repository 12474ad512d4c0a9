package models

import "time"

// DocumentVersion is one row of the append-only version ledger. It is
// created exactly once when a revision is stored and never mutated or
// deleted afterwards.
type DocumentVersion struct {
	ID            string    `json:"id" db:"id"`
	DocumentID    string    `json:"document_id" db:"document_id"`
	VersionNumber int       `json:"version_number" db:"version_number"`
	FileName      string    `json:"file_name" db:"file_name"`
	FileSize      int64     `json:"file_size" db:"file_size"`
	FileType      string    `json:"file_type" db:"file_type"`
	BlobLocator   string    `json:"blob_locator" db:"blob_locator"`
	ChangeNotes   string    `json:"change_notes,omitempty" db:"change_notes"`
	CreatedBy     string    `json:"created_by" db:"created_by"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
