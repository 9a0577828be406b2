package models

import "time"

// MatchEvidence is a file attached to a match in support of a dispute.
// Immutable once created; only the uploader or the organizer may delete it.
type MatchEvidence struct {
	ID          int       `json:"id" db:"id"`
	MatchID     int       `json:"match_id" db:"match_id"`
	UploadedBy  int       `json:"uploaded_by" db:"uploaded_by"`
	FileKey     string    `json:"-" db:"file_key"`
	FileURL     string    `json:"file_url" db:"-"`
	ContentType string    `json:"content_type" db:"content_type"`
	Note        *string   `json:"note,omitempty" db:"note"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
