package domain

import "time"

// UpdateNotification announces that a document version changed.
// AffectedDocuments is the inverse-adjacency set: the documents that
// reference the updated one. Only IsRead is mutated after creation.
type UpdateNotification struct {
	ID                string         `json:"id"`
	NotificationID    string         `json:"notification_id"` // globally unique token
	DocumentID        string         `json:"document_id"`
	VersionID         string         `json:"version_id"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	Severity          Severity       `json:"severity"`
	IsRead            bool           `json:"is_read"`
	AffectedDocuments []string       `json:"affected_documents"`
	Metadata          map[string]any `json:"metadata,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}
