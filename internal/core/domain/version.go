package domain

import "time"

// DocumentVersion is one immutable snapshot of a document. The document text
// itself lives outside this core; only its content hash is recorded here.
type DocumentVersion struct {
	ID          string         `json:"id"`
	DocumentID  string         `json:"document_id"`
	Version     string         `json:"version"` // caller-defined label, not necessarily semver
	ContentHash string         `json:"content_hash"`
	Changes     map[string]any `json:"changes,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	IsActive    bool           `json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
}

// VersionKey identifies a version by its natural key. (DocumentID, Version)
// is unique; re-adding an existing key returns the stored record unchanged.
type VersionKey struct {
	DocumentID string `json:"document_id"`
	Version    string `json:"version"`
}
