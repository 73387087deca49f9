package domain

import (
	"fmt"
	"time"
)

// Severity grades conflicts and notifications.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// ParseSeverity validates a raw severity string.
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(s)
	switch sev {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return sev, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSeverity, s)
}

func (s Severity) String() string { return string(s) }

// ConflictStatus is the lifecycle state of a conflict record.
type ConflictStatus string

const (
	ConflictOpen     ConflictStatus = "open"
	ConflictResolved ConflictStatus = "resolved"
	ConflictIgnored  ConflictStatus = "ignored"
)

// ParseConflictStatus validates a raw conflict status string.
func ParseConflictStatus(s string) (ConflictStatus, error) {
	st := ConflictStatus(s)
	switch st {
	case ConflictOpen, ConflictResolved, ConflictIgnored:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidConflictStatus, s)
}

func (s ConflictStatus) String() string { return string(s) }

// DocumentConflict records a disagreement between two documents.
// (DocumentID1, DocumentID2, ConflictType) is unique. Conflicts transition
// open -> resolved|ignored via Resolve and are never deleted.
type DocumentConflict struct {
	ID           string         `json:"id"`
	DocumentID1  string         `json:"document_id_1"`
	DocumentID2  string         `json:"document_id_2"`
	ConflictType string         `json:"conflict_type"` // e.g. content, procedure, requirement
	Description  string         `json:"description"`
	Severity     Severity       `json:"severity"`
	Status       ConflictStatus `json:"status"`
	Resolution   *string        `json:"resolution,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	ResolvedAt   *time.Time     `json:"resolved_at,omitempty"`
}

// ConflictFilter narrows conflict queries. DocumentID matches either side
// of the pair.
type ConflictFilter struct {
	DocumentID *string
	Status     *ConflictStatus
	Severity   *Severity
	Limit      int
}
