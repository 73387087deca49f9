package domain

import (
	"fmt"
	"time"
)

// ReferenceType classifies a directed edge between two documents.
// Raw strings from callers must go through ParseReferenceType before they
// reach a store.
type ReferenceType string

const (
	ReferenceCitation    ReferenceType = "citation"
	ReferenceSupersedes  ReferenceType = "supersedes"
	ReferenceSupplements ReferenceType = "supplements"
	ReferenceRelated     ReferenceType = "related"
	ReferenceImplements  ReferenceType = "implements"
	ReferenceConflicts   ReferenceType = "conflicts"
)

// ReferenceTypes lists all valid reference types.
var ReferenceTypes = []ReferenceType{
	ReferenceCitation,
	ReferenceSupersedes,
	ReferenceSupplements,
	ReferenceRelated,
	ReferenceImplements,
	ReferenceConflicts,
}

// ParseReferenceType validates a raw reference type string.
func ParseReferenceType(s string) (ReferenceType, error) {
	rt := ReferenceType(s)
	if !rt.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidReferenceType, s)
	}
	return rt, nil
}

// Valid reports whether the reference type is one of the known values.
func (rt ReferenceType) Valid() bool {
	switch rt {
	case ReferenceCitation, ReferenceSupersedes, ReferenceSupplements,
		ReferenceRelated, ReferenceImplements, ReferenceConflicts:
		return true
	}
	return false
}

func (rt ReferenceType) String() string { return string(rt) }

// DocumentReference is a directed, typed edge from a source document
// (version, section) to a target document (version, section).
//
// The 6-tuple (source, target, source version, target version, source
// section, target section) is unique; adding an identical edge returns the
// stored one.
type DocumentReference struct {
	ID               string         `json:"id"`
	SourceDocumentID string         `json:"source_document_id"`
	TargetDocumentID string         `json:"target_document_id"`
	SourceVersionID  *string        `json:"source_version_id,omitempty"`
	TargetVersionID  *string        `json:"target_version_id,omitempty"`
	ReferenceType    ReferenceType  `json:"reference_type"`
	SourceSectionID  *string        `json:"source_section_id,omitempty"`
	TargetSectionID  *string        `json:"target_section_id,omitempty"`
	Context          string         `json:"context,omitempty"`
	RelevanceScore   float64        `json:"relevance_score"`
	IsActive         bool           `json:"is_active"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// ReferenceFilter narrows graph queries. Zero value means no filtering;
// inactive edges are excluded unless IncludeInactive is set.
type ReferenceFilter struct {
	VersionID       *string
	Type            *ReferenceType
	IncludeInactive bool
}

// ClampRelevance bounds a relevance score to [0, 1]. Scores outside the
// advertised range are clamped rather than rejected so that re-adding an
// existing edge stays idempotent.
func ClampRelevance(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
