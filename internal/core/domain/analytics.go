package domain

import "time"

// DocumentAnalytics holds per-document aggregate counters. The reference
// side is derived state: ReferenceCount and ReferenceDistribution always
// equal the live aggregate over active incoming references, recomputed after
// every edge insert or delete targeting the document. ViewCount only grows.
type DocumentAnalytics struct {
	DocumentID            string                `json:"document_id"`
	ReferenceCount        int                   `json:"reference_count"`
	ViewCount             int                   `json:"view_count"`
	LastReferencedAt      *time.Time            `json:"last_referenced_at,omitempty"`
	LastViewedAt          *time.Time            `json:"last_viewed_at,omitempty"`
	ReferenceDistribution map[ReferenceType]int `json:"reference_distribution"`
	Metadata              map[string]any        `json:"metadata,omitempty"`
}
