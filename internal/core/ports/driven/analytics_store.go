package driven

import (
	"context"

	"github.com/aeromaint-labs/relgraph-core/internal/core/domain"
)

// AnalyticsStore maintains per-document aggregate counters.
type AnalyticsStore interface {
	// RecomputeReferences rebuilds the reference-side aggregates for a
	// document from its active incoming edges and returns the stored row.
	// The recount and the upsert must be atomic with respect to concurrent
	// recomputes for the same document.
	RecomputeReferences(ctx context.Context, documentID string) (*domain.DocumentAnalytics, error)

	// RecordView atomically increments the view counter, creating the row
	// on first view.
	RecordView(ctx context.Context, documentID string) (*domain.DocumentAnalytics, error)

	// Get retrieves the analytics row for a document.
	// Returns domain.ErrNotFound if the document has no analytics yet.
	Get(ctx context.Context, documentID string) (*domain.DocumentAnalytics, error)

	// TopByReferences returns up to limit rows ordered by reference count
	// descending.
	TopByReferences(ctx context.Context, limit int) ([]*domain.DocumentAnalytics, error)

	// TopByViews returns up to limit rows ordered by view count descending.
	TopByViews(ctx context.Context, limit int) ([]*domain.DocumentAnalytics, error)
}
