package driven

import (
	"context"

	"github.com/aeromaint-labs/relgraph-core/internal/core/domain"
)

// ReferenceStore persists the directed, typed reference graph between
// documents. Queries are single-hop; multi-hop traversal and cycle handling
// are the caller's responsibility.
type ReferenceStore interface {
	// Add inserts an edge. The 6-tuple (source, target, source version,
	// target version, source section, target section) is unique: if an
	// identical edge exists it is returned with inserted=false and no row
	// is created.
	Add(ctx context.Context, ref *domain.DocumentReference) (stored *domain.DocumentReference, inserted bool, err error)

	// Get retrieves an edge by ID. Returns domain.ErrNotFound if missing.
	Get(ctx context.Context, id string) (*domain.DocumentReference, error)

	// ListFrom returns edges whose source is documentID, newest first.
	ListFrom(ctx context.Context, documentID string, filter domain.ReferenceFilter) ([]*domain.DocumentReference, error)

	// ListTo returns edges whose target is documentID, newest first.
	ListTo(ctx context.Context, documentID string, filter domain.ReferenceFilter) ([]*domain.DocumentReference, error)

	// AffectedDocuments returns the distinct source document IDs of active
	// edges targeting documentID, regardless of version.
	AffectedDocuments(ctx context.Context, documentID string) ([]string, error)

	// Delete removes an edge and returns the removed record so the caller
	// can recompute analytics for its target.
	// Returns domain.ErrNotFound if missing.
	Delete(ctx context.Context, id string) (*domain.DocumentReference, error)

	// Deactivate marks the given edges inactive. Missing IDs are ignored.
	Deactivate(ctx context.Context, ids []string) error
}
