package driven

import (
	"context"

	"github.com/aeromaint-labs/relgraph-core/internal/core/domain"
)

// ConflictStore persists pairwise conflict records between documents.
type ConflictStore interface {
	// Add inserts a conflict. (DocumentID1, DocumentID2, ConflictType) is
	// unique: if the key exists the stored record is returned with
	// inserted=false.
	Add(ctx context.Context, c *domain.DocumentConflict) (stored *domain.DocumentConflict, inserted bool, err error)

	// Get retrieves a conflict by ID. Returns domain.ErrNotFound if missing.
	Get(ctx context.Context, id string) (*domain.DocumentConflict, error)

	// List returns conflicts matching the filter, newest first. A filter
	// document ID matches either side of the pair.
	List(ctx context.Context, filter domain.ConflictFilter) ([]*domain.DocumentConflict, error)

	// Resolve transitions a conflict out of the open state, recording the
	// resolution text. Returns domain.ErrNotFound if the conflict does not
	// exist.
	Resolve(ctx context.Context, id, resolution string, status domain.ConflictStatus) (*domain.DocumentConflict, error)
}
