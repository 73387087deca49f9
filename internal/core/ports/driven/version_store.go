package driven

import (
	"context"

	"github.com/aeromaint-labs/relgraph-core/internal/core/domain"
)

// VersionStore persists immutable document version records.
type VersionStore interface {
	// Add inserts a version record. (DocumentID, Version) is unique: if the
	// key already exists the stored record is returned unchanged with
	// inserted=false and no row is created.
	//
	// When notify is non-nil it is persisted together with the version, in
	// the same transaction, and only if the version row is newly inserted.
	// A version and its update notification therefore cannot diverge.
	Add(ctx context.Context, v *domain.DocumentVersion, notify *domain.UpdateNotification) (stored *domain.DocumentVersion, inserted bool, err error)

	// Get retrieves a version by document ID and version label. An empty
	// version label selects the most recently created version.
	// Returns domain.ErrNotFound if no matching version exists.
	Get(ctx context.Context, documentID, version string) (*domain.DocumentVersion, error)

	// List returns versions for a document, newest first. limit <= 0 means
	// no bound.
	List(ctx context.Context, documentID string, limit int) ([]*domain.DocumentVersion, error)
}
