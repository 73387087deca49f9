package driving

import (
	"context"

	"github.com/aeromaint-labs/relgraph-core/internal/core/domain"
)

// AddVersionParams are the inputs for registering a new document version.
// Content is the structured document content; only its hash is stored.
type AddVersionParams struct {
	DocumentID string
	Version    string
	Content    any
	Changes    map[string]any
	Metadata   map[string]any
}

// AddReferenceParams are the inputs for asserting a reference between two
// documents. Version fields are labels resolved best-effort against the
// version store: an unknown label leaves the corresponding version ID unset
// rather than failing.
type AddReferenceParams struct {
	SourceDocumentID string
	TargetDocumentID string
	Type             domain.ReferenceType
	SourceVersion    string
	TargetVersion    string
	SourceSectionID  *string
	TargetSectionID  *string
	Context          string
	RelevanceScore   float64
	Metadata         map[string]any
}

// ReportConflictParams are the inputs for recording a conflict between two
// documents.
type ReportConflictParams struct {
	DocumentID1  string
	DocumentID2  string
	ConflictType string
	Description  string
	Severity     domain.Severity
	Metadata     map[string]any
}

// RelationshipEngine is the orchestration surface of the document
// relationship core. It composes the version, reference, analytics,
// conflict and notification stores.
//
// Graph reads are single-hop. Callers traversing beyond one hop must keep
// their own visited set; the engine performs no cycle detection.
type RelationshipEngine interface {
	// AddDocumentVersion hashes the content, records the version
	// (idempotent on document ID + version label) and, when other
	// documents reference this one, files an update notification naming
	// them. Re-adding an existing version returns the stored record and
	// files no notification.
	AddDocumentVersion(ctx context.Context, p AddVersionParams) (*domain.DocumentVersion, error)

	// GetVersion returns one version, or the latest when version is empty.
	GetVersion(ctx context.Context, documentID, version string) (*domain.DocumentVersion, error)

	// ListVersions returns a document's versions, newest first.
	ListVersions(ctx context.Context, documentID string, limit int) ([]*domain.DocumentVersion, error)

	// VerifyDocumentIntegrity recomputes the content hash and compares it
	// to the stored one. A mismatch or a missing version yields false, not
	// an error.
	VerifyDocumentIntegrity(ctx context.Context, documentID, version string, content any) (bool, error)

	// AddDocumentReference records an edge (idempotent on the full edge
	// tuple) and brings the target document's analytics up to date.
	AddDocumentReference(ctx context.Context, p AddReferenceParams) (*domain.DocumentReference, error)

	// GetReferencesFrom and GetReferencesTo are one-hop graph reads.
	GetReferencesFrom(ctx context.Context, documentID string, filter domain.ReferenceFilter) ([]*domain.DocumentReference, error)
	GetReferencesTo(ctx context.Context, documentID string, filter domain.ReferenceFilter) ([]*domain.DocumentReference, error)

	// DeleteReference removes an edge and recomputes the former target's
	// analytics.
	DeleteReference(ctx context.Context, id string) error

	// MigrateReferences rebinds the references touching documentID at
	// oldVersion onto newVersion: each affected edge is re-created against
	// the new version and the old-version edge is deactivated. Returns
	// false if either version label is unknown.
	MigrateReferences(ctx context.Context, documentID, oldVersion, newVersion string) (bool, error)

	// AffectedDocuments returns the documents that actively reference the
	// given one.
	AffectedDocuments(ctx context.Context, documentID string) ([]string, error)

	// RecordView counts one view of a document.
	RecordView(ctx context.Context, documentID string) (*domain.DocumentAnalytics, error)

	// GetAnalytics returns a document's aggregate counters.
	GetAnalytics(ctx context.Context, documentID string) (*domain.DocumentAnalytics, error)

	// TopReferenced and TopViewed are descending top-N reads.
	TopReferenced(ctx context.Context, limit int) ([]*domain.DocumentAnalytics, error)
	TopViewed(ctx context.Context, limit int) ([]*domain.DocumentAnalytics, error)

	// ReportConflict records a conflict (idempotent on the document pair
	// plus conflict type). New conflicts start open.
	ReportConflict(ctx context.Context, p ReportConflictParams) (*domain.DocumentConflict, error)

	// GetConflicts lists conflicts; the filter document ID matches either
	// side of a pair.
	GetConflicts(ctx context.Context, filter domain.ConflictFilter) ([]*domain.DocumentConflict, error)

	// ResolveConflict transitions a conflict to the given status (resolved
	// when status is empty), recording the resolution text.
	ResolveConflict(ctx context.Context, id, resolution string, status domain.ConflictStatus) (*domain.DocumentConflict, error)

	// CreateNotification records a notification built by a layer above the
	// engine, filling in identifiers and timestamp when absent.
	CreateNotification(ctx context.Context, n *domain.UpdateNotification) (*domain.UpdateNotification, error)

	// ListNotifications returns update notifications, newest first.
	ListNotifications(ctx context.Context, documentID string, unreadOnly bool, limit int) ([]*domain.UpdateNotification, error)

	// MarkNotificationRead flips the read flag on a notification token.
	MarkNotificationRead(ctx context.Context, notificationID string) error
}
