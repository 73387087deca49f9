package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/aeromaint-labs/relgraph-core/internal/contenthash"
	"github.com/aeromaint-labs/relgraph-core/internal/core/domain"
	"github.com/aeromaint-labs/relgraph-core/internal/core/ports/driven"
	"github.com/aeromaint-labs/relgraph-core/internal/core/ports/driving"
	"github.com/aeromaint-labs/relgraph-core/internal/metrics"
)

// Ensure RelationshipEngine implements the driving port
var _ driving.RelationshipEngine = (*RelationshipEngine)(nil)

const (
	defaultLockTTL  = 10 * time.Second
	defaultLockWait = 2 * time.Second
	lockRetryEvery  = 50 * time.Millisecond
)

// RelationshipEngine composes the five stores into the document
// relationship core. Construct it once at process start and pass it to
// callers; it holds no global state.
type RelationshipEngine struct {
	versions      driven.VersionStore
	references    driven.ReferenceStore
	analytics     driven.AnalyticsStore
	conflicts     driven.ConflictStore
	notifications driven.NotificationStore
	lock          driven.DistributedLock
	metrics       *metrics.Metrics
	logger        *slog.Logger
	now           func() time.Time
}

// EngineConfig holds dependencies for RelationshipEngine. The five stores
// are required; Lock, Metrics, Logger and Now are optional.
type EngineConfig struct {
	Versions      driven.VersionStore
	References    driven.ReferenceStore
	Analytics     driven.AnalyticsStore
	Conflicts     driven.ConflictStore
	Notifications driven.NotificationStore
	Lock          driven.DistributedLock
	Metrics       *metrics.Metrics
	Logger        *slog.Logger
	Now           func() time.Time
}

// NewRelationshipEngine creates a new RelationshipEngine.
func NewRelationshipEngine(cfg EngineConfig) *RelationshipEngine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &RelationshipEngine{
		versions:      cfg.Versions,
		references:    cfg.References,
		analytics:     cfg.Analytics,
		conflicts:     cfg.Conflicts,
		notifications: cfg.Notifications,
		lock:          cfg.Lock,
		metrics:       cfg.Metrics,
		logger:        logger,
		now:           now,
	}
}

// AddDocumentVersion hashes the content and records the version. When other
// documents actively reference the updated one, an update notification
// naming them is written in the same transaction as the version row.
func (e *RelationshipEngine) AddDocumentVersion(ctx context.Context, p driving.AddVersionParams) (*domain.DocumentVersion, error) {
	if p.DocumentID == "" || p.Version == "" {
		return nil, fmt.Errorf("%w: document id and version are required", domain.ErrInvalidInput)
	}

	hash, err := contenthash.Hash(p.Content)
	if err != nil {
		return nil, err
	}

	affected, err := e.references.AffectedDocuments(ctx, p.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("compute affected documents: %w", err)
	}

	now := e.now()
	version := &domain.DocumentVersion{
		ID:          uuid.NewString(),
		DocumentID:  p.DocumentID,
		Version:     p.Version,
		ContentHash: hash,
		Changes:     p.Changes,
		Metadata:    p.Metadata,
		IsActive:    true,
		CreatedAt:   now,
	}

	var notify *domain.UpdateNotification
	if len(affected) > 0 {
		notify = &domain.UpdateNotification{
			ID:                uuid.NewString(),
			NotificationID:    uuid.NewString(),
			DocumentID:        p.DocumentID,
			VersionID:         version.ID,
			Title:             fmt.Sprintf("Document %s updated to version %s", p.DocumentID, p.Version),
			Description:       fmt.Sprintf("%d referencing document(s) may be affected by this update", len(affected)),
			Severity:          domain.SeverityMedium,
			AffectedDocuments: affected,
			CreatedAt:         now,
		}
	}

	stored, inserted, err := e.versions.Add(ctx, version, notify)
	if err != nil {
		return nil, fmt.Errorf("add version %s/%s: %w", p.DocumentID, p.Version, err)
	}

	if !inserted {
		if stored.ContentHash != hash {
			e.logger.Warn("version re-added with different content, keeping stored record",
				"document_id", p.DocumentID,
				"version", p.Version,
				"stored_hash", stored.ContentHash,
				"new_hash", hash)
		} else {
			e.logger.Warn("version already exists, returning stored record",
				"document_id", p.DocumentID,
				"version", p.Version)
		}
		if e.metrics != nil {
			e.metrics.DuplicateVersions.Inc()
		}
		return stored, nil
	}

	e.logger.Info("document version added",
		"document_id", p.DocumentID,
		"version", p.Version,
		"affected_documents", len(affected))
	if e.metrics != nil {
		e.metrics.VersionsAdded.Inc()
		if notify != nil {
			e.metrics.NotificationsCreated.Inc()
		}
	}
	return stored, nil
}

// GetVersion returns one version, or the latest when version is empty.
func (e *RelationshipEngine) GetVersion(ctx context.Context, documentID, version string) (*domain.DocumentVersion, error) {
	return e.versions.Get(ctx, documentID, version)
}

// ListVersions returns a document's versions, newest first.
func (e *RelationshipEngine) ListVersions(ctx context.Context, documentID string, limit int) ([]*domain.DocumentVersion, error) {
	return e.versions.List(ctx, documentID, limit)
}

// VerifyDocumentIntegrity recomputes the hash of content and compares it to
// the stored hash of the named version. A missing version or a mismatch
// yields false without an error.
func (e *RelationshipEngine) VerifyDocumentIntegrity(ctx context.Context, documentID, version string, content any) (bool, error) {
	stored, err := e.versions.Get(ctx, documentID, version)
	if errors.Is(err, domain.ErrNotFound) {
		e.countIntegrity("missing")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	hash, err := contenthash.Hash(content)
	if err != nil {
		return false, err
	}

	if hash != stored.ContentHash {
		e.logger.Warn("document integrity check failed",
			"document_id", documentID,
			"version", version)
		e.countIntegrity("mismatch")
		return false, nil
	}
	e.countIntegrity("ok")
	return true, nil
}

func (e *RelationshipEngine) countIntegrity(result string) {
	if e.metrics != nil {
		e.metrics.IntegrityChecks.WithLabelValues(result).Inc()
	}
}

// AddDocumentReference records an edge and brings the target document's
// analytics up to date. Version labels resolve best-effort: an unknown
// label leaves the corresponding version ID unset.
func (e *RelationshipEngine) AddDocumentReference(ctx context.Context, p driving.AddReferenceParams) (*domain.DocumentReference, error) {
	if p.SourceDocumentID == "" || p.TargetDocumentID == "" {
		return nil, fmt.Errorf("%w: source and target document ids are required", domain.ErrInvalidInput)
	}
	if !p.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidReferenceType, p.Type)
	}

	sourceVersionID, err := e.resolveVersionID(ctx, p.SourceDocumentID, p.SourceVersion)
	if err != nil {
		return nil, err
	}
	targetVersionID, err := e.resolveVersionID(ctx, p.TargetDocumentID, p.TargetVersion)
	if err != nil {
		return nil, err
	}

	now := e.now()
	ref := &domain.DocumentReference{
		ID:               uuid.NewString(),
		SourceDocumentID: p.SourceDocumentID,
		TargetDocumentID: p.TargetDocumentID,
		SourceVersionID:  sourceVersionID,
		TargetVersionID:  targetVersionID,
		ReferenceType:    p.Type,
		SourceSectionID:  p.SourceSectionID,
		TargetSectionID:  p.TargetSectionID,
		Context:          p.Context,
		RelevanceScore:   domain.ClampRelevance(p.RelevanceScore),
		IsActive:         true,
		Metadata:         p.Metadata,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	stored, inserted, err := e.references.Add(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("add reference %s -> %s: %w", p.SourceDocumentID, p.TargetDocumentID, err)
	}

	// Recompute even on a duplicate: the recompute is idempotent and makes
	// a retry after a previous partial failure self-healing.
	if err := e.recomputeAnalytics(ctx, p.TargetDocumentID); err != nil {
		return nil, err
	}

	if inserted {
		e.logger.Info("reference added",
			"source", p.SourceDocumentID,
			"target", p.TargetDocumentID,
			"reference_type", p.Type.String())
		if e.metrics != nil {
			e.metrics.ReferencesAdded.Inc()
		}
	}
	return stored, nil
}

// resolveVersionID maps a version label to a version row ID. A missing
// label is not an error; the edge is simply recorded without version
// scoping on that side.
func (e *RelationshipEngine) resolveVersionID(ctx context.Context, documentID, version string) (*string, error) {
	if version == "" {
		return nil, nil
	}
	v, err := e.versions.Get(ctx, documentID, version)
	if errors.Is(err, domain.ErrNotFound) {
		e.logger.Debug("version label not found, leaving reference unversioned",
			"document_id", documentID,
			"version", version)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v.ID, nil
}

// GetReferencesFrom returns outgoing edges, one hop.
func (e *RelationshipEngine) GetReferencesFrom(ctx context.Context, documentID string, filter domain.ReferenceFilter) ([]*domain.DocumentReference, error) {
	return e.references.ListFrom(ctx, documentID, filter)
}

// GetReferencesTo returns incoming edges, one hop.
func (e *RelationshipEngine) GetReferencesTo(ctx context.Context, documentID string, filter domain.ReferenceFilter) ([]*domain.DocumentReference, error) {
	return e.references.ListTo(ctx, documentID, filter)
}

// DeleteReference removes an edge and recomputes the former target's
// analytics.
func (e *RelationshipEngine) DeleteReference(ctx context.Context, id string) error {
	deleted, err := e.references.Delete(ctx, id)
	if err != nil {
		return err
	}

	if err := e.recomputeAnalytics(ctx, deleted.TargetDocumentID); err != nil {
		return err
	}

	e.logger.Info("reference deleted",
		"reference_id", id,
		"target", deleted.TargetDocumentID)
	if e.metrics != nil {
		e.metrics.ReferencesDeleted.Inc()
	}
	return nil
}

// MigrateReferences rebinds all edges touching documentID at oldVersion
// onto newVersion. Each affected edge is re-created against the new version
// and the old edge is deactivated, so analytics never double-count a
// migrated relationship. Returns false when either version label is
// unknown.
func (e *RelationshipEngine) MigrateReferences(ctx context.Context, documentID, oldVersion, newVersion string) (bool, error) {
	oldRec, err := e.versions.Get(ctx, documentID, oldVersion)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	newRec, err := e.versions.Get(ctx, documentID, newVersion)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	filter := domain.ReferenceFilter{VersionID: &oldRec.ID}
	outgoing, err := e.references.ListFrom(ctx, documentID, filter)
	if err != nil {
		return false, err
	}
	incoming, err := e.references.ListTo(ctx, documentID, filter)
	if err != nil {
		return false, err
	}

	var retired []string
	targets := make(map[string]bool)
	migrated := 0

	for _, ref := range outgoing {
		clone := e.cloneReference(ref)
		clone.SourceVersionID = &newRec.ID
		if _, inserted, err := e.references.Add(ctx, clone); err != nil {
			return false, fmt.Errorf("migrate outgoing reference %s: %w", ref.ID, err)
		} else if inserted {
			migrated++
		}
		retired = append(retired, ref.ID)
		targets[ref.TargetDocumentID] = true
	}

	for _, ref := range incoming {
		clone := e.cloneReference(ref)
		clone.TargetVersionID = &newRec.ID
		if _, inserted, err := e.references.Add(ctx, clone); err != nil {
			return false, fmt.Errorf("migrate incoming reference %s: %w", ref.ID, err)
		} else if inserted {
			migrated++
		}
		retired = append(retired, ref.ID)
		targets[documentID] = true
	}

	if len(retired) > 0 {
		if err := e.references.Deactivate(ctx, retired); err != nil {
			return false, fmt.Errorf("deactivate migrated references: %w", err)
		}
	}

	for target := range targets {
		if err := e.recomputeAnalytics(ctx, target); err != nil {
			return false, err
		}
	}

	e.logger.Info("references migrated",
		"document_id", documentID,
		"old_version", oldVersion,
		"new_version", newVersion,
		"migrated", migrated)
	if e.metrics != nil {
		e.metrics.ReferencesMigrated.Add(float64(migrated))
	}
	return true, nil
}

func (e *RelationshipEngine) cloneReference(ref *domain.DocumentReference) *domain.DocumentReference {
	now := e.now()
	clone := *ref
	clone.ID = uuid.NewString()
	clone.IsActive = true
	clone.CreatedAt = now
	clone.UpdatedAt = now
	clone.Metadata = maps.Clone(ref.Metadata)
	return &clone
}

// AffectedDocuments returns the documents that actively reference the
// given one.
func (e *RelationshipEngine) AffectedDocuments(ctx context.Context, documentID string) ([]string, error) {
	return e.references.AffectedDocuments(ctx, documentID)
}

// recomputeAnalytics rebuilds the reference aggregates for one document,
// serialized per document through the distributed lock when one is
// configured. If the lock cannot be acquired within the wait budget the
// recompute proceeds anyway: the storage-level recompute is atomic, the
// lock only narrows the window in which two recomputes interleave.
func (e *RelationshipEngine) recomputeAnalytics(ctx context.Context, documentID string) error {
	if e.lock != nil {
		release, err := e.acquireAnalyticsLock(ctx, documentID)
		if err != nil {
			return err
		}
		if release != nil {
			defer release()
		}
	}

	if _, err := e.analytics.RecomputeReferences(ctx, documentID); err != nil {
		return fmt.Errorf("recompute analytics for %s: %w", documentID, err)
	}
	if e.metrics != nil {
		e.metrics.AnalyticsRecomputes.Inc()
	}
	return nil
}

// acquireAnalyticsLock tries to take the per-document recompute lock. A nil
// release func with a nil error means the caller should proceed unlocked.
func (e *RelationshipEngine) acquireAnalyticsLock(ctx context.Context, documentID string) (func(), error) {
	name := "analytics:" + documentID
	deadline := e.now().Add(defaultLockWait)
	for {
		ok, err := e.lock.Acquire(ctx, name, defaultLockTTL)
		if err != nil {
			e.logger.Warn("analytics lock unavailable", "document_id", documentID, "error", err)
			return nil, nil
		}
		if ok {
			return func() {
				if err := e.lock.Release(context.WithoutCancel(ctx), name); err != nil {
					e.logger.Warn("analytics lock release failed", "document_id", documentID, "error", err)
				}
			}, nil
		}
		if e.now().After(deadline) {
			e.logger.Warn("analytics lock wait exceeded, recomputing without lock", "document_id", documentID)
			return nil, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryEvery):
		}
	}
}

// RecordView counts one view of a document.
func (e *RelationshipEngine) RecordView(ctx context.Context, documentID string) (*domain.DocumentAnalytics, error) {
	a, err := e.analytics.RecordView(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if e.metrics != nil {
		e.metrics.ViewsRecorded.Inc()
	}
	return a, nil
}

// GetAnalytics returns a document's aggregate counters.
func (e *RelationshipEngine) GetAnalytics(ctx context.Context, documentID string) (*domain.DocumentAnalytics, error) {
	return e.analytics.Get(ctx, documentID)
}

// TopReferenced returns the most-referenced documents.
func (e *RelationshipEngine) TopReferenced(ctx context.Context, limit int) ([]*domain.DocumentAnalytics, error) {
	return e.analytics.TopByReferences(ctx, clampLimit(limit))
}

// TopViewed returns the most-viewed documents.
func (e *RelationshipEngine) TopViewed(ctx context.Context, limit int) ([]*domain.DocumentAnalytics, error) {
	return e.analytics.TopByViews(ctx, clampLimit(limit))
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	if limit > 100 {
		return 100
	}
	return limit
}

// ReportConflict records a conflict between two documents. New conflicts
// start open; re-reporting an existing pair and type returns the stored
// record.
func (e *RelationshipEngine) ReportConflict(ctx context.Context, p driving.ReportConflictParams) (*domain.DocumentConflict, error) {
	if p.DocumentID1 == "" || p.DocumentID2 == "" || p.ConflictType == "" {
		return nil, fmt.Errorf("%w: both document ids and a conflict type are required", domain.ErrInvalidInput)
	}
	severity := p.Severity
	if severity == "" {
		severity = domain.SeverityMedium
	}

	now := e.now()
	conflict := &domain.DocumentConflict{
		ID:           uuid.NewString(),
		DocumentID1:  p.DocumentID1,
		DocumentID2:  p.DocumentID2,
		ConflictType: p.ConflictType,
		Description:  p.Description,
		Severity:     severity,
		Status:       domain.ConflictOpen,
		Metadata:     p.Metadata,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	stored, inserted, err := e.conflicts.Add(ctx, conflict)
	if err != nil {
		return nil, fmt.Errorf("add conflict %s/%s: %w", p.DocumentID1, p.DocumentID2, err)
	}
	if inserted {
		e.logger.Info("conflict reported",
			"document_id_1", p.DocumentID1,
			"document_id_2", p.DocumentID2,
			"conflict_type", p.ConflictType,
			"severity", severity.String())
		if e.metrics != nil {
			e.metrics.ConflictsReported.Inc()
		}
	}
	return stored, nil
}

// GetConflicts lists conflicts matching the filter.
func (e *RelationshipEngine) GetConflicts(ctx context.Context, filter domain.ConflictFilter) ([]*domain.DocumentConflict, error) {
	return e.conflicts.List(ctx, filter)
}

// ResolveConflict transitions a conflict out of the open state. An empty
// status resolves; the only other accepted status is ignored.
func (e *RelationshipEngine) ResolveConflict(ctx context.Context, id, resolution string, status domain.ConflictStatus) (*domain.DocumentConflict, error) {
	if status == "" {
		status = domain.ConflictResolved
	}
	if status != domain.ConflictResolved && status != domain.ConflictIgnored {
		return nil, fmt.Errorf("%w: cannot resolve to %q", domain.ErrInvalidConflictStatus, status)
	}

	resolved, err := e.conflicts.Resolve(ctx, id, resolution, status)
	if err != nil {
		return nil, err
	}
	e.logger.Info("conflict resolved", "conflict_id", id, "status", status.String())
	if e.metrics != nil {
		e.metrics.ConflictsResolved.Inc()
	}
	return resolved, nil
}

// ListNotifications returns update notifications, newest first.
func (e *RelationshipEngine) ListNotifications(ctx context.Context, documentID string, unreadOnly bool, limit int) ([]*domain.UpdateNotification, error) {
	return e.notifications.List(ctx, documentID, unreadOnly, limit)
}

// MarkNotificationRead flips the read flag on a notification token.
func (e *RelationshipEngine) MarkNotificationRead(ctx context.Context, notificationID string) error {
	return e.notifications.MarkRead(ctx, notificationID)
}

// CreateNotification records a notification built by a caller above the
// engine, such as the notification service.
func (e *RelationshipEngine) CreateNotification(ctx context.Context, n *domain.UpdateNotification) (*domain.UpdateNotification, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.NotificationID == "" {
		n.NotificationID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = e.now()
	}
	stored, err := e.notifications.Add(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("add notification for %s: %w", n.DocumentID, err)
	}
	if e.metrics != nil {
		e.metrics.NotificationsCreated.Inc()
	}
	return stored, nil
}
