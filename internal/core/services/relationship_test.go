package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aeromaint-labs/relgraph-core/internal/core/domain"
	"github.com/aeromaint-labs/relgraph-core/internal/core/ports/driven/mocks"
	"github.com/aeromaint-labs/relgraph-core/internal/core/ports/driving"
)

type engineFixture struct {
	versions      *mocks.MockVersionStore
	references    *mocks.MockReferenceStore
	analytics     *mocks.MockAnalyticsStore
	conflicts     *mocks.MockConflictStore
	notifications *mocks.MockNotificationStore
	lock          *mocks.MockLock
	engine        *RelationshipEngine
}

func newTestEngine() *engineFixture {
	f := &engineFixture{
		versions:      mocks.NewMockVersionStore(),
		references:    mocks.NewMockReferenceStore(),
		conflicts:     mocks.NewMockConflictStore(),
		notifications: mocks.NewMockNotificationStore(),
		lock:          mocks.NewMockLock(),
	}
	f.analytics = mocks.NewMockAnalyticsStore(f.references)
	f.versions.Notifications = f.notifications
	f.engine = NewRelationshipEngine(EngineConfig{
		Versions:      f.versions,
		References:    f.references,
		Analytics:     f.analytics,
		Conflicts:     f.conflicts,
		Notifications: f.notifications,
		Lock:          f.lock,
	})
	return f
}

func TestRelationshipEngine_AddDocumentVersion(t *testing.T) {
	f := newTestEngine()
	ctx := context.Background()

	v, err := f.engine.AddDocumentVersion(ctx, driving.AddVersionParams{
		DocumentID: "AMM-32-41-00",
		Version:    "1.0",
		Content:    map[string]any{"title": "Brake inspection", "interval_hours": 600},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.ID == "" {
		t.Error("expected generated version ID")
	}
	if v.ContentHash == "" {
		t.Error("expected computed content hash")
	}
	if !v.IsActive {
		t.Error("expected version to be active")
	}
	if f.versions.Count() != 1 {
		t.Errorf("expected 1 stored version, got %d", f.versions.Count())
	}
}

func TestRelationshipEngine_AddDocumentVersion_Validation(t *testing.T) {
	f := newTestEngine()
	ctx := context.Background()

	tests := []struct {
		name   string
		params driving.AddVersionParams
	}{
		{name: "missing document id", params: driving.AddVersionParams{Version: "1.0", Content: "x"}},
		{name: "missing version", params: driving.AddVersionParams{DocumentID: "AMM-1", Content: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.AddDocumentVersion(ctx, tt.params)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestRelationshipEngine_AddDocumentVersion_DuplicateReturnsStored(t *testing.T) {
	f := newTestEngine()
	ctx := context.Background()

	first, err := f.engine.AddDocumentVersion(ctx, driving.AddVersionParams{
		DocumentID: "AMM-32-41-00",
		Version:    "1.0",
		Content:    map[string]any{"title": "Brake inspection"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Same document and version label with different content: the stored
	// record wins, no error surfaces.
	second, err := f.engine.AddDocumentVersion(ctx, driving.AddVersionParams{
		DocumentID: "AMM-32-41-00",
		Version:    "1.0",
		Content:    map[string]any{"title": "Brake inspection", "revised": true},
	})
	if err != nil {
		t.Fatalf("unexpected error on duplicate: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected stored version %s, got %s", first.ID, second.ID)
	}
	if second.ContentHash != first.ContentHash {
		t.Error("expected stored content hash to be preserved")
	}
	if f.versions.Count() != 1 {
		t.Errorf("expected 1 stored version, got %d", f.versions.Count())
	}
}

func TestRelationshipEngine_AddDocumentVersion_NotifiesAffected(t *testing.T) {
	f := newTestEngine()
	ctx := context.Background()

	// SRM references AMM, so an AMM update must produce a notification
	// naming the SRM.
	mustAddVersion(t, f.engine, "AMM-32-41-00", "1.0")
	mustAddReference(t, f.engine, "SRM-51-10-01", "AMM-32-41-00", domain.ReferenceCitation)

	if _, err := f.engine.AddDocumentVersion(ctx, driving.AddVersionParams{
		DocumentID: "AMM-32-41-00",
		Version:    "2.0",
		Content:    map[string]any{"title": "Brake inspection", "rev": 2},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	notifications, err := f.engine.ListNotifications(ctx, "AMM-32-41-00", false, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifications))
	}
	n := notifications[0]
	if len(n.AffectedDocuments) != 1 || n.AffectedDocuments[0] != "SRM-51-10-01" {
		t.Errorf("expected affected documents [SRM-51-10-01], got %v", n.AffectedDocuments)
	}
	if n.IsRead {
		t.Error("expected notification to start unread")
	}
}

func TestRelationshipEngine_AddDocumentVersion_NoReferencesNoNotification(t *testing.T) {
	f := newTestEngine()

	mustAddVersion(t, f.engine, "AMM-32-41-00", "1.0")

	if f.notifications.Count() != 0 {
		t.Errorf("expected no notifications, got %d", f.notifications.Count())
	}
}

func TestRelationshipEngine_VerifyDocumentIntegrity(t *testing.T) {
	f := newTestEngine()
	ctx := context.Background()

	content := map[string]any{"title": "Brake inspection", "steps": []any{"jack", "remove", "inspect"}}
	if _, err := f.engine.AddDocumentVersion(ctx, driving.AddVersionParams{
		DocumentID: "AMM-32-41-00",
		Version:    "1.0",
		Content:    content,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Unmodified content verifies
	ok, err := f.engine.VerifyDocumentIntegrity(ctx, "AMM-32-41-00", "1.0", content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected integrity check to pass for unmodified content")
	}

	// Tampered content fails without an error
	tampered := map[string]any{"title": "Brake inspection", "steps": []any{"jack", "inspect"}}
	ok, err = f.engine.VerifyDocumentIntegrity(ctx, "AMM-32-41-00", "1.0", tampered)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected integrity check to fail for tampered content")
	}

	// Unknown version fails without an error
	ok, err = f.engine.VerifyDocumentIntegrity(ctx, "AMM-32-41-00", "9.9", content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected integrity check to fail for unknown version")
	}
}

func TestRelationshipEngine_AddDocumentReference_UpdatesAnalytics(t *testing.T) {
	f := newTestEngine()
	ctx := context.Background()

	ref, err := f.engine.AddDocumentReference(ctx, driving.AddReferenceParams{
		SourceDocumentID: "SRM-51-10-01",
		TargetDocumentID: "AMM-32-41-00",
		Type:             domain.ReferenceCitation,
		Context:          "see brake wear limits",
		RelevanceScore:   0.8,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ref.IsActive {
		t.Error("expected reference to be active")
	}

	a, err := f.engine.GetAnalytics(ctx, "AMM-32-41-00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ReferenceCount != 1 {
		t.Errorf("expected reference count 1, got %d", a.ReferenceCount)
	}
	if a.ReferenceDistribution[domain.ReferenceCitation] != 1 {
		t.Errorf("expected citation count 1, got %d", a.ReferenceDistribution[domain.ReferenceCitation])
	}
	if a.LastReferencedAt == nil {
		t.Error("expected last referenced timestamp to be set")
	}
}

func TestRelationshipEngine_AddDocumentReference_InvalidType(t *testing.T) {
	f := newTestEngine()

	_, err := f.engine.AddDocumentReference(context.Background(), driving.AddReferenceParams{
		SourceDocumentID: "SRM-51-10-01",
		TargetDocumentID: "AMM-32-41-00",
		Type:             domain.ReferenceType("footnote"),
	})
	if !errors.Is(err, domain.ErrInvalidReferenceType) {
		t.Errorf("expected ErrInvalidReferenceType, got %v", err)
	}
}

func TestRelationshipEngine_AddDocumentReference_Idempotent(t *testing.T) {
	f := newTestEngine()
	ctx := context.Background()

	params := driving.AddReferenceParams{
		SourceDocumentID: "SRM-51-10-01",
		TargetDocumentID: "AMM-32-41-00",
		Type:             domain.ReferenceCitation,
	}

	first, err := f.engine.AddDocumentReference(ctx, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := f.engine.AddDocumentReference(ctx, params)
	if err != nil {
		t.Fatalf("unexpected error on duplicate: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected stored reference %s, got %s", first.ID, second.ID)
	}

	a, err := f.engine.GetAnalytics(ctx, "AMM-32-41-00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ReferenceCount != 1 {
		t.Errorf("expected reference count 1 after duplicate add, got %d", a.ReferenceCount)
	}
}

func TestRelationshipEngine_AddDocumentReference_ClampsRelevance(t *testing.T) {
	f := newTestEngine()
	ctx := context.Background()

	ref, err := f.engine.AddDocumentReference(ctx, driving.AddReferenceParams{
		SourceDocumentID: "SRM-51-10-01",
		TargetDocumentID: "AMM-32-41-00",
		Type:             domain.ReferenceCitation,
		RelevanceScore:   1.7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.RelevanceScore != 1.0 {
		t.Errorf("expected relevance clamped to 1.0, got %v", ref.RelevanceScore)
	}
}

func TestRelationshipEngine_AddDocumentReference_ResolvesVersionLabels(t *testing.T) {
	f := newTestEngine()
	ctx := context.Background()

	target := mustAddVersion(t, f.engine, "AMM-32-41-00", "1.0")

	ref, err := f.engine.AddDocumentReference(ctx, driving.AddReferenceParams{
		SourceDocumentID: "SRM-51-10-01",
		TargetDocumentID: "AMM-32-41-00",
		Type:             domain.ReferenceCitation,
		SourceVersion:    "0.9", // unknown label stays unresolved
		TargetVersion:    "1.0",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.SourceVersionID != nil {
		t.Errorf("expected unknown source version to stay nil, got %v", *ref.SourceVersionID)
	}
	if ref.TargetVersionID == nil || *ref.TargetVersionID != target.ID {
		t.Errorf("expected target version ID %s, got %v", target.ID, ref.TargetVersionID)
	}
}

func TestRelationshipEngine_ReferenceDistributionSums(t *testing.T) {
	f := newTestEngine()
	ctx := context.Background()

	mustAddReference(t, f.engine, "SRM-51-10-01", "AMM-32-41-00", domain.ReferenceCitation)
	mustAddReference(t, f.engine, "IPC-32-41-02", "AMM-32-41-00", domain.ReferenceCitation)
	mustAddReference(t, f.engine, "SB-32-081", "AMM-32-41-00", domain.ReferenceSupersedes)

	a, err := f.engine.GetAnalytics(ctx, "AMM-32-41-00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	total := 0
	for _, n := range a.ReferenceDistribution {
		total += n
	}
	if total != a.ReferenceCount {
		t.Errorf("distribution sums to %d, reference count is %d", total, a.ReferenceCount)
	}
	if a.ReferenceDistribution[domain.ReferenceCitation] != 2 {
		t.Errorf("expected 2 citations, got %d", a.ReferenceDistribution[domain.ReferenceCitation])
	}
	if a.ReferenceDistribution[domain.ReferenceSupersedes] != 1 {
		t.Errorf("expected 1 supersedes, got %d", a.ReferenceDistribution[domain.ReferenceSupersedes])
	}
}

func TestRelationshipEngine_DeleteReference_RecomputesAnalytics(t *testing.T) {
	f := newTestEngine()
	ctx := context.Background()

	ref := mustAddReference(t, f.engine, "SRM-51-10-01", "AMM-32-41-00", domain.ReferenceCitation)
	mustAddReference(t, f.engine, "IPC-32-41-02", "AMM-32-41-00", domain.ReferenceRelated)

	if err := f.engine.DeleteReference(ctx, ref.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, err := f.engine.GetAnalytics(ctx, "AMM-32-41-00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ReferenceCount != 1 {
		t.Errorf("expected reference count 1 after delete, got %d", a.ReferenceCount)
	}
	if _, ok := a.ReferenceDistribution[domain.ReferenceCitation]; ok {
		t.Error("expected citation bucket to drop out of the distribution")
	}
}

func TestRelationshipEngine_DeleteReference_NotFound(t *testing.T) {
	f := newTestEngine()

	err := f.engine.DeleteReference(context.Background(), "missing-id")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRelationshipEngine_MigrateReferences(t *testing.T) {
	f := newTestEngine()
	ctx := context.Background()

	oldV := mustAddVersion(t, f.engine, "AMM-32-41-00", "1.0")
	newV := mustAddVersion(t, f.engine, "AMM-32-41-00", "2.0")

	// Incoming edge pinned to the old version
	if _, err := f.engine.AddDocumentReference(ctx, driving.AddReferenceParams{
		SourceDocumentID: "SRM-51-10-01",
		TargetDocumentID: "AMM-32-41-00",
		Type:             domain.ReferenceCitation,
		TargetVersion:    "1.0",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	migrated, err := f.engine.MigrateReferences(ctx, "AMM-32-41-00", "1.0", "2.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !migrated {
		t.Fatal("expected migration to run")
	}

	// Active edges now point at the new version
	active, err := f.engine.GetReferencesTo(ctx, "AMM-32-41-00", domain.ReferenceFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected 1 active edge, got %d", len(active))
	}
	if active[0].TargetVersionID == nil || *active[0].TargetVersionID != newV.ID {
		t.Errorf("expected active edge bound to version %s, got %v", newV.ID, active[0].TargetVersionID)
	}

	// The old edge survives, inactive, for history
	all, err := f.engine.GetReferencesTo(ctx, "AMM-32-41-00", domain.ReferenceFilter{IncludeInactive: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 edges including inactive, got %d", len(all))
	}
	foundRetired := false
	for _, ref := range all {
		if ref.TargetVersionID != nil && *ref.TargetVersionID == oldV.ID && !ref.IsActive {
			foundRetired = true
		}
	}
	if !foundRetired {
		t.Error("expected retired edge at the old version")
	}

	// Analytics count active edges only
	a, err := f.engine.GetAnalytics(ctx, "AMM-32-41-00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ReferenceCount != 1 {
		t.Errorf("expected reference count 1 after migration, got %d", a.ReferenceCount)
	}
}

func TestRelationshipEngine_MigrateReferences_UnknownVersion(t *testing.T) {
	f := newTestEngine()
	ctx := context.Background()

	mustAddVersion(t, f.engine, "AMM-32-41-00", "1.0")

	migrated, err := f.engine.MigrateReferences(ctx, "AMM-32-41-00", "1.0", "9.9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if migrated {
		t.Error("expected migration to report false for unknown new version")
	}

	migrated, err = f.engine.MigrateReferences(ctx, "AMM-32-41-00", "0.1", "1.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if migrated {
		t.Error("expected migration to report false for unknown old version")
	}
}

func TestRelationshipEngine_RecordView(t *testing.T) {
	f := newTestEngine()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := f.engine.RecordView(ctx, "AMM-32-41-00"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	a, err := f.engine.GetAnalytics(ctx, "AMM-32-41-00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ViewCount != 3 {
		t.Errorf("expected view count 3, got %d", a.ViewCount)
	}
	if a.LastViewedAt == nil {
		t.Error("expected last viewed timestamp to be set")
	}
}

func TestRelationshipEngine_GetAnalytics_NotFound(t *testing.T) {
	f := newTestEngine()

	_, err := f.engine.GetAnalytics(context.Background(), "unknown-doc")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRelationshipEngine_TopReferenced(t *testing.T) {
	f := newTestEngine()
	ctx := context.Background()

	mustAddReference(t, f.engine, "SRM-51-10-01", "AMM-32-41-00", domain.ReferenceCitation)
	mustAddReference(t, f.engine, "IPC-32-41-02", "AMM-32-41-00", domain.ReferenceRelated)
	mustAddReference(t, f.engine, "SRM-51-10-01", "AMM-29-10-00", domain.ReferenceCitation)

	top, err := f.engine.TopReferenced(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != 1 {
		t.Fatalf("expected 1 row, got %d", len(top))
	}
	if top[0].DocumentID != "AMM-32-41-00" {
		t.Errorf("expected AMM-32-41-00 on top, got %s", top[0].DocumentID)
	}
}

func TestRelationshipEngine_ConflictLifecycle(t *testing.T) {
	f := newTestEngine()
	ctx := context.Background()

	reported, err := f.engine.ReportConflict(ctx, driving.ReportConflictParams{
		DocumentID1:  "AMM-32-41-00",
		DocumentID2:  "SB-32-081",
		ConflictType: "procedure_mismatch",
		Description:  "torque values disagree",
		Severity:     domain.SeverityHigh,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reported.Status != domain.ConflictOpen {
		t.Errorf("expected open status, got %s", reported.Status)
	}

	// Re-reporting the same pair and type returns the stored conflict
	again, err := f.engine.ReportConflict(ctx, driving.ReportConflictParams{
		DocumentID1:  "AMM-32-41-00",
		DocumentID2:  "SB-32-081",
		ConflictType: "procedure_mismatch",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.ID != reported.ID {
		t.Errorf("expected stored conflict %s, got %s", reported.ID, again.ID)
	}

	resolved, err := f.engine.ResolveConflict(ctx, reported.ID, "SB supersedes AMM values", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.Status != domain.ConflictResolved {
		t.Errorf("expected resolved status, got %s", resolved.Status)
	}
	if resolved.Resolution == nil || *resolved.Resolution != "SB supersedes AMM values" {
		t.Error("expected resolution text to be recorded")
	}
	if resolved.ResolvedAt == nil {
		t.Error("expected resolved timestamp to be set")
	}

	// Filtering by open status now excludes it
	open := domain.ConflictOpen
	conflicts, err := f.engine.GetConflicts(ctx, domain.ConflictFilter{Status: &open})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conflicts) != 0 {
		t.Errorf("expected no open conflicts, got %d", len(conflicts))
	}
}

func TestRelationshipEngine_ResolveConflict_InvalidStatus(t *testing.T) {
	f := newTestEngine()

	_, err := f.engine.ResolveConflict(context.Background(), "any-id", "text", domain.ConflictOpen)
	if !errors.Is(err, domain.ErrInvalidConflictStatus) {
		t.Errorf("expected ErrInvalidConflictStatus, got %v", err)
	}
}

func TestRelationshipEngine_ReportConflict_Validation(t *testing.T) {
	f := newTestEngine()

	_, err := f.engine.ReportConflict(context.Background(), driving.ReportConflictParams{
		DocumentID1: "AMM-32-41-00",
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRelationshipEngine_Notifications_MarkRead(t *testing.T) {
	f := newTestEngine()
	ctx := context.Background()

	n, err := f.engine.CreateNotification(ctx, &domain.UpdateNotification{
		DocumentID: "SRM-51-10-01",
		Title:      "Referenced document updated",
		Severity:   domain.SeverityMedium,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.NotificationID == "" {
		t.Fatal("expected generated notification token")
	}

	if err := f.engine.MarkNotificationRead(ctx, n.NotificationID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	unread, err := f.engine.ListNotifications(ctx, "SRM-51-10-01", true, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(unread) != 0 {
		t.Errorf("expected no unread notifications, got %d", len(unread))
	}

	if err := f.engine.MarkNotificationRead(ctx, "unknown-token"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRelationshipEngine_AnalyticsLockSerializesRecompute(t *testing.T) {
	f := newTestEngine()

	mustAddReference(t, f.engine, "SRM-51-10-01", "AMM-32-41-00", domain.ReferenceCitation)
	mustAddReference(t, f.engine, "IPC-32-41-02", "AMM-32-41-00", domain.ReferenceCitation)

	if f.lock.Acquires != 2 {
		t.Errorf("expected 2 lock acquisitions, got %d", f.lock.Acquires)
	}
}

func TestRelationshipEngine_StoreErrorsPropagate(t *testing.T) {
	f := newTestEngine()
	ctx := context.Background()
	storeErr := errors.New("backend down")

	f.versions.Err = storeErr
	if _, err := f.engine.AddDocumentVersion(ctx, driving.AddVersionParams{
		DocumentID: "AMM-32-41-00", Version: "1.0", Content: "x",
	}); !errors.Is(err, storeErr) {
		t.Errorf("expected store error to propagate, got %v", err)
	}
	f.versions.Err = nil

	f.references.Err = storeErr
	if _, err := f.engine.AddDocumentReference(ctx, driving.AddReferenceParams{
		SourceDocumentID: "SRM-51-10-01",
		TargetDocumentID: "AMM-32-41-00",
		Type:             domain.ReferenceCitation,
	}); !errors.Is(err, storeErr) {
		t.Errorf("expected store error to propagate, got %v", err)
	}
}

// Helpers

func mustAddVersion(t *testing.T, engine *RelationshipEngine, documentID, version string) *domain.DocumentVersion {
	t.Helper()
	v, err := engine.AddDocumentVersion(context.Background(), driving.AddVersionParams{
		DocumentID: documentID,
		Version:    version,
		Content:    map[string]any{"document": documentID, "version": version},
	})
	if err != nil {
		t.Fatalf("add version %s/%s: %v", documentID, version, err)
	}
	return v
}

func mustAddReference(t *testing.T, engine *RelationshipEngine, source, target string, refType domain.ReferenceType) *domain.DocumentReference {
	t.Helper()
	ref, err := engine.AddDocumentReference(context.Background(), driving.AddReferenceParams{
		SourceDocumentID: source,
		TargetDocumentID: target,
		Type:             refType,
	})
	if err != nil {
		t.Fatalf("add reference %s -> %s: %v", source, target, err)
	}
	return ref
}
