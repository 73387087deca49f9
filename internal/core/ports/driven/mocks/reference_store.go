package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/aeromaint-labs/relgraph-core/internal/core/domain"
)

// MockReferenceStore is an in-memory ReferenceStore for testing.
type MockReferenceStore struct {
	mu    sync.RWMutex
	byID  map[string]*domain.DocumentReference
	byKey map[string]*domain.DocumentReference
	edges []*domain.DocumentReference // insertion order

	// Err, when set, is returned by every method.
	Err error
}

// NewMockReferenceStore creates a new MockReferenceStore.
func NewMockReferenceStore() *MockReferenceStore {
	return &MockReferenceStore{
		byID:  make(map[string]*domain.DocumentReference),
		byKey: make(map[string]*domain.DocumentReference),
	}
}

func edgeKey(ref *domain.DocumentReference) string {
	deref := func(s *string) string {
		if s == nil {
			return "\x00"
		}
		return *s
	}
	return ref.SourceDocumentID + "|" + ref.TargetDocumentID + "|" +
		deref(ref.SourceVersionID) + "|" + deref(ref.TargetVersionID) + "|" +
		deref(ref.SourceSectionID) + "|" + deref(ref.TargetSectionID)
}

func (m *MockReferenceStore) Add(ctx context.Context, ref *domain.DocumentReference) (*domain.DocumentReference, bool, error) {
	if m.Err != nil {
		return nil, false, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := edgeKey(ref)
	if existing, ok := m.byKey[key]; ok {
		return existing, false, nil
	}

	m.byID[ref.ID] = ref
	m.byKey[key] = ref
	m.edges = append(m.edges, ref)
	return ref, true, nil
}

func (m *MockReferenceStore) Get(ctx context.Context, id string) (*domain.DocumentReference, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	ref, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ref, nil
}

func matchesFilter(ref *domain.DocumentReference, versionID *string, filter domain.ReferenceFilter) bool {
	if !filter.IncludeInactive && !ref.IsActive {
		return false
	}
	if filter.Type != nil && ref.ReferenceType != *filter.Type {
		return false
	}
	if filter.VersionID != nil {
		if versionID == nil || *versionID != *filter.VersionID {
			return false
		}
	}
	return true
}

func (m *MockReferenceStore) ListFrom(ctx context.Context, documentID string, filter domain.ReferenceFilter) ([]*domain.DocumentReference, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*domain.DocumentReference
	for i := len(m.edges) - 1; i >= 0; i-- {
		ref := m.edges[i]
		if ref.SourceDocumentID == documentID && matchesFilter(ref, ref.SourceVersionID, filter) {
			out = append(out, ref)
		}
	}
	return out, nil
}

func (m *MockReferenceStore) ListTo(ctx context.Context, documentID string, filter domain.ReferenceFilter) ([]*domain.DocumentReference, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*domain.DocumentReference
	for i := len(m.edges) - 1; i >= 0; i-- {
		ref := m.edges[i]
		if ref.TargetDocumentID == documentID && matchesFilter(ref, ref.TargetVersionID, filter) {
			out = append(out, ref)
		}
	}
	return out, nil
}

func (m *MockReferenceStore) AffectedDocuments(ctx context.Context, documentID string) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, ref := range m.edges {
		if ref.TargetDocumentID != documentID || !ref.IsActive {
			continue
		}
		if !seen[ref.SourceDocumentID] {
			seen[ref.SourceDocumentID] = true
			out = append(out, ref.SourceDocumentID)
		}
	}
	return out, nil
}

func (m *MockReferenceStore) Delete(ctx context.Context, id string) (*domain.DocumentReference, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	ref, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	delete(m.byID, id)
	delete(m.byKey, edgeKey(ref))
	for i, e := range m.edges {
		if e.ID == id {
			m.edges = append(m.edges[:i], m.edges[i+1:]...)
			break
		}
	}
	return ref, nil
}

func (m *MockReferenceStore) Deactivate(ctx context.Context, ids []string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range ids {
		if ref, ok := m.byID[id]; ok {
			ref.IsActive = false
			ref.UpdatedAt = time.Now()
		}
	}
	return nil
}

// Helper methods for testing

func (m *MockReferenceStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID = make(map[string]*domain.DocumentReference)
	m.byKey = make(map[string]*domain.DocumentReference)
	m.edges = nil
	m.Err = nil
}

func (m *MockReferenceStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}
