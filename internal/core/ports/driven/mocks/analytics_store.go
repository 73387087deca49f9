package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aeromaint-labs/relgraph-core/internal/core/domain"
)

// MockAnalyticsStore is an in-memory AnalyticsStore for testing. It reads
// the reference graph from a MockReferenceStore, the same way the real
// adapter aggregates over the references table.
type MockAnalyticsStore struct {
	mu   sync.RWMutex
	rows map[string]*domain.DocumentAnalytics
	refs *MockReferenceStore

	// Err, when set, is returned by every method.
	Err error
}

// NewMockAnalyticsStore creates a new MockAnalyticsStore backed by the
// given reference store.
func NewMockAnalyticsStore(refs *MockReferenceStore) *MockAnalyticsStore {
	return &MockAnalyticsStore{
		rows: make(map[string]*domain.DocumentAnalytics),
		refs: refs,
	}
}

func (m *MockAnalyticsStore) row(documentID string) *domain.DocumentAnalytics {
	a, ok := m.rows[documentID]
	if !ok {
		a = &domain.DocumentAnalytics{
			DocumentID:            documentID,
			ReferenceDistribution: make(map[domain.ReferenceType]int),
		}
		m.rows[documentID] = a
	}
	return a
}

func (m *MockAnalyticsStore) RecomputeReferences(ctx context.Context, documentID string) (*domain.DocumentAnalytics, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	incoming, err := m.refs.ListTo(ctx, documentID, domain.ReferenceFilter{})
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	a := m.row(documentID)
	a.ReferenceCount = len(incoming)
	a.ReferenceDistribution = make(map[domain.ReferenceType]int)
	for _, ref := range incoming {
		a.ReferenceDistribution[ref.ReferenceType]++
	}
	now := time.Now()
	a.LastReferencedAt = &now
	return a, nil
}

func (m *MockAnalyticsStore) RecordView(ctx context.Context, documentID string) (*domain.DocumentAnalytics, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	a := m.row(documentID)
	a.ViewCount++
	now := time.Now()
	a.LastViewedAt = &now
	return a, nil
}

func (m *MockAnalyticsStore) Get(ctx context.Context, documentID string) (*domain.DocumentAnalytics, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.rows[documentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (m *MockAnalyticsStore) TopByReferences(ctx context.Context, limit int) ([]*domain.DocumentAnalytics, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.top(limit, func(a, b *domain.DocumentAnalytics) bool {
		return a.ReferenceCount > b.ReferenceCount
	}), nil
}

func (m *MockAnalyticsStore) TopByViews(ctx context.Context, limit int) ([]*domain.DocumentAnalytics, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.top(limit, func(a, b *domain.DocumentAnalytics) bool {
		return a.ViewCount > b.ViewCount
	}), nil
}

func (m *MockAnalyticsStore) top(limit int, less func(a, b *domain.DocumentAnalytics) bool) []*domain.DocumentAnalytics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.DocumentAnalytics, 0, len(m.rows))
	for _, a := range m.rows {
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Helper methods for testing

func (m *MockAnalyticsStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = make(map[string]*domain.DocumentAnalytics)
	m.Err = nil
}
