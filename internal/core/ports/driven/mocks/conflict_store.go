package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/aeromaint-labs/relgraph-core/internal/core/domain"
)

// MockConflictStore is an in-memory ConflictStore for testing.
type MockConflictStore struct {
	mu        sync.RWMutex
	byID      map[string]*domain.DocumentConflict
	byKey     map[string]*domain.DocumentConflict
	conflicts []*domain.DocumentConflict // insertion order

	// Err, when set, is returned by every method.
	Err error
}

// NewMockConflictStore creates a new MockConflictStore.
func NewMockConflictStore() *MockConflictStore {
	return &MockConflictStore{
		byID:  make(map[string]*domain.DocumentConflict),
		byKey: make(map[string]*domain.DocumentConflict),
	}
}

func conflictKey(c *domain.DocumentConflict) string {
	return c.DocumentID1 + "|" + c.DocumentID2 + "|" + c.ConflictType
}

func (m *MockConflictStore) Add(ctx context.Context, c *domain.DocumentConflict) (*domain.DocumentConflict, bool, error) {
	if m.Err != nil {
		return nil, false, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := conflictKey(c)
	if existing, ok := m.byKey[key]; ok {
		return existing, false, nil
	}

	m.byID[c.ID] = c
	m.byKey[key] = c
	m.conflicts = append(m.conflicts, c)
	return c, true, nil
}

func (m *MockConflictStore) Get(ctx context.Context, id string) (*domain.DocumentConflict, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (m *MockConflictStore) List(ctx context.Context, filter domain.ConflictFilter) ([]*domain.DocumentConflict, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*domain.DocumentConflict
	for i := len(m.conflicts) - 1; i >= 0; i-- {
		c := m.conflicts[i]
		if filter.DocumentID != nil && c.DocumentID1 != *filter.DocumentID && c.DocumentID2 != *filter.DocumentID {
			continue
		}
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		if filter.Severity != nil && c.Severity != *filter.Severity {
			continue
		}
		out = append(out, c)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

func (m *MockConflictStore) Resolve(ctx context.Context, id, resolution string, status domain.ConflictStatus) (*domain.DocumentConflict, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	c.Resolution = &resolution
	c.Status = status
	c.ResolvedAt = &now
	c.UpdatedAt = now
	return c, nil
}

// Helper methods for testing

func (m *MockConflictStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID = make(map[string]*domain.DocumentConflict)
	m.byKey = make(map[string]*domain.DocumentConflict)
	m.conflicts = nil
	m.Err = nil
}
