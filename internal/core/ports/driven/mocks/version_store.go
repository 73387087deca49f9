package mocks

import (
	"context"
	"sync"

	"github.com/aeromaint-labs/relgraph-core/internal/core/domain"
)

// MockVersionStore is an in-memory VersionStore for testing.
type MockVersionStore struct {
	mu    sync.RWMutex
	byID  map[string]*domain.DocumentVersion
	byKey map[domain.VersionKey]*domain.DocumentVersion
	byDoc map[string][]*domain.DocumentVersion // insertion order

	// Notifications, when set, receives the notification passed to Add,
	// mirroring the transactional version+notification insert of the real
	// adapter.
	Notifications *MockNotificationStore

	// Err, when set, is returned by every method.
	Err error
}

// NewMockVersionStore creates a new MockVersionStore.
func NewMockVersionStore() *MockVersionStore {
	return &MockVersionStore{
		byID:  make(map[string]*domain.DocumentVersion),
		byKey: make(map[domain.VersionKey]*domain.DocumentVersion),
		byDoc: make(map[string][]*domain.DocumentVersion),
	}
}

func (m *MockVersionStore) Add(ctx context.Context, v *domain.DocumentVersion, notify *domain.UpdateNotification) (*domain.DocumentVersion, bool, error) {
	if m.Err != nil {
		return nil, false, m.Err
	}
	m.mu.Lock()

	key := domain.VersionKey{DocumentID: v.DocumentID, Version: v.Version}
	if existing, ok := m.byKey[key]; ok {
		m.mu.Unlock()
		return existing, false, nil
	}

	m.byID[v.ID] = v
	m.byKey[key] = v
	m.byDoc[v.DocumentID] = append(m.byDoc[v.DocumentID], v)
	m.mu.Unlock()

	if notify != nil && m.Notifications != nil {
		if _, err := m.Notifications.Add(ctx, notify); err != nil {
			return nil, false, err
		}
	}
	return v, true, nil
}

func (m *MockVersionStore) Get(ctx context.Context, documentID, version string) (*domain.DocumentVersion, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if version != "" {
		v, ok := m.byKey[domain.VersionKey{DocumentID: documentID, Version: version}]
		if !ok {
			return nil, domain.ErrNotFound
		}
		return v, nil
	}

	versions := m.byDoc[documentID]
	if len(versions) == 0 {
		return nil, domain.ErrNotFound
	}

	latest := versions[0]
	for _, v := range versions[1:] {
		if !v.CreatedAt.Before(latest.CreatedAt) {
			latest = v
		}
	}
	return latest, nil
}

func (m *MockVersionStore) List(ctx context.Context, documentID string, limit int) ([]*domain.DocumentVersion, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	versions := m.byDoc[documentID]
	out := make([]*domain.DocumentVersion, 0, len(versions))
	for i := len(versions) - 1; i >= 0; i-- {
		out = append(out, versions[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// Helper methods for testing

func (m *MockVersionStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID = make(map[string]*domain.DocumentVersion)
	m.byKey = make(map[domain.VersionKey]*domain.DocumentVersion)
	m.byDoc = make(map[string][]*domain.DocumentVersion)
	m.Err = nil
}

func (m *MockVersionStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}
