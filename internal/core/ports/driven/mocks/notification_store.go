package mocks

import (
	"context"
	"sync"

	"github.com/aeromaint-labs/relgraph-core/internal/core/domain"
)

// MockNotificationStore is an in-memory NotificationStore for testing.
type MockNotificationStore struct {
	mu            sync.RWMutex
	notifications []*domain.UpdateNotification // insertion order
	byToken       map[string]*domain.UpdateNotification

	// Err, when set, is returned by every method.
	Err error
}

// NewMockNotificationStore creates a new MockNotificationStore.
func NewMockNotificationStore() *MockNotificationStore {
	return &MockNotificationStore{
		byToken: make(map[string]*domain.UpdateNotification),
	}
}

func (m *MockNotificationStore) Add(ctx context.Context, n *domain.UpdateNotification) (*domain.UpdateNotification, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.notifications = append(m.notifications, n)
	m.byToken[n.NotificationID] = n
	return n, nil
}

func (m *MockNotificationStore) List(ctx context.Context, documentID string, unreadOnly bool, limit int) ([]*domain.UpdateNotification, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*domain.UpdateNotification
	for i := len(m.notifications) - 1; i >= 0; i-- {
		n := m.notifications[i]
		if documentID != "" && n.DocumentID != documentID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *MockNotificationStore) MarkRead(ctx context.Context, notificationID string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.byToken[notificationID]
	if !ok {
		return domain.ErrNotFound
	}
	n.IsRead = true
	return nil
}

// Helper methods for testing

func (m *MockNotificationStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = nil
	m.byToken = make(map[string]*domain.UpdateNotification)
	m.Err = nil
}

func (m *MockNotificationStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.notifications)
}
