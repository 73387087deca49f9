package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockLock is an in-memory DistributedLock for testing. TTLs are ignored;
// a lock is held until released.
type MockLock struct {
	mu   sync.Mutex
	held map[string]bool

	// Acquires counts successful acquisitions, for asserting the engine
	// actually serializes recomputes.
	Acquires int
}

// NewMockLock creates a new MockLock.
func NewMockLock() *MockLock {
	return &MockLock{held: make(map[string]bool)}
}

func (m *MockLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[name] {
		return false, nil
	}
	m.held[name] = true
	m.Acquires++
	return true, nil
}

func (m *MockLock) Release(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, name)
	return nil
}

func (m *MockLock) Extend(ctx context.Context, name string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.held[name] {
		return fmt.Errorf("lock %s not held", name)
	}
	return nil
}

func (m *MockLock) Ping(ctx context.Context) error { return nil }
