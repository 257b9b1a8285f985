package session

import (
	"context"
	"sync"
)

// MemoryStore is the default in-process session store. Webhook requests are
// handled concurrently, so access is mutex-guarded.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string]Session{}}
}

func (m *MemoryStore) Get(_ context.Context, contact string) (Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[contact]
	return s, ok, nil
}

func (m *MemoryStore) Put(_ context.Context, contact string, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[contact] = s
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, contact string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, contact)
	return nil
}
