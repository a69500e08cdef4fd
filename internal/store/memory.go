package store

import (
	"context"
	"sync"

	"github.com/lox/undercover/internal/game"
)

// MemoryStore keeps the encoded snapshot in memory. Snapshots go through the
// same JSON encoding as the other backends so a load never aliases a session
// still held by the caller.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(context.Context) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.data == nil {
		return nil, nil
	}
	return decode(m.data)
}

func (m *MemoryStore) Save(_ context.Context, s game.Session) error {
	data, err := encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}

func (m *MemoryStore) Close() error { return nil }
