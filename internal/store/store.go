// Package store persists the current game session so a refresh or restart
// can pick up where the table left off. Persistence is best-effort: callers
// log failures and keep playing.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lox/undercover/internal/game"
)

// Key is the name the current session is stored under.
const Key = "current_session_v1"

// Store saves and loads a single session snapshot.
type Store interface {
	// Load returns the stored session, or nil when nothing is stored.
	Load(ctx context.Context) (*game.Session, error)
	Save(ctx context.Context, s game.Session) error
	Clear(ctx context.Context) error
	Close() error
}

// Backend names a Store implementation.
type Backend string

const (
	Bolt   Backend = "bolt"
	File   Backend = "file"
	Memory Backend = "memory"
)

// ParseBackend validates a backend name.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case Bolt, File, Memory:
		return b, nil
	}
	return "", fmt.Errorf("unknown session store %q (want bolt, file or memory)", s)
}

// Open creates the store for backend. Path is ignored by the memory backend.
func Open(backend Backend, path string) (Store, error) {
	switch backend {
	case Bolt:
		return OpenBolt(path)
	case File:
		return NewFileStore(path), nil
	case Memory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown session store %q", backend)
}

func encode(s game.Session) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*game.Session, error) {
	var s game.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &s, nil
}
