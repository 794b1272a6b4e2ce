// internal/theme/store.go
package theme

import (
	"context"
	"errors"
	"sync"
)

// StorageKey is the fixed key the theme list is stored under.
const StorageKey = "EmojiMemoryGame.themes"

// ErrNotFound is returned by a BlobStore when nothing is stored under a key.
var ErrNotFound = errors.New("theme: blob not found")

// BlobStore is a key-value store of opaque blobs. Implementations live in
// internal/cache (Redis) and internal/database (Postgres).
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// MemoryStore is an in-process BlobStore.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Get returns a copy of the blob under key, or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

// Set stores a copy of value under key.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = append([]byte(nil), value...)
	return nil
}
