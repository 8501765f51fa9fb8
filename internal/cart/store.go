package cart

import (
	"context"
	"sync"
)

// Store persists cart snapshots under a session-scoped key. Absent keys
// return (nil, nil). Writes are last-write-wins: concurrent tabs sharing a
// key are not synchronized beyond reload.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, snapshot []byte) error
}

func cartKey(userID string) string {
	return "cart:" + userID
}

// MemoryStore is used for tests and local scenarios without Redis/Postgres.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, snapshot []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := make([]byte, len(snapshot))
	copy(v, snapshot)
	s.data[key] = v
	return nil
}
