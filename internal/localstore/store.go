// Package localstore persists the small per-user values a browser would keep in local storage:
// the session token and recent searches.
package localstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"careerhub/internal/config"
)

// ErrNotFound is returned by Get for missing or expired keys.
var ErrNotFound = errors.New("localstore: key not found")

// Store is a namespaced key/value store. A zero ttl means no expiry.
type Store interface {
	Get(ctx context.Context, namespace, key string) (string, error)
	Set(ctx context.Context, namespace, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, namespace, key string) error
	Close() error
}

// Open builds the store selected by LOCAL_STORE_DRIVER.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.LocalStoreDriver {
	case "redis":
		return NewRedisStore(cfg.RedisURL)
	case "sqlite", "postgres":
		return OpenSQLStore(cfg.LocalStoreDriver, cfg.DBDSN)
	case "memory", "":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown local store driver %q", cfg.LocalStoreDriver)
	}
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore keeps values in process memory; used in development and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	now  func() time.Time
	data map[string]memoryEntry
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now, data: make(map[string]memoryEntry)}
}

func memoryKey(namespace, key string) string {
	return namespace + ":" + key
}

func (s *MemoryStore) Get(_ context.Context, namespace, key string) (string, error) {
	s.mu.RLock()
	e, ok := s.data[memoryKey(namespace, key)]
	s.mu.RUnlock()
	if !ok {
		return "", ErrNotFound
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		s.mu.Lock()
		delete(s.data, memoryKey(namespace, key))
		s.mu.Unlock()
		return "", ErrNotFound
	}
	return e.value, nil
}

func (s *MemoryStore) Set(_ context.Context, namespace, key, value string, ttl time.Duration) error {
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.data[memoryKey(namespace, key)] = e
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, namespace, key string) error {
	s.mu.Lock()
	delete(s.data, memoryKey(namespace, key))
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error { return nil }
