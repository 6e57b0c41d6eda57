package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/infrastructure-search/internal/domain/repository"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// memoryStore - LRU ограниченного размера. Общий TTL задаётся при создании,
// более короткий TTL отдельной записи проверяется при чтении.
type memoryStore struct {
	lru        *expirable.LRU[string, memoryEntry]
	defaultTTL time.Duration
}

// NewMemoryStore создает хранилище на maxEntries записей.
// defaultTTL - верхняя граница жизни любой записи.
func NewMemoryStore(maxEntries int, defaultTTL time.Duration) repository.CacheStore {
	return &memoryStore{
		lru:        expirable.NewLRU[string, memoryEntry](maxEntries, nil, defaultTTL),
		defaultTTL: defaultTTL,
	}
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	entry, ok := m.lru.Get(key)
	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		m.lru.Remove(key)
		return nil, nil
	}
	return entry.value, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 && (m.defaultTTL <= 0 || ttl < m.defaultTTL) {
		entry.expiresAt = time.Now().Add(ttl)
	}
	m.lru.Add(key, entry)
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.lru.Remove(key)
	return nil
}

func (m *memoryStore) Exists(ctx context.Context, key string) (bool, error) {
	v, err := m.Get(ctx, key)
	return v != nil, err
}
