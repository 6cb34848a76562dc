package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrymomot/courier/pkg/cache"
)

// SettingsStore looks up recipient preferences. Unknown users return
// ErrSettingsNotFound.
type SettingsStore interface {
	GetSettings(ctx context.Context, userID string) (*RecipientSettings, error)
}

// MemorySettings is an in-memory SettingsStore for development and tests.
type MemorySettings struct {
	mu       sync.RWMutex
	settings map[string]*RecipientSettings
}

func NewMemorySettings(settings ...RecipientSettings) *MemorySettings {
	m := &MemorySettings{settings: make(map[string]*RecipientSettings, len(settings))}
	for i := range settings {
		m.settings[settings[i].UserID] = settings[i].Clone()
	}
	return m
}

func (m *MemorySettings) GetSettings(_ context.Context, userID string) (*RecipientSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.settings[userID]
	if !ok {
		return nil, ErrSettingsNotFound
	}
	return s.Clone(), nil
}

// Put stores a copy of s, replacing any previous settings for s.UserID.
func (m *MemorySettings) Put(s RecipientSettings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[s.UserID] = s.Clone()
}

func (m *MemorySettings) Delete(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.settings, userID)
}

// CachedSettings keeps recently read settings in an LRU cache with a TTL.
// Misses and errors are not cached.
type CachedSettings struct {
	next  SettingsStore
	cache *cache.LRUCache[string, *RecipientSettings]
}

// NewCachedSettings wraps next. ttl <= 0 keeps entries until evicted.
func NewCachedSettings(next SettingsStore, capacity int, ttl time.Duration, opts ...cache.Option) *CachedSettings {
	if capacity <= 0 {
		capacity = 1000
	}
	opts = append([]cache.Option{cache.WithTTL(ttl)}, opts...)
	return &CachedSettings{
		next:  next,
		cache: cache.NewLRUCache[string, *RecipientSettings](capacity, opts...),
	}
}

func (c *CachedSettings) GetSettings(ctx context.Context, userID string) (*RecipientSettings, error) {
	if s, ok := c.cache.Get(userID); ok {
		return s.Clone(), nil
	}
	s, err := c.next.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrSettingsNotFound
	}
	c.cache.Put(userID, s.Clone())
	return s, nil
}

// Invalidate drops the cached entry for userID.
func (c *CachedSettings) Invalidate(userID string) {
	c.cache.Remove(userID)
}

// IsOptedOut reports whether err means the user has no settings on file.
func IsOptedOut(err error) bool {
	return errors.Is(err, ErrSettingsNotFound)
}
