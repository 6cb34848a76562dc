package inbox

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"
)

// MemoryStorage is an in-memory Storage. Each user keeps at most
// maxPerUser items; the oldest are dropped first.
type MemoryStorage struct {
	mu         sync.RWMutex
	items      map[string][]Item // userID -> items in insertion order
	maxPerUser int
	now        func() time.Time
}

type Option func(*MemoryStorage)

// WithMaxPerUser caps items per user. Default is 500.
func WithMaxPerUser(n int) Option {
	return func(s *MemoryStorage) {
		if n > 0 {
			s.maxPerUser = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *MemoryStorage) {
		if now != nil {
			s.now = now
		}
	}
}

func NewMemoryStorage(opts ...Option) *MemoryStorage {
	s := &MemoryStorage{
		items:      make(map[string][]Item),
		maxPerUser: 500,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStorage) Add(_ context.Context, item Item) error {
	if item.ID == "" {
		return errors.Join(ErrInvalidItem, errors.New("item ID is required"))
	}
	if item.UserID == "" {
		return errors.Join(ErrInvalidItem, errors.New("user ID is required"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.items[item.UserID]
	if slices.ContainsFunc(items, func(i Item) bool { return i.ID == item.ID }) {
		return nil
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = s.now().UTC()
	}
	items = append(items, item)
	if len(items) > s.maxPerUser {
		items = slices.Delete(items, 0, len(items)-s.maxPerUser)
	}
	s.items[item.UserID] = items
	return nil
}

func (s *MemoryStorage) List(_ context.Context, userID string, opts ListOptions) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.items[userID]
	filtered := make([]Item, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		if opts.OnlyUnread && it.Read {
			continue
		}
		if opts.Since != nil && !it.CreatedAt.After(*opts.Since) {
			continue
		}
		filtered = append(filtered, it)
	}
	slices.SortStableFunc(filtered, func(a, b Item) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	start := min(max(opts.Offset, 0), len(filtered))
	end := len(filtered)
	if opts.Limit > 0 && start+opts.Limit < end {
		end = start + opts.Limit
	}
	return filtered[start:end], nil
}

func (s *MemoryStorage) MarkRead(_ context.Context, userID string, ids ...string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	items := s.items[userID]
	marked := 0
	for i := range items {
		if items[i].Read || (len(ids) > 0 && !slices.Contains(ids, items[i].ID)) {
			continue
		}
		items[i].markRead(now)
		marked++
	}
	return marked, nil
}

func (s *MemoryStorage) Delete(_ context.Context, userID string, ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[userID] = slices.DeleteFunc(s.items[userID], func(i Item) bool {
		return slices.Contains(ids, i.ID)
	})
	return nil
}

func (s *MemoryStorage) CountUnread(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, it := range s.items[userID] {
		if !it.Read {
			count++
		}
	}
	return count, nil
}
