package notify

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// MemoryStorage is an in-memory Storage for development and tests.
type MemoryStorage struct {
	mu            sync.RWMutex
	notifications map[string]*Notification
	order         []string          // notification ids in creation order
	deliveries    map[string]string // delivery id -> notification id
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		notifications: make(map[string]*Notification),
		deliveries:    make(map[string]string),
	}
}

func (s *MemoryStorage) CreateNotification(_ context.Context, n *Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.notifications[n.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNotification, n.ID)
	}
	for _, d := range n.Deliveries {
		if _, exists := s.deliveries[d.ID]; exists {
			return fmt.Errorf("%w: delivery %s", ErrDuplicateNotification, d.ID)
		}
	}

	s.notifications[n.ID] = n.Clone()
	s.order = append(s.order, n.ID)
	for _, d := range n.Deliveries {
		s.deliveries[d.ID] = n.ID
	}
	return nil
}

func (s *MemoryStorage) GetNotification(_ context.Context, id string) (*Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notifications[id]
	if !ok {
		return nil, ErrNotificationNotFound
	}
	return n.Clone(), nil
}

func (s *MemoryStorage) ListNotifications(_ context.Context, opts ListOptions) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var filtered []Notification
	for i := len(s.order) - 1; i >= 0; i-- {
		n := s.notifications[s.order[i]]
		if !opts.Match(n) {
			continue
		}
		c := n.Clone()
		c.Deliveries = nil
		filtered = append(filtered, *c)
	}
	slices.SortFunc(filtered, func(a, b Notification) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), strings.Compare(b.ID, a.ID))
	})

	return paginate(filtered, opts.Offset, opts.Limit), nil
}

func (s *MemoryStorage) GetDelivery(_ context.Context, id string) (*Delivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d := s.findDelivery(id)
	if d == nil {
		return nil, ErrDeliveryNotFound
	}
	c := d.clone()
	return &c, nil
}

func (s *MemoryStorage) ListDeliveries(_ context.Context, notificationID string) ([]Delivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notifications[notificationID]
	if !ok {
		return nil, ErrNotificationNotFound
	}
	return n.Clone().Deliveries, nil
}

func (s *MemoryStorage) UpdateDeliveryStatus(_ context.Context, id string, upd DeliveryUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.findDelivery(id)
	if d == nil {
		return ErrDeliveryNotFound
	}
	if upd.At.IsZero() {
		upd.At = time.Now().UTC()
	}
	upd.Apply(d)
	return nil
}

func (s *MemoryStorage) UpdateNotificationStatus(_ context.Context, id string, status NotificationStatus, sentAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok {
		return ErrNotificationNotFound
	}
	n.Status = status
	n.SentAt = cloneTime(sentAt)
	return nil
}

// findDelivery must be called with s.mu held.
func (s *MemoryStorage) findDelivery(id string) *Delivery {
	nid, ok := s.deliveries[id]
	if !ok {
		return nil
	}
	n := s.notifications[nid]
	for i := range n.Deliveries {
		if n.Deliveries[i].ID == id {
			return &n.Deliveries[i]
		}
	}
	return nil
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
