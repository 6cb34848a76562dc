package inbox

import (
	"context"
	"time"
)

// Item is a notification kept in a user's in-app inbox.
type Item struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	EventType string     `json:"event_type"`
	Priority  string     `json:"priority"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	ActionURL string     `json:"action_url,omitempty"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (i *Item) markRead(at time.Time) {
	if i.Read {
		return
	}
	i.Read = true
	i.ReadAt = &at
}

// Storage holds inbox items per user.
type Storage interface {
	// Add stores an item. Adding an id that is already present is a no-op.
	Add(ctx context.Context, item Item) error

	// List returns a user's items newest first.
	List(ctx context.Context, userID string, opts ListOptions) ([]Item, error)

	// MarkRead marks the given items as read; with no ids it marks all of them.
	MarkRead(ctx context.Context, userID string, ids ...string) (int, error)

	Delete(ctx context.Context, userID string, ids ...string) error

	CountUnread(ctx context.Context, userID string) (int, error)
}

// ListOptions provides filtering and pagination for List.
type ListOptions struct {
	Limit      int        // 0 = no limit
	Offset     int
	OnlyUnread bool
	Since      *time.Time // only items created after this time
}
