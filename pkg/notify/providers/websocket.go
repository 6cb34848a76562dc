package providers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/courier/pkg/broadcast"
	"github.com/dmitrymomot/courier/pkg/cache"
	"github.com/dmitrymomot/courier/pkg/logger"
	"github.com/dmitrymomot/courier/pkg/notify"
)

// WebSocketConfig sizes the per-user real-time streams.
type WebSocketConfig struct {
	BufferSize int `yaml:"buffer_size"` // per subscriber, default 16
	MaxUsers   int `yaml:"max_users"`   // broadcasters kept, default 10000
}

// WebSocket pushes messages to the live streams of a user. Transports such
// as the SSE endpoint call Subscribe; Send fails when the user has no open
// stream.
type WebSocket struct {
	users      *cache.LRUCache[string, *broadcast.MemoryBroadcaster[notify.Message]]
	bufferSize int
	logger     *slog.Logger
	mu         sync.Mutex
}

type WebSocketOption func(*WebSocket)

func WithWebSocketLogger(l *slog.Logger) WebSocketOption {
	return func(w *WebSocket) {
		if l != nil {
			w.logger = l
		}
	}
}

func NewWebSocket(cfg WebSocketConfig, opts ...WebSocketOption) *WebSocket {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 16
	}
	if cfg.MaxUsers <= 0 {
		cfg.MaxUsers = 10000
	}
	w := &WebSocket{
		bufferSize: cfg.BufferSize,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.users = cache.NewLRUCache[string, *broadcast.MemoryBroadcaster[notify.Message]](cfg.MaxUsers)
	// Evicted users lose their streams; clients reconnect.
	w.users.SetEvictCallback(func(userID string, b *broadcast.MemoryBroadcaster[notify.Message]) {
		if err := b.Close(); err != nil {
			w.logger.LogAttrs(context.Background(), slog.LevelError, "failed to close user stream",
				logger.UserID(userID),
				logger.Error(err),
			)
		}
	})
	return w
}

func (w *WebSocket) Channel() notify.Channel { return notify.ChannelWebSocket }

func (w *WebSocket) Send(ctx context.Context, msg notify.Message, userID string) notify.DeliveryResult {
	w.mu.Lock()
	b, ok := w.users.Get(userID)
	w.mu.Unlock()
	if !ok || b.Subscribers() == 0 {
		return notify.Failed(ErrNotConnected)
	}
	if err := b.Broadcast(ctx, broadcast.Message[notify.Message]{Data: msg}); err != nil {
		return notify.Failed(err)
	}
	return notify.Succeeded("", time.Now())
}

// Subscribe opens a stream of userID's messages. The subscription ends when
// ctx is done or the subscriber is closed.
func (w *WebSocket) Subscribe(ctx context.Context, userID string) broadcast.Subscriber[notify.Message] {
	w.mu.Lock()
	defer w.mu.Unlock()

	b, ok := w.users.Get(userID)
	if !ok {
		b = broadcast.NewMemoryBroadcaster[notify.Message](w.bufferSize)
		w.users.Put(userID, b)
	}
	return b.Subscribe(ctx)
}

// Connected reports how many streams userID has open.
func (w *WebSocket) Connected(userID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if b, ok := w.users.Get(userID); ok {
		return b.Subscribers()
	}
	return 0
}

// Close ends every open stream.
func (w *WebSocket) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.users.Clear()
	return nil
}
