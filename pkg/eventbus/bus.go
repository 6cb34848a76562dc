package eventbus

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/courier/pkg/async"
	"github.com/dmitrymomot/courier/pkg/event"
	"github.com/dmitrymomot/courier/pkg/logger"
)

// Bus broadcasts events to a fixed set of adapters.
type Bus struct {
	adapters []Adapter
	names    []string
	logger   *slog.Logger
	observer Observer
	timeout  time.Duration
	now      func() time.Time

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

type Option func(*Bus)

// WithAdapters appends adapters. The set is fixed once New returns.
func WithAdapters(adapters ...Adapter) Option {
	return func(b *Bus) {
		for _, a := range adapters {
			if a != nil {
				b.adapters = append(b.adapters, a)
			}
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Bus) {
		if l != nil {
			b.logger = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(b *Bus) { b.observer = o }
}

// WithAdapterTimeout bounds each adapter call. Zero disables the bound.
func WithAdapterTimeout(d time.Duration) Option {
	return func(b *Bus) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// WithClock overrides the time source used for stamping events.
func WithClock(now func() time.Time) Option {
	return func(b *Bus) {
		if now != nil {
			b.now = now
		}
	}
}

func New(opts ...Option) *Bus {
	b := &Bus{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.names = make([]string, len(b.adapters))
	for i, a := range b.adapters {
		b.names[i] = adapterName(a, i)
	}
	return b
}

// Adapters returns adapter names in registration order.
func (b *Bus) Adapters() []string {
	out := make([]string, len(b.names))
	copy(out, b.names)
	return out
}

// Emit stamps ev and hands it to every adapter concurrently, returning once
// all of them have settled. Adapter errors and panics are logged and
// reported to the observer; they never reach the caller or other adapters.
func (b *Bus) Emit(ctx context.Context, ev event.Event) event.Event {
	ev = b.stamp(ev)

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		b.logger.LogAttrs(ctx, slog.LevelWarn, "event dropped, bus closed",
			logger.EventID(ev.ID),
			logger.EventType(ev.Type.String()),
		)
		return ev
	}
	b.wg.Add(1)
	b.mu.RUnlock()
	defer b.wg.Done()

	elapsed := make([]time.Duration, len(b.adapters))
	futures := make([]*async.Future[struct{}], len(b.adapters))
	for i, a := range b.adapters {
		futures[i] = async.Async(ctx, ev, func(ctx context.Context, ev event.Event) (struct{}, error) {
			start := time.Now()
			defer func() { elapsed[i] = time.Since(start) }()

			if b.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, b.timeout)
				defer cancel()
			}
			return struct{}{}, a.Publish(ctx, ev)
		})
	}

	for i, res := range async.WaitAllSettled(futures...) {
		if b.observer != nil {
			b.observer.ObservePublish(b.names[i], ev, res.Err, elapsed[i])
		}
		if res.Err == nil {
			continue
		}
		msg := "event adapter failed"
		if errors.Is(res.Err, async.ErrPanic) {
			msg = "event adapter panicked"
		}
		b.logger.LogAttrs(ctx, slog.LevelError, msg,
			logger.Adapter(b.names[i]),
			logger.EventID(ev.ID),
			logger.EventType(ev.Type.String()),
			logger.Duration(elapsed[i]),
			logger.Error(res.Err),
		)
	}

	return ev
}

func (b *Bus) stamp(ev event.Event) event.Event {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = b.now().UTC()
	}
	if ev.Version == 0 {
		ev.Version = 1
	}
	if ev.Payload == nil {
		ev.Payload = event.Raw{Kind: ev.Type}
	}
	return ev
}

// Close stops accepting events and waits for in-flight emits, or until ctx
// is done.
func (b *Bus) Close(ctx context.Context) error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Join(ErrBusClosed, ctx.Err())
	}
}
