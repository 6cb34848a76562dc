package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/courier/pkg/event"
	"github.com/dmitrymomot/courier/pkg/logger"
)

// Adapter is the event bus adapter that builds and dispatches notifications
// for every recipient of an event.
type Adapter struct {
	builder    *Builder
	dispatcher *Dispatcher
	limit      int
	logger     *slog.Logger
}

type AdapterOption func(*Adapter)

// WithConcurrency caps how many recipients of one event are processed at
// once. Default is 8.
func WithConcurrency(n int) AdapterOption {
	return func(a *Adapter) {
		if n > 0 {
			a.limit = n
		}
	}
}

func WithAdapterLogger(l *slog.Logger) AdapterOption {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

func NewAdapter(builder *Builder, dispatcher *Dispatcher, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		builder:    builder,
		dispatcher: dispatcher,
		limit:      8,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) Name() string { return "notifications" }

// Publish handles recipients independently: one failing recipient does not
// stop the others. All failures are returned joined.
func (a *Adapter) Publish(ctx context.Context, ev event.Event) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(a.limit)

	for _, userID := range ev.Recipients() {
		g.Go(func() error {
			if err := a.notify(ctx, ev, userID); err != nil {
				a.logger.LogAttrs(ctx, slog.LevelError, "failed to notify recipient",
					logger.EventID(ev.ID),
					logger.EventType(ev.Type.String()),
					logger.UserID(userID),
					logger.Error(err),
				)
				mu.Lock()
				errs = append(errs, fmt.Errorf("recipient %s: %w", userID, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

func (a *Adapter) notify(ctx context.Context, ev event.Event, userID string) error {
	n, err := a.builder.Build(ctx, ev, userID)
	if err != nil || n == nil {
		return err
	}
	_, err = a.dispatcher.Dispatch(ctx, n)
	return err
}
