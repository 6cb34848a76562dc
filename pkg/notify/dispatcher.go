package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/courier/pkg/logger"
)

// Observer receives the terminal outcome of every delivery attempt.
type Observer interface {
	ObserveDelivery(ch Channel, status DeliveryStatus, elapsed time.Duration)
}

// Dispatcher sends a notification's deliveries and aggregates the result.
type Dispatcher struct {
	storage     Storage
	registry    *Registry
	logger      *slog.Logger
	observer    Observer
	sendTimeout time.Duration
	now         func() time.Time
	locks       *keyedMutex
}

type DispatcherOption func(*Dispatcher)

func WithDispatcherLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithSendTimeout bounds each provider call. Default is 10 seconds.
func WithSendTimeout(t time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if t > 0 {
			d.sendTimeout = t
		}
	}
}

func WithObserver(o Observer) DispatcherOption {
	return func(d *Dispatcher) { d.observer = o }
}

func WithDispatcherClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

func NewDispatcher(storage Storage, registry *Registry, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		storage:     storage,
		registry:    registry,
		logger:      slog.Default(),
		sendTimeout: 10 * time.Second,
		now:         time.Now,
		locks:       newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch sends every delivery of n that has not yet succeeded, one at a
// time in creation order, then writes the aggregate status.
//
// Passes over the same notification are serialized. The notification is
// re-read under the lock, so a second pass never re-sends a channel the
// first one delivered. Once a delivery is marked SENDING its outcome is
// written even if ctx is cancelled. Storage failures are returned.
func (d *Dispatcher) Dispatch(ctx context.Context, n *Notification) (*Notification, error) {
	if n == nil || n.ID == "" {
		return nil, errors.Join(ErrInvalidNotification, errors.New("notification ID is required"))
	}
	return d.DispatchID(ctx, n.ID)
}

// DispatchID is Dispatch for a stored notification id.
func (d *Dispatcher) DispatchID(ctx context.Context, id string) (*Notification, error) {
	unlock := d.locks.Lock(id)
	defer unlock()

	n, err := d.storage.GetNotification(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load notification: %w", err)
	}

	msg := n.Content()
	for i := range n.Deliveries {
		del := &n.Deliveries[i]
		if del.Status.Succeeded() {
			continue
		}
		if err := d.deliver(ctx, msg, del); err != nil {
			return nil, err
		}
	}

	status := Aggregate(n.Deliveries)
	sentAt := n.SentAt
	switch {
	case status != NotificationSent:
		sentAt = nil
	case sentAt == nil:
		t := d.now().UTC()
		sentAt = &t
	}

	if status != n.Status || !sameTime(sentAt, n.SentAt) {
		wctx := context.WithoutCancel(ctx)
		if err := d.storage.UpdateNotificationStatus(wctx, n.ID, status, sentAt); err != nil {
			return nil, fmt.Errorf("failed to update notification status: %w", err)
		}
		n.Status = status
		n.SentAt = sentAt
	}

	d.logger.LogAttrs(ctx, slog.LevelInfo, "notification dispatched",
		logger.NotificationID(n.ID),
		logger.UserID(n.UserID),
		logger.Status(string(n.Status)),
		slog.Int("deliveries", len(n.Deliveries)),
	)
	return n, nil
}

// deliver runs one delivery through SENDING to a terminal status and updates
// del in place.
func (d *Dispatcher) deliver(ctx context.Context, msg Message, del *Delivery) error {
	sending, err := nextStatus(ctx, del.Status, eventSend)
	if err != nil {
		d.logger.LogAttrs(ctx, slog.LevelWarn, "delivery skipped",
			logger.DeliveryID(del.ID),
			logger.Status(string(del.Status)),
			logger.Error(err),
		)
		return nil
	}

	start := d.now()
	mark := DeliveryUpdate{Status: sending, IncrementAttempt: true, At: start.UTC()}
	if err := d.storage.UpdateDeliveryStatus(ctx, del.ID, mark); err != nil {
		return fmt.Errorf("failed to mark delivery %s as sending: %w", del.ID, err)
	}
	mark.Apply(del)

	// From here on the delivery must reach a terminal status.
	wctx := context.WithoutCancel(ctx)

	var result DeliveryResult
	provider, ok := d.registry.Resolve(del.Channel)
	if !ok {
		result = Failed(ErrProviderNotConfigured)
	} else {
		result = d.send(wctx, provider, msg, del.Address)
	}

	now := d.now().UTC()
	upd := DeliveryUpdate{At: now}
	if result.Success {
		upd.Status, err = nextStatus(wctx, del.Status, eventSucceed)
		upd.ExternalID = result.ExternalID
		upd.DeliveredAt = result.DeliveredAt
		if upd.DeliveredAt == nil {
			upd.DeliveredAt = &now
		}
	} else {
		upd.Status, err = nextStatus(wctx, del.Status, eventFail)
		upd.Error = result.ErrorText()
	}
	if err != nil {
		return err
	}

	if err := d.storage.UpdateDeliveryStatus(wctx, del.ID, upd); err != nil {
		return fmt.Errorf("failed to record delivery %s outcome: %w", del.ID, err)
	}
	upd.Apply(del)

	elapsed := d.now().Sub(start)
	if d.observer != nil {
		d.observer.ObserveDelivery(del.Channel, del.Status, elapsed)
	}

	level := slog.LevelDebug
	attrs := []slog.Attr{
		logger.DeliveryID(del.ID),
		logger.NotificationID(del.NotificationID),
		logger.Channel(del.Channel.String()),
		logger.Status(string(del.Status)),
		logger.Duration(elapsed),
	}
	if !result.Success {
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("error", del.Error))
	}
	d.logger.LogAttrs(ctx, level, "delivery attempted", attrs...)
	return nil
}

// send calls the provider with a deadline and turns panics and overruns
// into failed results.
func (d *Dispatcher) send(ctx context.Context, p Provider, msg Message, address string) DeliveryResult {
	ctx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	done := make(chan DeliveryResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- Failed(fmt.Errorf("%w: %v", ErrProviderPanic, r))
			}
		}()
		done <- p.Send(ctx, msg, address)
	}()

	select {
	case r := <-done:
		return r
	case <-ctx.Done():
		return Failed(ErrSendTimeout)
	}
}

// MarkDelivered records a provider receipt, moving a SENT delivery to
// DELIVERED. Already DELIVERED deliveries are returned unchanged. The
// notification status is not touched.
func (d *Dispatcher) MarkDelivered(ctx context.Context, deliveryID string, at time.Time) (*Delivery, error) {
	del, err := d.storage.GetDelivery(ctx, deliveryID)
	if err != nil {
		return nil, err
	}

	unlock := d.locks.Lock(del.NotificationID)
	defer unlock()

	// Re-read under the lock; a dispatch pass may have just finished.
	if del, err = d.storage.GetDelivery(ctx, deliveryID); err != nil {
		return nil, err
	}
	if del.Status == DeliveryDelivered {
		return del, nil
	}

	status, err := nextStatus(ctx, del.Status, eventConfirm)
	if err != nil {
		return nil, err
	}

	now := d.now().UTC()
	if at.IsZero() {
		at = now
	}
	at = at.UTC()
	upd := DeliveryUpdate{
		Status:      status,
		ExternalID:  del.ExternalID,
		DeliveredAt: &at,
		At:          now,
	}
	if err := d.storage.UpdateDeliveryStatus(ctx, del.ID, upd); err != nil {
		return nil, fmt.Errorf("failed to mark delivery %s as delivered: %w", del.ID, err)
	}
	upd.Apply(del)

	d.logger.LogAttrs(ctx, slog.LevelInfo, "delivery confirmed",
		logger.DeliveryID(del.ID),
		logger.NotificationID(del.NotificationID),
		logger.Channel(del.Channel.String()),
	)
	return del, nil
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
