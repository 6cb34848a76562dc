package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/courier/pkg/event"
	"github.com/dmitrymomot/courier/pkg/logger"
)

// Builder turns an event into a persisted notification for one recipient.
type Builder struct {
	settings SettingsStore
	storage  Storage
	renderer Renderer
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

type BuilderOption func(*Builder)

func WithBuilderLogger(l *slog.Logger) BuilderOption {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

func WithRenderer(r Renderer) BuilderOption {
	return func(b *Builder) {
		if r != nil {
			b.renderer = r
		}
	}
}

func WithBuilderClock(now func() time.Time) BuilderOption {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// WithIDGenerator overrides uuid-based ids for notifications and deliveries.
func WithIDGenerator(fn func() string) BuilderOption {
	return func(b *Builder) {
		if fn != nil {
			b.newID = fn
		}
	}
}

func NewBuilder(settings SettingsStore, storage Storage, opts ...BuilderOption) *Builder {
	b := &Builder{
		settings: settings,
		storage:  storage,
		renderer: DefaultRenderer,
		logger:   slog.Default(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build creates the notification for userID, or returns nil, nil when the
// recipient has no settings, is disabled, or is not subscribed to ev.Type.
//
// The notification gets one PENDING delivery for each enabled channel with a
// resolvable address. A recipient with no such channel still gets a
// notification, with no deliveries. An event without a payload renders from
// its type; one whose payload belongs to another type is rejected with
// event.ErrInvalidEvent.
func (b *Builder) Build(ctx context.Context, ev event.Event, userID string) (*Notification, error) {
	if ev.Payload == nil {
		ev.Payload = event.Raw{Kind: ev.Type}
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}

	settings, err := b.settings.GetSettings(ctx, userID)
	switch {
	case errors.Is(err, ErrSettingsNotFound) || (err == nil && settings == nil):
		b.skip(ctx, ev, userID, "no settings")
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load recipient settings: %w", err)
	case !settings.Enabled:
		b.skip(ctx, ev, userID, "notifications disabled")
		return nil, nil
	case !settings.Subscribed(ev.Type):
		b.skip(ctx, ev, userID, "not subscribed")
		return nil, nil
	}

	content := b.renderer.Render(ev.Payload)
	if content.Title == "" && content.Message == "" {
		content = Fallback(ev.Type)
	}
	now := b.now().UTC()

	n := &Notification{
		ID:        b.newID(),
		EventID:   ev.ID,
		UserID:    userID,
		OrgID:     ev.OrgID,
		EventType: ev.Type,
		Title:     content.Title,
		Message:   content.Message,
		ActionURL: content.ActionURL,
		Priority:  PriorityFor(ev.Type),
		Status:    NotificationPending,
		CreatedAt: now,
	}
	n.Deliveries = b.deliveries(n, settings, now)

	if err := b.storage.CreateNotification(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to store notification: %w", err)
	}

	b.logger.LogAttrs(ctx, slog.LevelDebug, "notification created",
		logger.NotificationID(n.ID),
		logger.EventID(ev.ID),
		logger.EventType(ev.Type.String()),
		logger.UserID(userID),
		slog.Int("deliveries", len(n.Deliveries)),
	)
	return n, nil
}

func (b *Builder) deliveries(n *Notification, s *RecipientSettings, now time.Time) []Delivery {
	out := make([]Delivery, 0, len(s.EnabledChannels))
	seen := make([]Channel, 0, len(s.EnabledChannels))
	for _, ch := range s.EnabledChannels {
		if !ch.Valid() || slices.Contains(seen, ch) {
			continue
		}
		seen = append(seen, ch)

		addr, ok := s.Address(ch, n.UserID)
		if !ok {
			continue
		}
		out = append(out, Delivery{
			ID:             b.newID(),
			NotificationID: n.ID,
			Channel:        ch,
			AddressKind:    ch.AddressKind(),
			Address:        addr,
			Status:         DeliveryPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	return out
}

func (b *Builder) skip(ctx context.Context, ev event.Event, userID, reason string) {
	b.logger.LogAttrs(ctx, slog.LevelDebug, "notification skipped",
		logger.EventID(ev.ID),
		logger.EventType(ev.Type.String()),
		logger.UserID(userID),
		slog.String("reason", reason),
	)
}
