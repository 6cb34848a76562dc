package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrymomot/courier/pkg/inbox"
	"github.com/dmitrymomot/courier/pkg/notify"
)

// InAppConfig toggles the in-app inbox.
type InAppConfig struct {
	Enabled *bool `yaml:"enabled"` // default true
}

// InApp stores the message in the user's inbox. The inbox item id is the
// notification id, so a re-dispatch does not duplicate it.
type InApp struct {
	store   inbox.Storage
	enabled bool
}

func NewInApp(cfg InAppConfig, store inbox.Storage) (*InApp, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: inbox storage is required", ErrInvalidConfig)
	}
	enabled := cfg.Enabled == nil || *cfg.Enabled
	return &InApp{store: store, enabled: enabled}, nil
}

func (p *InApp) Channel() notify.Channel { return notify.ChannelInApp }

func (p *InApp) Send(ctx context.Context, msg notify.Message, userID string) notify.DeliveryResult {
	if !p.enabled {
		return notify.Failed(ErrInboxDisabled)
	}
	if userID == "" {
		return notify.Failed(fmt.Errorf("%w: empty user id", ErrInvalidAddress))
	}
	now := time.Now().UTC()
	err := p.store.Add(ctx, inbox.Item{
		ID:        msg.NotificationID,
		UserID:    userID,
		EventType: string(msg.EventType),
		Priority:  msg.Priority.String(),
		Title:     msg.Title,
		Message:   msg.Body,
		ActionURL: msg.ActionURL,
		CreatedAt: now,
	})
	if err != nil {
		return notify.Failed(err)
	}
	return notify.Succeeded(msg.NotificationID, now)
}
