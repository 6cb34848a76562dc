package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/courier/pkg/email"
	"github.com/dmitrymomot/courier/pkg/email/templates"
	"github.com/dmitrymomot/courier/pkg/notify"
)

// Email renders the notification into HTML and sends it through an
// email.EmailSender (Postmark, or the on-disk dev sender).
type Email struct {
	sender email.EmailSender
	tag    string
}

func NewEmail(sender email.EmailSender) (*Email, error) {
	if sender == nil {
		return nil, fmt.Errorf("%w: email sender is required", ErrInvalidConfig)
	}
	return &Email{sender: sender, tag: "notification"}, nil
}

func (e *Email) Channel() notify.Channel { return notify.ChannelEmail }

func (e *Email) Send(ctx context.Context, msg notify.Message, to string) notify.DeliveryResult {
	if !email.IsValidAddress(to) {
		return notify.Failed(fmt.Errorf("%w: %q is not an email address", ErrInvalidAddress, to))
	}

	body, err := templates.Render(ctx, templates.Notification(templates.NotificationData{
		Title:     msg.Title,
		Message:   msg.Body,
		ActionURL: msg.ActionURL,
		Priority:  msg.Priority.String(),
	}))
	if err != nil {
		return notify.Failed(fmt.Errorf("failed to render email: %w", err))
	}

	id, err := e.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   to,
		Subject:  msg.Title,
		BodyHTML: body,
		Tag:      e.tag,
	})
	if err != nil {
		if !errors.Is(err, email.ErrFailedToSendEmail) {
			err = errors.Join(email.ErrFailedToSendEmail, err)
		}
		return notify.Failed(err)
	}
	return notify.Succeeded(id, time.Time{})
}
