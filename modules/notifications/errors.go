package notifications

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/courier/handler"
	"github.com/dmitrymomot/courier/pkg/event"
	"github.com/dmitrymomot/courier/pkg/notify"
	"github.com/dmitrymomot/courier/pkg/webhook"
)

var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrInvalidSettings = errors.New("invalid recipient settings")
	ErrInvalidReceipt  = errors.New("invalid delivery receipt")
)

// mapError attaches the HTTP status for known domain errors.
func mapError(err error) error {
	var status handler.HTTPError
	switch {
	case errors.Is(err, notify.ErrNotificationNotFound),
		errors.Is(err, notify.ErrDeliveryNotFound),
		errors.Is(err, notify.ErrSettingsNotFound):
		status = handler.ErrNotFound
	case errors.Is(err, notify.ErrInvalidTransition):
		status = handler.ErrConflict
	case errors.Is(err, webhook.ErrInvalidSignature):
		status = handler.ErrUnauthorized
	case errors.Is(err, event.ErrInvalidEvent),
		errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrInvalidSettings),
		errors.Is(err, ErrInvalidReceipt):
		status = handler.ErrBadRequest
	default:
		return err
	}
	return fmt.Errorf("%w: %w", status, err)
}
