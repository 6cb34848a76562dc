package notify

import "errors"

var (
	ErrSettingsNotFound      = errors.New("recipient settings not found")
	ErrNotificationNotFound  = errors.New("notification not found")
	ErrDeliveryNotFound      = errors.New("delivery not found")
	ErrInvalidNotification   = errors.New("invalid notification")
	ErrDuplicateNotification = errors.New("notification already exists")

	ErrProviderNotConfigured = errors.New("provider not configured")
	ErrDuplicateProvider     = errors.New("duplicate provider for channel")
	ErrInvalidProvider       = errors.New("invalid provider")

	ErrUnknownDeliveryError = errors.New("Unknown error")
	ErrSendTimeout          = errors.New("provider send timed out")
	ErrProviderPanic        = errors.New("provider panicked")
	ErrInvalidTransition    = errors.New("invalid delivery status transition")
)
