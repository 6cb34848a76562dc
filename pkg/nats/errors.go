package nats

import "errors"

var (
	ErrEmptyURL             = errors.New("nats: empty server URL, set NATS_URL")
	ErrConnectionFailed     = errors.New("nats: connection failed")
	ErrJetStreamUnavailable = errors.New("nats: jetstream unavailable")
	ErrStreamSetupFailed    = errors.New("nats: failed to create or update stream")
	ErrHealthcheckFailed    = errors.New("nats: not connected")
)
