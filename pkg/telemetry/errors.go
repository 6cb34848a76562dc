package telemetry

import "errors"

var (
	ErrEncode  = errors.New("telemetry: failed to encode event")
	ErrIndex   = errors.New("telemetry: failed to index event")
	ErrPublish = errors.New("telemetry: failed to publish event")
)
