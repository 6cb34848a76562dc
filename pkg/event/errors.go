package event

import "errors"

var (
	ErrInvalidEvent   = errors.New("invalid event")
	ErrInvalidPayload = errors.New("invalid event payload")
)
