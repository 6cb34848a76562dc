package providers

import "errors"

var (
	ErrInvalidConfig   = errors.New("invalid provider configuration")
	ErrInvalidAddress  = errors.New("invalid recipient address")
	ErrRejected        = errors.New("provider rejected the message")
	ErrNotConnected    = errors.New("recipient has no active connection")
	ErrInboxDisabled   = errors.New("in-app inbox is disabled")
	ErrMissingResponse = errors.New("provider response carried no message id")
)
