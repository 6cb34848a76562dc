package redisstore

import "errors"

var (
	ErrRedis           = errors.New("settings store redis command failed")
	ErrInvalidSettings = errors.New("invalid recipient settings document")
	ErrMissingUserID   = errors.New("recipient settings have no user id")
)
