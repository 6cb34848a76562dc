package audit

import "errors"

var (
	// ErrStorageNotAvailable is returned by a closed AsyncWriter.
	ErrStorageNotAvailable = errors.New("audit storage is unavailable")

	// ErrInvalidRecord is returned for records missing required fields.
	ErrInvalidRecord = errors.New("invalid audit record")

	ErrStorageFailed = errors.New("audit storage operation failed")
)
