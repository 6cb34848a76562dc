package opensearch

import "errors"

var (
	ErrConnectionFailed  = errors.New("opensearch connection failed")
	ErrNoAddresses       = errors.New("opensearch addresses are not configured")
	ErrHealthcheckFailed = errors.New("opensearch healthcheck failed")
)
