package pgstore

import "errors"

var (
	ErrQuery = errors.New("notification store query failed")
	ErrScan  = errors.New("failed to scan notification row")
)
