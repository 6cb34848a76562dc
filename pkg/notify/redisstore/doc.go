// Package redisstore keeps recipient settings in Redis as JSON documents.
//
// Wrap the store with notify.NewCachedSettings to avoid a round trip per
// recipient on busy events.
package redisstore
