// Package cache provides a generic, thread-safe LRU cache with optional
// time-based expiry.
//
// The cache holds at most a fixed number of entries and evicts the least
// recently used one when full. With WithTTL, an entry also stops being
// returned once the TTL has passed since it was last written; expired
// entries are dropped lazily on access.
//
//	settings := cache.NewLRUCache[string, notify.Settings](1024, cache.WithTTL(time.Minute))
//	settings.Put(userID, s)
//	if s, ok := settings.Get(userID); ok {
//	    // fresh
//	}
//
// SetEvictCallback registers a hook that runs whenever an entry leaves the
// cache. It is the place to release resources tied to the value, such as
// closing a per-user broadcaster.
//
// Get, Put and Remove are O(1). All methods are safe for concurrent use; the
// evict callback runs while the cache lock is held and must not call back
// into the cache.
package cache
