// Package cache provides a generic in-memory LRU with optional expiry.
//
//	users := cache.NewLRU[string, notifications.User](1000, cache.WithTTL(5*time.Minute))
//	users.Put(u.ID, u)
//	if u, ok := users.Get(id); ok {
//	    // fresh hit
//	}
//
// All methods are safe for concurrent use.
package cache
