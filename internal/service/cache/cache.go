// Package cache backs the HTTP read path with a byte-level response cache.
package cache

import "time"

// BytesCache stores serialized responses under a string key. A miss is
// (nil, false, nil); errors are reserved for backend failures.
type BytesCache interface {
	Get(key string) (b []byte, ok bool, err error)
	Set(key string, value []byte, ttl time.Duration) error
}
