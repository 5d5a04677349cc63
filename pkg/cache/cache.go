// Package cache provides pluggable storage for derived data: fetched remote
// documents, computed layouts and rendered artifacts.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: disables caching
//
// # Keys
//
// A [Keyer] derives keys from content hashes plus the options that affect the
// result, so a change to either produces a new key:
//
//	docHash := cache.Hash(doc.AppendJSON(nil))
//	key := keyer.LayoutKey(docHash, cache.LayoutKeyOpts{...})
//
// [ScopedKeyer] prefixes every key for namespace isolation.
//
// Cache failures are never fatal to callers; a failed Get is a miss.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Default entry lifetimes.
const (
	TTLFetch    = 10 * time.Minute
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
