// Package cache stores generated shader code keyed by graph content.
//
// Backends:
//   - [NullCache]: never stores anything; used when caching is disabled
//   - [FileCache]: one JSON file per key under a local directory (CLI)
//   - [RedisCache]: a shared Redis instance (HTTP service)
//
// Keys come from a [Keyer] so callers never build key strings by hand:
//
//	k := cache.NewDefaultKeyer()
//	key := k.CodeKey(cache.Hash(graphJSON), "wgsl")
//	data, ok, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored bytes and true, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Clear removes every entry owned by this cache.
	Clear(ctx context.Context) error
	Close() error
}

// Keyer builds cache keys for the artifacts shadergraph caches.
type Keyer interface {
	// CodeKey addresses the compiled code of a graph for one target.
	CodeKey(graphHash, target string) string
	// DiagramKey addresses a rendered diagram of a graph.
	DiagramKey(graphHash string, opts DiagramKeyOpts) string
}

// DiagramKeyOpts lists the render options that change a diagram.
type DiagramKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed"`
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// CodeKey returns "code:<target>:<graphHash>".
func (DefaultKeyer) CodeKey(graphHash, target string) string {
	return "code:" + target + ":" + graphHash
}

// DiagramKey hashes the options so new fields never collide with old keys.
func (DefaultKeyer) DiagramKey(graphHash string, opts DiagramKeyOpts) string {
	return hashKey("diagram", graphHash, opts)
}
