// Package cache stores rendered artifacts keyed by a hash of their inputs.
//
// Diagram rendering runs Graphviz in-process and is by far the slowest step
// of a request. The DOT source fully determines the SVG, so a rendered
// diagram is cached under [DiagramKey] of its DOT source and reused until
// the TTL runs out.
//
// Two implementations are provided:
//   - [FileCache]: entries as JSON files under a directory (CLI and server)
//   - [NullCache]: never stores anything (caching disabled)
package cache

import (
	"context"
	"time"
)

// TTLDiagram is how long a rendered diagram stays cached.
const TTLDiagram = 7 * 24 * time.Hour

// Cache is a byte cache with per-entry expiry.
type Cache interface {
	// Get returns the cached data and true on a hit. Misses and expired
	// entries return false with a nil error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources.
	Close() error
}
