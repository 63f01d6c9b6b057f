package port

import "context"

// Cache defines the interface for caching operations
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string, dest any) error

	// Set stores a value in cache
	Set(ctx context.Context, key string, value any) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Close closes the cache connection
	Close() error
}

// CacheKeyCurrentSnapshot key under which the live snapshot is mirrored
const CacheKeyCurrentSnapshot = "dashboard:snapshot:current"
