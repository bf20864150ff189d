package contract

import "context"

// AnonymousCountRepository stores the free-tier usage counter per quota key.
type AnonymousCountRepository interface {
	// Get returns 0 for keys that were never incremented.
	Get(ctx context.Context, key string) (int, error)
	// Increment atomically adds one and returns the new value.
	Increment(ctx context.Context, key string) (int, error)
}
