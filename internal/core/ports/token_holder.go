package ports

import "context"

// TokenHolder caches the bearer credential consumed by the HTTP transport.
// Get falls back to the persisted slot on a cache miss; Clear empties both
// the cache and the slot.
type TokenHolder interface {
	Set(ctx context.Context, token string)
	Get(ctx context.Context) (string, bool)
	Clear(ctx context.Context)
}
