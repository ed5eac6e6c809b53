package ratelimit

import "context"

// Limiter answers whether one more attempt is allowed for a key right
// now. Implementations decide window shape and storage.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
