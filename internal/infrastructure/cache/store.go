package cache

import (
	"context"
	"time"
)

// Store is the common surface of the cache backends
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, expiration time.Duration)
	Delete(ctx context.Context, key string)
}
