package cache

import (
	"context"
	"time"
)

// ICache is a string key/value store with per-entry TTL.
// A missing or expired key is reported as found == false with a nil error.
type ICache interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close() error
}
