package repository

import (
	"context"
	"time"
)

// CacheRepository stores serialized allocation results. A miss is reported
// through the bool, not the error.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}
