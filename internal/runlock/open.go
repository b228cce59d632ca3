package runlock

import (
	"context"
	"time"
)

// Locker is satisfied by Redis and Local.
type Locker interface {
	TryLock(ctx context.Context) (func(context.Context) error, bool, error)
}

// Open returns a Redis lease on key when url is set, otherwise a
// process-local lock. The returned close func releases the client.
func Open(url, key string, ttl time.Duration) (Locker, func() error, error) {
	if url == "" {
		return NewLocal(), func() error { return nil }, nil
	}
	client, err := NewRedisClient(url)
	if err != nil {
		return nil, nil, err
	}
	return NewRedis(client, key, ttl), client.Close, nil
}
