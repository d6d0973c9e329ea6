package locks

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Triostacksoftware/authkit/domain"
)

const acquirePollInterval = 25 * time.Millisecond

// EmailLockImpl implements domain.OperationLocker using Redis SET NX. The
// TTL is a safety bound in case a holder dies without releasing.
type EmailLockImpl struct {
	client *redis.Client
	ttl    time.Duration
}

// NewEmailLock creates a Redis-backed per-email operation lock.
func NewEmailLock(client *redis.Client, ttl time.Duration) domain.OperationLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &EmailLockImpl{client: client, ttl: ttl}
}

// Acquire blocks until the lock for email is held or ctx is done.
func (l *EmailLockImpl) Acquire(ctx context.Context, email string) (func(), error) {
	key := "lock:email:" + email
	for {
		ok, err := l.client.SetNX(ctx, key, 1, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire email lock: %w", err)
		}
		if ok {
			release := func() {
				l.client.Del(context.Background(), key)
			}
			return release, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(acquirePollInterval):
		}
	}
}
