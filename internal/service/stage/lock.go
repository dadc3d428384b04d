package stage

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"moey-backend/internal/domain"
)

// Locker serialises responses per (order, notification type) across instances.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

func lockKey(orderID uuid.UUID, t domain.NotificationType) string {
	return fmt.Sprintf("stage:lock:%s:%s", orderID, t)
}

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

type redisLocker struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisLocker returns a no-op locker when client is nil; the unique
// constraints on stage tables still prevent duplicate rows.
func NewRedisLocker(client *redis.Client, ttl time.Duration) Locker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &redisLocker{redis: client, ttl: ttl}
}

func (l *redisLocker) Lock(ctx context.Context, key string) (func(), error) {
	if l.redis == nil {
		return func() {}, nil
	}

	token := uuid.NewString()
	ok, err := l.redis.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		// Redis outage degrades to unlocked operation.
		log.Printf("stage: lock %s unavailable: %v", key, err)
		return func() {}, nil
	}
	if !ok {
		return nil, domain.ErrStageBusy
	}

	return func() {
		if err := releaseScript.Run(context.Background(), l.redis, []string{key}, token).Err(); err != nil {
			log.Printf("stage: failed to release lock %s: %v", key, err)
		}
	}, nil
}
