package lock

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const releaseTimeout = 2 * time.Second

// releaseScript deletes the key only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis implements Locker with SET NX PX and a compare-and-delete release.
type Redis struct {
	client *redis.Client
	prefix string
	wait   time.Duration
	retry  time.Duration
	log    *zap.Logger
}

func NewRedis(client *redis.Client, prefix string, wait time.Duration, log *zap.Logger) *Redis {
	return &Redis{client: client, prefix: prefix, wait: wait, retry: defaultRetry, log: log}
}

func (r *Redis) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	name := r.prefix + key
	token := uuid.NewString()
	err := poll(ctx, r.wait, r.retry, func() (bool, error) {
		return r.client.SetNX(ctx, name, token, ttl).Result()
	})
	if err != nil {
		return nil, err
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()
		if err := releaseScript.Run(ctx, r.client, []string{name}, token).Err(); err != nil {
			r.log.Warn("lock release failed", zap.String("key", name), zap.Error(err))
		}
	}, nil
}
