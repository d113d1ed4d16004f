package lock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

type RedisOptions struct {
	Prefix string
	// TTL bounds how long a crashed holder blocks the key.
	TTL time.Duration
	// RetryInterval is the pause between SET NX attempts.
	RetryInterval time.Duration
}

// RedisLocker is a Locker shared by several processes through Redis.
type RedisLocker struct {
	rdb  redis.Cmdable
	opts RedisOptions
	log  *slog.Logger
}

func NewRedisLocker(rdb redis.Cmdable, opts RedisOptions, log *slog.Logger) *RedisLocker {
	if opts.Prefix == "" {
		opts.Prefix = "reservation:lock"
	}
	if opts.TTL <= 0 {
		opts.TTL = 10 * time.Second
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = 25 * time.Millisecond
	}
	if log == nil {
		log = slog.Default()
	}
	return &RedisLocker{rdb: rdb, opts: opts, log: log}
}

func (l *RedisLocker) key(k string) string {
	return l.opts.Prefix + ":" + k
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	k := l.key(key)
	token := uuid.NewString()

	ticker := time.NewTicker(l.opts.RetryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.rdb.SetNX(ctx, k, token, l.opts.TTL).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("redis lock %s: %w", k, err)
		}
		if ok {
			return func() { l.release(k, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) release(k, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	n, err := releaseScript.Run(ctx, l.rdb, []string{k}, token).Int()
	if err != nil {
		l.log.Warn("redis unlock failed", "key", k, "err", err)
		return
	}
	if n == 0 {
		l.log.Warn("redis lock expired before unlock", "key", k, "err", ErrNotHeld)
	}
}
