package ratelimit

import (
	"context"
	"fmt"
	"math"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window counter shared by every replica. The window
// admits Burst hits plus RPS×window.
type RedisLimiter struct {
	rdb    goredis.UniversalClient
	prefix string
	window time.Duration
	limit  int
	now    func() time.Time
}

func NewRedisLimiter(rdb goredis.UniversalClient, prefix string, cfg Config) *RedisLimiter {
	cfg = cfg.normalized()
	window := time.Second
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisLimiter{
		rdb:    rdb,
		prefix: prefix,
		window: window,
		limit:  int(math.Ceil(cfg.RPS*window.Seconds())) + cfg.Burst,
		now:    time.Now,
	}
}

func (l *RedisLimiter) windowKey(key string, now time.Time) (string, time.Duration) {
	slot := now.UnixNano() / int64(l.window)
	end := time.Unix(0, (slot+1)*int64(l.window))
	return fmt.Sprintf("%s:%s:%d", l.prefix, key, slot), end.Sub(now)
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := l.now()
	k, ttl := l.windowKey(key, now)

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, l.window+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{Allowed: true, Limit: l.limit, Remaining: l.limit}, fmt.Errorf("redis ratelimit: %w", err)
	}

	n := int(incr.Val())
	d := Decision{Limit: l.limit, Remaining: l.limit - n}
	if n <= l.limit {
		d.Allowed = true
		return d, nil
	}
	d.Remaining = 0
	d.RetryAfter = ttl
	return d, nil
}
