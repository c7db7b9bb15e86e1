package ratelimit

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLimiterWindowKey(t *testing.T) {
	l := NewRedisLimiter(nil, "", Config{RPS: 2, Burst: 3})
	assert.Equal(t, 5, l.limit)

	now := time.Unix(100, int64(250*time.Millisecond))
	k, ttl := l.windowKey("ip", now)
	assert.Equal(t, "ratelimit:ip:100", k)
	assert.Equal(t, 750*time.Millisecond, ttl)
}

func TestRedisLimiterAgainstServer(t *testing.T) {
	addr := strings.TrimSpace(os.Getenv("TEST_REDIS_ADDR"))
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis limiter tests")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	defer rdb.Close()

	ctx := context.Background()
	require.NoError(t, rdb.Ping(ctx).Err())

	fixed := time.Now()
	l := NewRedisLimiter(rdb, "lumina-test-"+fixed.Format("150405.000000"), Config{RPS: 1, Burst: 1})
	l.now = func() time.Time { return fixed }

	for i := 0; i < 2; i++ {
		d, err := l.Allow(ctx, "k")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}
	d, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
}
