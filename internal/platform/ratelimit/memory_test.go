package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterBurstThenReject(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(Config{RPS: 1, Burst: 3})
	l.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		d, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "hit %d", i)
	}
	d, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Greater(t, d.RetryAfter, time.Duration(0))

	// other keys are independent
	d, _ = l.Allow(ctx, "5.6.7.8")
	assert.True(t, d.Allowed)

	now = now.Add(time.Second)
	d, _ = l.Allow(ctx, "1.2.3.4")
	assert.True(t, d.Allowed)
}

func TestMemoryLimiterSweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(Config{})
	l.now = func() time.Time { return now }

	_, _ = l.Allow(context.Background(), "a")
	now = now.Add(10 * time.Minute)
	_, _ = l.Allow(context.Background(), "b")

	assert.Equal(t, 1, l.Sweep(5*time.Minute))
	assert.Len(t, l.entries, 1)
}
