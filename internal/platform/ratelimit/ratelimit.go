package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter admits or rejects one hit for key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

type Config struct {
	// RPS is the sustained rate per key.
	RPS   float64
	Burst int
}

func (c Config) normalized() Config {
	if c.RPS <= 0 {
		c.RPS = 5
	}
	if c.Burst <= 0 {
		c.Burst = 20
	}
	return c
}
