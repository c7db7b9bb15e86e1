package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type memoryEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter keeps one token bucket per key inside the process.
type MemoryLimiter struct {
	cfg     Config
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	return &MemoryLimiter{
		cfg:     cfg.normalized(),
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryLimiter) get(key string, now time.Time) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		e = &memoryEntry{limiter: rate.NewLimiter(rate.Limit(m.cfg.RPS), m.cfg.Burst)}
		m.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := m.now()
	lim := m.get(key, now)
	d := Decision{Limit: m.cfg.Burst}

	r := lim.ReserveN(now, 1)
	if !r.OK() {
		return d, nil
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		d.RetryAfter = delay
		return d, nil
	}
	d.Allowed = true
	d.Remaining = int(math.Floor(lim.TokensAt(now)))
	if d.Remaining < 0 {
		d.Remaining = 0
	}
	return d, nil
}

// Sweep drops buckets idle for longer than maxIdle and returns how many.
func (m *MemoryLimiter) Sweep(maxIdle time.Duration) int {
	cutoff := m.now().Add(-maxIdle)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k, e := range m.entries {
		if e.lastSeen.Before(cutoff) {
			delete(m.entries, k)
			n++
		}
	}
	return n
}
