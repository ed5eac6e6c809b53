package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryLimiter is a per-key token bucket held in process memory. Buckets
// idle past the expiry are dropped so the map cannot grow without bound.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*memoryBucket
	limit   rate.Limit
	burst   int
	expiry  time.Duration
}

type memoryBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMemoryLimiter allows `limit` attempts per `window` for each key,
// with bursts up to the full allowance.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	l := &MemoryLimiter{
		buckets: make(map[string]*memoryBucket),
		limit:   rate.Every(window / time.Duration(limit)),
		burst:   limit,
		expiry:  3 * window,
	}
	go l.cleanup()
	return l
}

// Allow reports whether the key may make another attempt.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &memoryBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = time.Now()
	return b.limiter.Allow(), nil
}

func (l *MemoryLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		l.mu.Lock()
		for key, b := range l.buckets {
			if time.Since(b.lastSeen) > l.expiry {
				delete(l.buckets, key)
			}
		}
		l.mu.Unlock()
	}
}
