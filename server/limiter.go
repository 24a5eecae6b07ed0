package server

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

// joinLimiter applies a token bucket per participant and evicts idle
// buckets now and then.
type joinLimiter struct {
	limit rate.Limit
	burst int
	byKey map[string]*bucket
	hits  uint64
	mu    sync.Mutex
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// newJoinLimiter returns nil, which allows everything, when rps or burst is
// not positive.
func newJoinLimiter(rps float64, burst int) *joinLimiter {
	if rps <= 0 || burst <= 0 {
		return nil
	}

	return &joinLimiter{
		limit: rate.Limit(rps),
		burst: burst,
		byKey: make(map[string]*bucket),
	}
}

func (l *joinLimiter) Allow(participant string, now time.Time) bool {
	if l == nil {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.byKey[participant]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.byKey[participant] = b
	}

	b.lastSeen = now
	allowed := b.limiter.AllowN(now, 1)

	l.hits++
	if l.hits%256 == 0 {
		cutoff := now.Add(-limiterIdleTTL)

		for k, v := range l.byKey {
			if v.lastSeen.Before(cutoff) {
				delete(l.byKey, k)
			}
		}
	}

	return allowed
}
