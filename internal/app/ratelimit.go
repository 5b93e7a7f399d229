package app

import (
	"sync"
	"time"

	"github.com/dkeye/Collab/internal/domain"
	"golang.org/x/time/rate"
)

const sweepInterval = time.Minute

// RateLimiter is a token bucket per user, shared by all of the user's connections.
// Buckets that have refilled completely are dropped on the next sweep; a fresh
// bucket starts full, so dropping one changes nothing.
type RateLimiter struct {
	mu        sync.Mutex
	limiters  map[domain.UserID]*rate.Limiter
	limit     rate.Limit
	burst     int
	now       func() time.Time
	lastSweep time.Time
}

// NewRateLimiter allows perSecond events with bursts of burst. A non-positive
// perSecond disables limiting.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[domain.UserID]*rate.Limiter),
		limit:    limit,
		burst:    burst,
		now:      time.Now,
	}
}

func (rl *RateLimiter) Allow(uid domain.UserID) bool {
	if rl.limit == rate.Inf {
		return true
	}
	rl.mu.Lock()
	now := rl.now()
	if now.Sub(rl.lastSweep) >= sweepInterval {
		rl.sweepLocked(now)
	}
	l, ok := rl.limiters[uid]
	if !ok {
		l = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[uid] = l
	}
	rl.mu.Unlock()
	return l.AllowN(now, 1)
}

func (rl *RateLimiter) sweepLocked(now time.Time) {
	for uid, l := range rl.limiters {
		if l.TokensAt(now) >= float64(rl.burst) {
			delete(rl.limiters, uid)
		}
	}
	rl.lastSweep = now
}
