// Package ratelimiter throttles the credential endpoints per client
// key with a sliding window, so password guessing stays slow without
// touching any read path.
package ratelimiter

import (
	"context"
	"sync"
	"time"
)

const cleanupInterval = time.Hour

type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	window   time.Duration
	limit    int
	now      func() time.Time
}

func New(ctx context.Context, window time.Duration, limit int) *RateLimiter {
	rl := &RateLimiter{
		requests: make(map[string][]time.Time),
		window:   window,
		limit:    limit,
		now:      time.Now,
	}

	go rl.cleanupLoop(ctx)

	return rl
}

// Allow records an attempt for key and reports whether it is still
// inside the limit for the current window.
func (rl *RateLimiter) Allow(key string) bool {
	now := rl.now()
	windowStart := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	valid := keepAfter(rl.requests[key], windowStart)

	if len(valid) >= rl.limit {
		rl.requests[key] = valid

		return false
	}

	rl.requests[key] = append(valid, now)

	return true
}

func (rl *RateLimiter) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-ctx.Done():
			return
		}
	}
}

func (rl *RateLimiter) cleanupStaleEntries() {
	cutoff := rl.now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, attempts := range rl.requests {
		valid := keepAfter(attempts, cutoff)
		if len(valid) == 0 {
			delete(rl.requests, key)
		} else {
			rl.requests[key] = valid
		}
	}
}

func keepAfter(attempts []time.Time, cutoff time.Time) []time.Time {
	var valid []time.Time
	for _, t := range attempts {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	return valid
}
