// Package ratelimit implements per-caller sliding-window admission
// control for inbound commands.
package ratelimit

import (
	"sync"
	"time"
)

// UnknownCaller is the shared bucket for events with no caller id, so an
// unauthenticated flood competes with itself rather than with everyone.
const UnknownCaller = "unknown"

const (
	defaultQuota  = 30
	defaultPeriod = 60 * time.Second
)

// Limiter admits up to quota requests per caller within a trailing
// period. Denied requests are not recorded, so a flood cannot extend its
// own lockout.
type Limiter struct {
	quota  int
	period time.Duration

	mu      sync.Mutex
	windows map[string][]time.Time

	now func() time.Time
}

// New builds a limiter. Non-positive quota or period fall back to the
// defaults (30 requests per 60s).
func New(quota int, period time.Duration) *Limiter {
	if quota <= 0 {
		quota = defaultQuota
	}
	if period <= 0 {
		period = defaultPeriod
	}
	return &Limiter{
		quota:   quota,
		period:  period,
		windows: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Allow reports whether the caller may proceed, recording the request
// time when admitted. An empty caller id uses the shared unknown bucket.
func (l *Limiter) Allow(callerID string) bool {
	if callerID == "" {
		callerID = UnknownCaller
	}
	now := l.now()
	cutoff := now.Add(-l.period)

	l.mu.Lock()
	defer l.mu.Unlock()

	window := l.windows[callerID]
	kept := window[:0]
	for _, at := range window {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}

	if len(kept) >= l.quota {
		l.windows[callerID] = kept
		return false
	}
	l.windows[callerID] = append(kept, now)
	return true
}
