/*
# Module: services/ratelimit.go
Sliding one-hour limit on completed location changes per user.

## Linked Modules
- [services/session](./session.go) - Location change flow

## Tags
business-logic, rate-limiting

## Exports
LocationChangeLimiter, NewLocationChangeLimiter

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "services/ratelimit.go" ;
    code:description "Sliding one-hour limit on location changes per user" ;
    code:linksTo [
        code:name "services/session" ;
        code:path "./session.go" ;
        code:relationship "Location change flow"
    ] ;
    code:exports :LocationChangeLimiter, :NewLocationChangeLimiter, :Allowed, :Record ;
    code:tags "business-logic", "rate-limiting" .
<!-- End LinkedDoc RDF -->
*/
package services

import (
	"context"
	"sync"
	"time"
)

const limiterWindow = time.Hour

// LocationChangeLimiter caps how many times a user may change their location
// within the last hour. A zero limit disables it.
type LocationChangeLimiter struct {
	changes    map[string][]time.Time // user_id -> change timestamps
	maxPerHour int
	now        func() time.Time
	mutex      sync.Mutex
}

// NewLocationChangeLimiter creates a limiter
func NewLocationChangeLimiter(maxPerHour int) *LocationChangeLimiter {
	return &LocationChangeLimiter{
		changes:    make(map[string][]time.Time),
		maxPerHour: maxPerHour,
		now:        time.Now,
	}
}

// Allowed reports whether userID may make another change now. It records
// nothing; call Record once the change has happened.
func (l *LocationChangeLimiter) Allowed(userID string) bool {
	return l.Remaining(userID) != 0
}

// Remaining returns how many changes userID has left in the window, or -1
// when the limiter is disabled.
func (l *LocationChangeLimiter) Remaining(userID string) int {
	if l == nil || l.maxPerHour <= 0 {
		return -1
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	recent := prune(l.changes[userID], l.now().Add(-limiterWindow))
	if len(recent) == 0 {
		delete(l.changes, userID)
	} else {
		l.changes[userID] = recent
	}
	if len(recent) >= l.maxPerHour {
		return 0
	}
	return l.maxPerHour - len(recent)
}

// Record counts a completed change for userID
func (l *LocationChangeLimiter) Record(userID string) {
	if l == nil || l.maxPerHour <= 0 {
		return
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	now := l.now()
	l.changes[userID] = append(prune(l.changes[userID], now.Add(-limiterWindow)), now)
}

// Run drops expired timestamps every interval until ctx is done.
func (l *LocationChangeLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.cleanup()
		}
	}
}

func (l *LocationChangeLimiter) cleanup() {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	cutoff := l.now().Add(-limiterWindow)
	for userID, timestamps := range l.changes {
		recent := prune(timestamps, cutoff)
		if len(recent) == 0 {
			delete(l.changes, userID)
		} else {
			l.changes[userID] = recent
		}
	}
}

func (l *LocationChangeLimiter) tracked() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return len(l.changes)
}

func prune(timestamps []time.Time, cutoff time.Time) []time.Time {
	filtered := timestamps[:0]
	for _, ts := range timestamps {
		if ts.After(cutoff) {
			filtered = append(filtered, ts)
		}
	}
	return filtered
}
