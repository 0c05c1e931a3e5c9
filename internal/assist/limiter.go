package assist

import (
	"sync"
	"time"
)

// Limiter enforces a fixed cooldown between requests from the same caller.
// Callers are identified by an opaque key, typically the client address.
type Limiter struct {
	mu       sync.Mutex
	cooldown time.Duration
	lastSeen map[string]time.Time
	now      func() time.Time
}

// NewLimiter builds a limiter with the given cooldown. A zero or negative
// cooldown disables limiting.
func NewLimiter(cooldown time.Duration) *Limiter {
	return &Limiter{
		cooldown: cooldown,
		lastSeen: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Allow reports whether the caller may proceed now. When the caller is still
// cooling down it returns false and the remaining wait.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	if l.cooldown <= 0 {
		return true, 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if last, ok := l.lastSeen[key]; ok {
		if elapsed := now.Sub(last); elapsed < l.cooldown {
			return false, l.cooldown - elapsed
		}
	}
	l.lastSeen[key] = now
	l.prune(now)
	return true, 0
}

// prune drops entries old enough that they can never block again. Called
// with the lock held.
func (l *Limiter) prune(now time.Time) {
	if len(l.lastSeen) < 128 {
		return
	}
	for key, last := range l.lastSeen {
		if now.Sub(last) >= l.cooldown {
			delete(l.lastSeen, key)
		}
	}
}
