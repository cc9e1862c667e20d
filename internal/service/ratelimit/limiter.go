package ratelimit

import (
	"sync"
	"time"
)

// Scope names. AI-heavy routes are checked against both, baseline first.
const (
	ScopeGlobal = "global"
	ScopeAI     = "ai"
)

// ScopeConfig bounds one bucket space.
type ScopeConfig struct {
	Window time.Duration
	Max    int
}

type bucket struct {
	count   int
	resetAt time.Time
}

// Result is the outcome of one check. Reset is the time until the
// window rolls over, usable as a retry hint.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Duration
}

// Limiter is a per-key sliding-by-replacement window gate. Buckets are
// reset lazily on the next hit after their window elapses; a periodic
// sweep evicts long-expired buckets so memory stays bounded regardless
// of traffic shape. Single-process only: no cross-instance coordination.
type Limiter struct {
	mu      sync.Mutex
	scopes  map[string]ScopeConfig
	buckets map[string]*bucket
	now     func() time.Time
}

func New(scopes map[string]ScopeConfig) *Limiter {
	return &Limiter{
		scopes:  scopes,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Check counts a hit for (scope, key). The max+1-th hit inside a window
// is the first rejected one.
func (l *Limiter) Check(scope, key string) Result {
	cfg, ok := l.scopes[scope]
	if !ok {
		// Unknown scope never limits; misconfiguration should not take
		// the API down.
		return Result{Allowed: true}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	id := scope + ":" + key

	b := l.buckets[id]
	if b == nil || !now.Before(b.resetAt) {
		b = &bucket{resetAt: now.Add(cfg.Window)}
		l.buckets[id] = b
	}

	b.count++
	reset := b.resetAt.Sub(now)
	remaining := cfg.Max - b.count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   b.count <= cfg.Max,
		Limit:     cfg.Max,
		Remaining: remaining,
		Reset:     reset,
	}
}

// Sweep drops buckets whose window has already elapsed.
func (l *Limiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for id, b := range l.buckets {
		if b.resetAt.Before(now) {
			delete(l.buckets, id)
		}
	}
}

func (l *Limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
