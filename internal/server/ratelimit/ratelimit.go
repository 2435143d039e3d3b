// Package ratelimit provides per-account, per-action request limiting
// using fixed time windows. Generation triggers hit a metered completion
// backend, so the limiter errs on the side of denying when a counter
// read fails.
package ratelimit

import (
	"sync"
	"time"
)

// Limit is a configuration tuple: how many requests fit in one window.
type Limit struct {
	MaxRequests int
	Window      time.Duration
}

// Preset limits per action name. Actions without a preset use "default".
var Limits = map[string]Limit{
	"generation": {MaxRequests: 2, Window: time.Minute},
	"ai":         {MaxRequests: 10, Window: time.Minute},
	"posts":      {MaxRequests: 60, Window: time.Minute},
	"default":    {MaxRequests: 30, Window: time.Minute},
}

// ForAction returns the preset limit for an action name.
func ForAction(action string) Limit {
	if l, ok := Limits[action]; ok {
		return l
	}
	return Limits["default"]
}

// Result reports the outcome of a limiter check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
}

type entry struct {
	count   int
	resetAt time.Time
}

// Limiter is an in-memory fixed-window counter keyed by caller-supplied
// strings (conventionally "accountID:action", see Key).
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry

	now func() time.Time

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
}

// NewLimiter creates a limiter and starts its background cleanup loop.
// Call Stop when done.
func NewLimiter(cleanupInterval time.Duration) *Limiter {
	l := &Limiter{
		entries: make(map[string]*entry),
		now:     time.Now,
	}

	if cleanupInterval > 0 {
		l.cleanupTicker = time.NewTicker(cleanupInterval)
		l.cleanupStop = make(chan struct{})
		go l.cleanupLoop()
	}

	return l
}

// Key builds the canonical limiter key for an account and action.
func Key(accountID, action string) string {
	return accountID + ":" + action
}

// Check records one request against the key's window and reports whether
// it is allowed. The first request of an expired or missing window starts
// a fresh one.
func (l *Limiter) Check(key string, limit Limit) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]

	if !ok || now.After(e.resetAt) {
		l.entries[key] = &entry{count: 1, resetAt: now.Add(limit.Window)}
		return Result{
			Allowed:   true,
			Remaining: limit.MaxRequests - 1,
			ResetIn:   limit.Window,
		}
	}

	if e.count < limit.MaxRequests {
		e.count++
		return Result{
			Allowed:   true,
			Remaining: limit.MaxRequests - e.count,
			ResetIn:   e.resetAt.Sub(now),
		}
	}

	return Result{
		Allowed:   false,
		Remaining: 0,
		ResetIn:   e.resetAt.Sub(now),
	}
}

// cleanupLoop evicts expired windows so idle accounts don't accumulate.
func (l *Limiter) cleanupLoop() {
	for {
		select {
		case <-l.cleanupTicker.C:
			l.cleanupExpired()
		case <-l.cleanupStop:
			return
		}
	}
}

func (l *Limiter) cleanupExpired() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, e := range l.entries {
		if now.After(e.resetAt) {
			delete(l.entries, key)
		}
	}
}

// Stop halts the cleanup goroutine.
func (l *Limiter) Stop() {
	if l.cleanupTicker != nil {
		l.cleanupTicker.Stop()
	}
	if l.cleanupStop != nil {
		close(l.cleanupStop)
	}
}
