package service

import (
	"context"
	"sync"
	"time"
)

// attemptRecord tracks login attempts for one client identity.
type attemptRecord struct {
	count       int
	windowStart time.Time
}

// Decision is the outcome of LoginThrottle.Admit.
type Decision struct {
	Allowed    bool
	Remaining  int           // attempts left in the current window after this one
	RetryAfter time.Duration // set when not allowed
}

// LoginThrottle limits login attempts per client identity to maxAttempts
// within a fixed window that starts at the first attempt. Every admitted
// attempt counts, whatever the credential check later decides.
type LoginThrottle struct {
	mu          sync.Mutex
	records     map[string]*attemptRecord
	window      time.Duration
	maxAttempts int
	now         func() time.Time
}

// NewLoginThrottle creates a throttle. now may be nil, in which case
// time.Now is used.
func NewLoginThrottle(maxAttempts int, window time.Duration, now func() time.Time) *LoginThrottle {
	if now == nil {
		now = time.Now
	}
	return &LoginThrottle{
		records:     make(map[string]*attemptRecord),
		window:      window,
		maxAttempts: maxAttempts,
		now:         now,
	}
}

// Admit records an attempt from identity and reports whether it may proceed.
// The check and the increment happen under one lock.
func (t *LoginThrottle) Admit(identity string) Decision {
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	rec, exists := t.records[identity]
	if !exists || !now.Before(rec.windowStart.Add(t.window)) {
		t.records[identity] = &attemptRecord{count: 1, windowStart: now}
		return Decision{Allowed: true, Remaining: t.maxAttempts - 1}
	}

	if rec.count >= t.maxAttempts {
		return Decision{RetryAfter: rec.windowStart.Add(t.window).Sub(now)}
	}

	rec.count++
	return Decision{Allowed: true, Remaining: t.maxAttempts - rec.count}
}

// Sweep drops records whose window has elapsed and returns how many were removed.
func (t *LoginThrottle) Sweep() int {
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for id, rec := range t.records {
		if !now.Before(rec.windowStart.Add(t.window)) {
			delete(t.records, id)
			removed++
		}
	}
	return removed
}

// Run calls Sweep every interval until ctx is done.
func (t *LoginThrottle) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Sweep()
		}
	}
}

// tracked reports the number of identities currently held.
func (t *LoginThrottle) tracked() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}
