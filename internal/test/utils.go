package test

import (
	"sync"
	"time"

	"github.com/Stewz00/go-auth-gateway/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// Epoch is a fixed, whole-second start time for fake clocks.
var Epoch = time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)

// Clock is a manually advanced clock safe for concurrent use.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current fake time. Pass clock.Now wherever a func() time.Time is expected.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// NewConfig returns a configuration suitable for tests: fixed secrets, the
// cheapest bcrypt cost and the production throttle settings.
func NewConfig() *config.Config {
	return &config.Config{
		Port:               "0",
		JwtSecret:          "test-signing-secret",
		ProfileKey:         "test-profile-secret",
		TokenTTL:           time.Hour,
		LoginWindow:        15 * time.Minute,
		LoginMaxAttempts:   5,
		HashWorkers:        4,
		BcryptCost:         bcrypt.MinCost,
		RateLimitPerMinute: 1000,
		LogLevel:           "error",
		LogFormat:          "text",
	}
}
