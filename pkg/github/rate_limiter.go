package github

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimiterConfig configures how calls are paced against the API quota
type RateLimiterConfig struct {
	// MinInterval is the minimum delay between the start of two calls
	MinInterval time.Duration

	// MaxWait caps how long a call may be held back for an exhausted quota.
	// If the quota resets later than this, the call goes out anyway.
	MaxWait time.Duration
}

// DefaultRateLimiterConfig returns a default rate limiter configuration
func DefaultRateLimiterConfig() *RateLimiterConfig {
	return &RateLimiterConfig{
		MinInterval: 0,
		MaxWait:     time.Minute,
	}
}

// RateLimiterStats provides statistics about rate limiter usage
type RateLimiterStats struct {
	RemainingRequests int           `json:"remaining_requests"`
	ResetTime         time.Time     `json:"reset_time"`
	TotalWaits        int64         `json:"total_waits"`
	TotalDelayTime    time.Duration `json:"total_delay_time"`
}

// RateLimiter paces calls using the quota headers of previous responses.
// It only delays calls; it never repeats one. A nil RateLimiter never waits.
type RateLimiter struct {
	config *RateLimiterConfig
	mu     sync.Mutex

	remaining int
	resetTime time.Time
	lastCall  time.Time

	stats RateLimiterStats

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(config *RateLimiterConfig) *RateLimiter {
	if config == nil {
		config = DefaultRateLimiterConfig()
	}

	return &RateLimiter{
		config:    config,
		remaining: -1,
		now:       time.Now,
		sleep:     sleepContext,
	}
}

// Wait blocks until it's safe to make an API call
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl == nil {
		return nil
	}

	rl.mu.Lock()
	delay := rl.calculateDelay()
	if delay > 0 {
		rl.stats.TotalWaits++
		rl.stats.TotalDelayTime += delay
	}
	rl.mu.Unlock()

	if delay > 0 {
		if err := rl.sleep(ctx, delay); err != nil {
			return err
		}
	}

	rl.mu.Lock()
	rl.lastCall = rl.now()
	rl.mu.Unlock()
	return nil
}

// Update records the quota reported by a response
func (rl *RateLimiter) Update(header http.Header) {
	if rl == nil {
		return
	}

	remaining, err := strconv.Atoi(header.Get("X-RateLimit-Remaining"))
	if err != nil {
		return
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.remaining = remaining
	if reset, err := strconv.ParseInt(header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		rl.resetTime = time.Unix(reset, 0)
	}
	rl.stats.RemainingRequests = rl.remaining
	rl.stats.ResetTime = rl.resetTime
}

// GetStats returns current rate limiter statistics
func (rl *RateLimiter) GetStats() RateLimiterStats {
	if rl == nil {
		return RateLimiterStats{}
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	return rl.stats
}

// calculateDelay calculates the delay needed before the next API call
func (rl *RateLimiter) calculateDelay() time.Duration {
	now := rl.now()

	var delay time.Duration
	if !rl.lastCall.IsZero() && rl.config.MinInterval > 0 {
		if since := now.Sub(rl.lastCall); since < rl.config.MinInterval {
			delay = rl.config.MinInterval - since
		}
	}

	if rl.remaining == 0 && now.Before(rl.resetTime) {
		if wait := rl.resetTime.Sub(now); wait <= rl.config.MaxWait && wait > delay {
			delay = wait
		}
	}

	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
