// Package ratelimit provides per-key token bucket rate limiting for MCP tools.
package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// Limiter is a per-key token bucket. Every key starts with a full bucket of
// burst tokens that refills at rate tokens per second.
// It is safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    float64
	burst   float64
	now     func() time.Time
}

type bucket struct {
	tokens float64
	seen   time.Time
}

// NewLimiter creates a limiter refilling rate tokens per second up to burst.
func NewLimiter(rate float64, burst int) *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		rate:    rate,
		burst:   float64(burst),
		now:     time.Now,
	}
}

// Allow takes one token for key and reports whether one was available.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.burst, seen: now}
		l.buckets[key] = b
	}

	if elapsed := now.Sub(b.seen).Seconds(); elapsed > 0 {
		b.tokens = min(l.burst, b.tokens+l.rate*elapsed)
		b.seen = now
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// ToolLimiters maps tool names to their rate limiters.
type ToolLimiters map[string]*Limiter

// perMinute converts a per-minute allowance to tokens per second.
func perMinute(n float64) float64 { return n / 60 }

// NewToolLimiters creates the default per-tool limits. Recommendation tools
// are cheap and get generous limits; whole-catalog tools get tighter ones.
func NewToolLimiters() ToolLimiters {
	return ToolLimiters{
		"sensei_process":  NewLimiter(perMinute(120), 20),
		"sensei_next":     NewLimiter(perMinute(120), 20),
		"sensei_solved":   NewLimiter(perMinute(120), 20),
		"sensei_path":     NewLimiter(perMinute(60), 10),
		"sensei_chat":     NewLimiter(perMinute(60), 10),
		"sensei_validate": NewLimiter(perMinute(10), 3),
		"sensei_graph":    NewLimiter(perMinute(10), 3),
	}
}

// CheckLimit returns an error when toolName has exhausted its limit.
// Tools without a configured limiter are always allowed.
func CheckLimit(limiters ToolLimiters, toolName string) error {
	limiter, ok := limiters[toolName]
	if !ok {
		return nil
	}
	if !limiter.Allow(toolName) {
		return fmt.Errorf("rate limit exceeded for %s, please try again shortly", toolName)
	}
	return nil
}
