// Package ratelimit throttles MCP tool calls with one token bucket per tool.
package ratelimit

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrRateLimited is wrapped by CheckLimit when a tool's bucket is empty.
var ErrRateLimited = errors.New("rate limit exceeded")

// Limit describes a bucket: Rate tokens per second, at most Burst stored.
type Limit struct {
	Rate  float64
	Burst int
}

// PerMinute builds a Limit from a calls-per-minute figure.
func PerMinute(n float64, burst int) Limit {
	return Limit{Rate: n / 60.0, Burst: burst}
}

// Limiter keeps one token bucket per key. Buckets start full.
// It is safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	limit   Limit
	buckets map[string]*bucket
	nowFunc func() time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewLimiter creates a limiter refilling at rate tokens/sec up to burst.
func NewLimiter(rate float64, burst int) *Limiter {
	return &Limiter{
		limit:   Limit{Rate: rate, Burst: burst},
		buckets: make(map[string]*bucket),
		nowFunc: time.Now,
	}
}

// Allow takes one token from key's bucket, reporting false when none is left.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.refill(key)
	if b.tokens < 1.0 {
		return false
	}
	b.tokens--
	return true
}

// Tokens reports the tokens currently available for key.
func (l *Limiter) Tokens(key string) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.refill(key).tokens
}

// refill must be called with l.mu held.
func (l *Limiter) refill(key string) *bucket {
	now := l.nowFunc()
	max := float64(l.limit.Burst)

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: max, last: now}
		l.buckets[key] = b
		return b
	}

	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens += l.limit.Rate * elapsed
		if b.tokens > max {
			b.tokens = max
		}
		b.last = now
	}
	return b
}

// ToolLimiters maps tool names to their limiters.
type ToolLimiters map[string]*Limiter

// DefaultToolLimits lists the per-tool budgets of the MCP server. Training
// mutates shared weights and is the tightest.
func DefaultToolLimits() map[string]Limit {
	return map[string]Limit{
		"hopfield_generate": PerMinute(60, 10),
		"hopfield_noise":    PerMinute(60, 10),
		"hopfield_train":    PerMinute(10, 3),
		"hopfield_recall":   PerMinute(30, 5),
		"hopfield_centroid": PerMinute(60, 10),
		"hopfield_runs":     PerMinute(30, 5),
	}
}

// NewToolLimiters builds a limiter for every entry of DefaultToolLimits.
func NewToolLimiters() ToolLimiters {
	limiters := make(ToolLimiters)
	for name, lim := range DefaultToolLimits() {
		limiters[name] = NewLimiter(lim.Rate, lim.Burst)
	}
	return limiters
}

// CheckLimit spends a token for toolName. Unknown tools are never limited.
func CheckLimit(limiters ToolLimiters, toolName string) error {
	limiter, ok := limiters[toolName]
	if !ok {
		return nil
	}
	if !limiter.Allow(toolName) {
		return fmt.Errorf("%w for %s, please try again shortly", ErrRateLimited, toolName)
	}
	return nil
}
