package ratelimit

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"
)

func fixedClock(l *Limiter, start time.Time) *time.Time {
	now := start
	l.nowFunc = func() time.Time { return now }
	return &now
}

func TestNewLimiter(t *testing.T) {
	l := NewLimiter(10.0, 5)
	if l.limit.Rate != 10.0 || l.limit.Burst != 5 {
		t.Errorf("limit = %+v, want {10 5}", l.limit)
	}
}

func TestPerMinute(t *testing.T) {
	lim := PerMinute(30, 4)
	if math.Abs(lim.Rate-0.5) > 1e-12 || lim.Burst != 4 {
		t.Errorf("PerMinute(30, 4) = %+v", lim)
	}
}

func TestAllow_Burst(t *testing.T) {
	l := NewLimiter(1.0, 3)
	fixedClock(l, time.Unix(1000, 0))

	for i := 0; i < 3; i++ {
		if !l.Allow("k") {
			t.Fatalf("request %d should be allowed within burst", i+1)
		}
	}
	if l.Allow("k") {
		t.Error("request after burst exhaustion should be rejected")
	}
}

func TestAllow_Refill(t *testing.T) {
	l := NewLimiter(2.0, 2)
	now := fixedClock(l, time.Unix(1000, 0))

	l.Allow("k")
	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("bucket should be empty")
	}

	*now = now.Add(250 * time.Millisecond)
	if l.Allow("k") {
		t.Error("half a token should not be enough")
	}

	*now = now.Add(250 * time.Millisecond)
	if !l.Allow("k") {
		t.Error("one token should have refilled after 500ms at 2/s")
	}

	*now = now.Add(time.Hour)
	if got := l.Tokens("k"); got != 2 {
		t.Errorf("Tokens() after long wait = %f, want burst 2", got)
	}
}

func TestAllow_IndependentKeys(t *testing.T) {
	l := NewLimiter(0, 1)
	if !l.Allow("a") || !l.Allow("b") {
		t.Fatal("each key should get its own full bucket")
	}
	if l.Allow("a") {
		t.Error("key a should be exhausted")
	}
}

func TestAllow_ZeroRateNeverRefills(t *testing.T) {
	l := NewLimiter(0, 1)
	now := fixedClock(l, time.Unix(1000, 0))
	l.Allow("k")
	*now = now.Add(24 * time.Hour)
	if l.Allow("k") {
		t.Error("zero rate must not refill")
	}
}

func TestAllow_Concurrent(t *testing.T) {
	l := NewLimiter(0, 50)
	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("k") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if allowed != 50 {
		t.Errorf("allowed = %d, want 50", allowed)
	}
}

func TestNewToolLimiters(t *testing.T) {
	limiters := NewToolLimiters()
	for name, lim := range DefaultToolLimits() {
		l, ok := limiters[name]
		if !ok {
			t.Errorf("missing limiter for %s", name)
			continue
		}
		if l.limit != lim {
			t.Errorf("%s limit = %+v, want %+v", name, l.limit, lim)
		}
	}
}

func TestCheckLimit(t *testing.T) {
	limiters := NewToolLimiters()

	if err := CheckLimit(limiters, "unknown_tool"); err != nil {
		t.Errorf("unknown tool should not be limited: %v", err)
	}

	burst := DefaultToolLimits()["hopfield_train"].Burst
	for i := 0; i < burst; i++ {
		if err := CheckLimit(limiters, "hopfield_train"); err != nil {
			t.Fatalf("call %d: unexpected error %v", i+1, err)
		}
	}
	err := CheckLimit(limiters, "hopfield_train")
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("CheckLimit() error = %v, want ErrRateLimited", err)
	}
}
