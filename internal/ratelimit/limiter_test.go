package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestLimiterIsCreatedOncePerProvider(t *testing.T) {
	p := NewProviderLimiter(DefaultLimit())
	if p.Limiter("one") != p.Limiter("one") {
		t.Fatal("expected the same limiter for the same provider")
	}
	if p.Limiter("one") == p.Limiter("two") {
		t.Fatal("providers must not share a bucket")
	}
}

func TestSetLimitOverridesDefaults(t *testing.T) {
	p := NewProviderLimiter(DefaultLimit())
	p.SetLimit("one", Limit{RequestsPerSecond: 2, Burst: 3})

	l := p.Limiter("one")
	if l.Limit() != 2 || l.Burst() != 3 {
		t.Fatalf("limit = %v burst = %d, want 2/3", l.Limit(), l.Burst())
	}
}

func TestWaitHonoursContext(t *testing.T) {
	p := NewProviderLimiter(Limit{RequestsPerSecond: 0.001, Burst: 1})
	ctx := context.Background()

	if err := p.Wait(ctx, "one"); err != nil {
		t.Fatalf("first token should be free: %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := p.Wait(ctx, "one"); err == nil {
		t.Fatal("expected the second wait to fail")
	}
}

func TestNonPositiveRateIsUnlimited(t *testing.T) {
	p := NewProviderLimiter(Limit{})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for i := 0; i < 100; i++ {
		if err := p.Wait(ctx, "one"); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
}
