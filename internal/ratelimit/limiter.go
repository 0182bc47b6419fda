package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limit is a token bucket setting. A non-positive RequestsPerSecond
// disables limiting.
type Limit struct {
	RequestsPerSecond float64 `yaml:"rps"`
	Burst             int     `yaml:"burst"`
}

func DefaultLimit() Limit {
	return Limit{
		RequestsPerSecond: 10,
		Burst:             20,
	}
}

// ProviderLimiter hands out one token bucket per provider name, creating
// buckets lazily from the default limit.
type ProviderLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	defaults Limit
}

func NewProviderLimiter(defaults Limit) *ProviderLimiter {
	return &ProviderLimiter{
		limiters: make(map[string]*rate.Limiter),
		defaults: defaults,
	}
}

func (p *ProviderLimiter) Limiter(provider string) *rate.Limiter {
	p.mu.RLock()
	limiter, exists := p.limiters[provider]
	p.mu.RUnlock()

	if exists {
		return limiter
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if limiter, exists = p.limiters[provider]; exists {
		return limiter
	}

	limiter = newLimiter(p.defaults)
	p.limiters[provider] = limiter
	return limiter
}

func (p *ProviderLimiter) SetLimit(provider string, l Limit) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.limiters[provider] = newLimiter(l)
}

// Wait blocks until provider may issue one request or ctx is done.
func (p *ProviderLimiter) Wait(ctx context.Context, provider string) error {
	return p.Limiter(provider).Wait(ctx)
}

func newLimiter(l Limit) *rate.Limiter {
	if l.RequestsPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := l.Burst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(l.RequestsPerSecond), burst)
}
