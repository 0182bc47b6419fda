package providers

import (
	"context"

	"github.com/dharmasatrya/routesearch/internal/models"
	"github.com/dharmasatrya/routesearch/internal/ratelimit"
)

// RateLimited holds each Search until the provider's token bucket allows
// it. Probes pass through unthrottled.
type RateLimited struct {
	Provider
	limiter *ratelimit.ProviderLimiter
}

func NewRateLimited(p Provider, limiter *ratelimit.ProviderLimiter) *RateLimited {
	return &RateLimited{Provider: p, limiter: limiter}
}

func (r *RateLimited) Search(ctx context.Context, req models.SearchRequest) ([]models.Route, error) {
	if err := r.limiter.Wait(ctx, r.Name()); err != nil {
		return nil, NewProviderError(r.Name(), err)
	}
	return r.Provider.Search(ctx, req)
}
