package aggregator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dharmasatrya/routesearch/internal/cache"
	"github.com/dharmasatrya/routesearch/internal/filter"
	"github.com/dharmasatrya/routesearch/internal/metrics"
	"github.com/dharmasatrya/routesearch/internal/models"
	"github.com/dharmasatrya/routesearch/internal/providers"
	"github.com/dharmasatrya/routesearch/internal/stats"
)

// ErrServiceUnavailable is returned when no provider is reachable and the
// request may not be answered from cache.
var ErrServiceUnavailable = errors.New("both providers are unavailable")

type Config struct {
	Logger *slog.Logger
}

// Aggregator fans a search out to every available provider and merges the
// answers. The route cache is its only state.
type Aggregator struct {
	providers []providers.Provider
	cache     cache.RouteCache
	logger    *slog.Logger
}

func NewAggregator(providerList []providers.Provider, routeCache cache.RouteCache, config Config) *Aggregator {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if routeCache == nil {
		routeCache = cache.NewNoOpCache()
	}
	return &Aggregator{
		providers: providerList,
		cache:     routeCache,
		logger:    logger,
	}
}

// IsAvailable reports the health of the aggregator itself, which does not
// depend on the providers.
func (a *Aggregator) IsAvailable(ctx context.Context) bool {
	return true
}

func (a *Aggregator) Search(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error) {
	startTime := time.Now()

	availability := a.probe(ctx)
	availableCount := 0
	for _, ok := range availability {
		if ok {
			availableCount++
		}
	}

	onlyCached := req.OnlyCached()
	if availableCount == 0 && !onlyCached {
		metrics.Searches.WithLabelValues("unavailable").Inc()
		a.logger.WarnContext(ctx, "no provider available",
			"origin", req.Origin,
			"destination", req.Destination,
		)
		return nil, ErrServiceUnavailable
	}

	key := cache.Key(req)

	if onlyCached {
		routes, hit := a.cache.Get(ctx, key)
		if hit {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
		} else {
			metrics.CacheLookups.WithLabelValues("miss").Inc()
		}

		filtered := filter.Apply(routes, req.Filters)
		metrics.Searches.WithLabelValues("cache_only").Inc()
		a.logger.InfoContext(ctx, "served search from cache",
			"origin", req.Origin,
			"destination", req.Destination,
			"cache_hit", hit,
			"routes", len(filtered),
		)
		return stats.BuildResponse(filtered), nil
	}

	batches, err := a.dispatch(ctx, req, availability)
	if err != nil {
		metrics.Searches.WithLabelValues("upstream_error").Inc()
		a.logger.ErrorContext(ctx, "provider search failed", "error", err)
		return nil, err
	}

	merged := filter.Merge(batches...)
	filtered := filter.Apply(merged, req.Filters)

	if err := a.cache.Put(ctx, key, filtered); err != nil {
		a.logger.WarnContext(ctx, "route cache write failed", "error", err)
	}

	metrics.Searches.WithLabelValues("ok").Inc()
	a.logger.InfoContext(ctx, "route search completed",
		"origin", req.Origin,
		"destination", req.Destination,
		"providers_available", availableCount,
		"routes_merged", len(merged),
		"routes", len(filtered),
		"duration_ms", time.Since(startTime).Milliseconds(),
	)

	return stats.BuildResponse(filtered), nil
}

// probe asks every provider whether it is up and waits for all answers.
func (a *Aggregator) probe(ctx context.Context) []bool {
	availability := make([]bool, len(a.providers))

	var wg sync.WaitGroup
	for i, p := range a.providers {
		wg.Add(1)
		go func(i int, provider providers.Provider) {
			defer wg.Done()

			ok := provider.IsAvailable(ctx)
			availability[i] = ok

			result := "unavailable"
			if ok {
				result = "available"
			}
			metrics.ProviderProbes.WithLabelValues(provider.Name(), result).Inc()
		}(i, p)
	}
	wg.Wait()

	return availability
}

// dispatch searches the available providers concurrently and returns one
// batch per provider, in provider order. Unavailable providers yield an
// empty batch. Any failure fails the whole search once every call has
// returned.
func (a *Aggregator) dispatch(ctx context.Context, req models.SearchRequest, availability []bool) ([][]models.Route, error) {
	type providerResult struct {
		routes []models.Route
		err    error
	}

	results := make([]providerResult, len(a.providers))

	var wg sync.WaitGroup
	for i, p := range a.providers {
		if !availability[i] {
			continue
		}

		wg.Add(1)
		go func(i int, provider providers.Provider) {
			defer wg.Done()

			start := time.Now()
			routes, err := provider.Search(ctx, req)
			metrics.ProviderLatency.WithLabelValues(provider.Name()).Observe(time.Since(start).Seconds())

			if err != nil {
				metrics.ProviderSearches.WithLabelValues(provider.Name(), "error").Inc()
				var perr *providers.ProviderError
				if !errors.As(err, &perr) {
					err = providers.NewProviderError(provider.Name(), err)
				}
			} else {
				metrics.ProviderSearches.WithLabelValues(provider.Name(), "ok").Inc()
			}

			results[i] = providerResult{routes: routes, err: err}
		}(i, p)
	}
	wg.Wait()

	batches := make([][]models.Route, len(results))
	var errs []error
	for i, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		batches[i] = r.routes
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return batches, nil
}
