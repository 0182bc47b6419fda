package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"

	"github.com/dharmasatrya/routesearch/internal/aggregator"
	"github.com/dharmasatrya/routesearch/internal/cache"
	"github.com/dharmasatrya/routesearch/internal/config"
	"github.com/dharmasatrya/routesearch/internal/handler"
	"github.com/dharmasatrya/routesearch/internal/metrics"
	"github.com/dharmasatrya/routesearch/internal/providers"
	"github.com/dharmasatrya/routesearch/internal/ratelimit"
	"github.com/dharmasatrya/routesearch/internal/timezone"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	decimal.MarshalJSONWithoutQuotes = true

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	loc := timezone.LoadLocation(cfg.DefaultTimezone)

	providerList := initializeProviders(cfg, loc)
	slog.Info("Initialized route providers", "count", len(providerList))

	routeCache, err := initializeCache(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize cache: %v", err)
	}
	defer routeCache.Close()

	metrics.RegisterDefault()

	agg := aggregator.NewAggregator(providerList, routeCache, aggregator.Config{Logger: logger})

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(handler.Metrics())

	routesHandler := handler.NewRoutesHandler(agg, loc)

	e.POST("/routes", routesHandler.Search)
	e.GET("/routes/ping", routesHandler.Ping)
	e.GET("/health", handler.HealthHandler)
	e.GET("/metrics", handler.MetricsHandler())

	go func() {
		slog.Info("Starting route search server", "port", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("Error shutting down server", "error", err)
	}
}

func initializeProviders(cfg config.Config, loc *time.Location) []providers.Provider {
	httpClient := &http.Client{Timeout: cfg.ProviderTimeout}

	one := providers.NewProviderOne(providers.Config{
		BaseURL:    cfg.ProviderOne.URL,
		HTTPClient: httpClient,
		Timeout:    cfg.ProviderTimeout,
		Location:   loc,
	})
	two := providers.NewProviderTwo(providers.Config{
		BaseURL:    cfg.ProviderTwo.URL,
		HTTPClient: httpClient,
		Timeout:    cfg.ProviderTimeout,
		Location:   loc,
	})

	limiter := ratelimit.NewProviderLimiter(ratelimit.DefaultLimit())
	limiter.SetLimit(one.Name(), cfg.ProviderOne.RateLimit)
	limiter.SetLimit(two.Name(), cfg.ProviderTwo.RateLimit)

	return []providers.Provider{
		providers.NewRateLimited(one, limiter),
		providers.NewRateLimited(two, limiter),
	}
}

func initializeCache(ctx context.Context, cfg config.Config) (cache.RouteCache, error) {
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Cache.TTL,
		})
		if err != nil {
			return nil, err
		}
		slog.Info("Redis cache enabled", "host", cfg.Redis.Host, "port", cfg.Redis.Port, "ttl", cfg.Cache.TTL)
		return redisCache, nil
	case config.CacheMemory:
		memoryCache := cache.NewMemoryCache(cfg.Cache.TTL)
		if cfg.Cache.SweepInterval > 0 {
			memoryCache.StartJanitor(ctx, cfg.Cache.SweepInterval)
		}
		slog.Info("Memory cache enabled", "ttl", cfg.Cache.TTL, "sweepInterval", cfg.Cache.SweepInterval)
		return memoryCache, nil
	default:
		slog.Info("Cache disabled")
		return cache.NewNoOpCache(), nil
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
