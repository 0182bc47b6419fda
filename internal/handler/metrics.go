package handler

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dharmasatrya/routesearch/internal/metrics"
)

// Metrics records request counts and latency per route template.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method

			metrics.HTTPRequests.WithLabelValues(method, path, status).Inc()
			metrics.HTTPDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

// MetricsHandler exposes metrics.Registry in the Prometheus text format.
func MetricsHandler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
}
