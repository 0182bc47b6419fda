package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/dharmasatrya/routesearch/internal/models"
)

// RouteCache stores filtered search results per query signature. Every
// write resets the entry's expiry.
type RouteCache interface {
	Get(ctx context.Context, key string) ([]models.Route, bool)
	Put(ctx context.Context, key string, routes []models.Route) error
	Close() error
}

// Key derives the cache key for req. The origin timestamp is truncated to
// its calendar date, so same-day queries share one entry.
func Key(req models.SearchRequest) string {
	keyData := struct {
		Origin      string
		Destination string
		Date        string
	}{
		Origin:      req.Origin,
		Destination: req.Destination,
		Date:        req.OriginDateTime.Format("2006-01-02"),
	}

	data, _ := json.Marshal(keyData)
	hash := sha256.Sum256(data)
	return "routes:" + hex.EncodeToString(hash[:])
}

type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, key string) ([]models.Route, bool) {
	return nil, false
}

func (c *NoOpCache) Put(ctx context.Context, key string, routes []models.Route) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}
