package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dharmasatrya/routesearch/internal/models"
)

// RedisCache shares cached routes between instances. SET with an expiry
// on every Put gives the same sliding TTL as MemoryCache.
type RedisCache struct {
	client redis.Cmdable
	closer func() error
	ttl    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Host:     "localhost",
		Port:     "6379",
		Password: "",
		DB:       0,
		TTL:      5 * time.Minute,
	}
}

func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisCache{
		client: client,
		closer: client.Close,
		ttl:    cfg.TTL,
	}, nil
}

// NewRedisCacheWithClient wraps an existing client, e.g. a cluster or ring
// client. The caller keeps ownership of its lifecycle.
func NewRedisCacheWithClient(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]models.Route, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var routes []models.Route
	if err := json.Unmarshal(data, &routes); err != nil {
		return nil, false
	}
	if routes == nil {
		routes = []models.Route{}
	}

	return routes, true
}

func (c *RedisCache) Put(ctx context.Context, key string, routes []models.Route) error {
	if routes == nil {
		routes = []models.Route{}
	}

	data, err := json.Marshal(routes)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}
