package cache

import (
	"context"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/dharmasatrya/routesearch/internal/models"
)

const defaultShardCount = 32

type memoryEntry struct {
	routes    []models.Route
	expiresAt time.Time
}

type memoryShard struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// MemoryCache is an in-process RouteCache. Keys are spread over shards,
// each with its own lock, so searches on different keys rarely contend.
type MemoryCache struct {
	shards []*memoryShard
	ttl    time.Duration
	now    func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

type MemoryOption func(*MemoryCache)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *MemoryCache) {
		c.now = now
	}
}

func WithShards(n int) MemoryOption {
	return func(c *MemoryCache) {
		if n > 0 {
			c.shards = newShards(n)
		}
	}
}

func NewMemoryCache(ttl time.Duration, opts ...MemoryOption) *MemoryCache {
	c := &MemoryCache{
		shards: newShards(defaultShardCount),
		ttl:    ttl,
		now:    time.Now,
		stop:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newShards(n int) []*memoryShard {
	shards := make([]*memoryShard, n)
	for i := range shards {
		shards[i] = &memoryShard{entries: make(map[string]memoryEntry)}
	}
	return shards
}

func (c *MemoryCache) shard(key string) *memoryShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return c.shards[h.Sum32()%uint32(len(c.shards))]
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]models.Route, bool) {
	s := c.shard(key)

	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || !c.now().Before(entry.expiresAt) {
		return nil, false
	}
	return models.CloneRoutes(entry.routes), true
}

func (c *MemoryCache) Put(ctx context.Context, key string, routes []models.Route) error {
	stored := models.CloneRoutes(routes)
	if stored == nil {
		stored = []models.Route{}
	}

	s := c.shard(key)
	s.mu.Lock()
	s.entries[key] = memoryEntry{routes: stored, expiresAt: c.now().Add(c.ttl)}
	s.mu.Unlock()
	return nil
}

// Len counts entries that have not expired yet.
func (c *MemoryCache) Len() int {
	now := c.now()
	n := 0
	for _, s := range c.shards {
		s.mu.RLock()
		for _, e := range s.entries {
			if now.Before(e.expiresAt) {
				n++
			}
		}
		s.mu.RUnlock()
	}
	return n
}

// Sweep drops expired entries and returns how many were removed. Reads
// never return expired entries, so sweeping only reclaims memory.
func (c *MemoryCache) Sweep() int {
	now := c.now()
	removed := 0
	for _, s := range c.shards {
		s.mu.Lock()
		for k, e := range s.entries {
			if !now.Before(e.expiresAt) {
				delete(s.entries, k)
				removed++
			}
		}
		s.mu.Unlock()
	}
	return removed
}

// StartJanitor sweeps every interval until ctx is done or Close is called.
func (c *MemoryCache) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-c.stop:
				return
			case <-ticker.C:
				if n := c.Sweep(); n > 0 {
					slog.Debug("route cache sweep", "removed", n)
				}
			}
		}
	}()
}

func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	return nil
}
