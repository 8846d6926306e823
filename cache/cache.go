package cache

import (
	"context"
	"encoding/json"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/kbukum/sportkit/logger"
)

// entry is a stored value with its absolute expiry and approximate size.
type entry struct {
	value   any
	expires time.Time
	size    int64
}

// Stats is a point-in-time snapshot of cache effectiveness counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Entries   int
}

// Cache is a size-bounded, concurrency-safe memoizing cache. Stored keys
// are tracked separately from the ristretto store so RemoveByPattern can
// enumerate them.
type Cache struct {
	config Config
	store  *ristretto.Cache[string, *entry]
	keys   sync.Map // key -> struct{}

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64

	log  *logger.Logger
	stop chan struct{}
	once sync.Once
}

// New creates a cache with the given configuration.
func New(cfg Config) (*Cache, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Cache{
		config: cfg,
		log:    logger.WithComponent("cache"),
		stop:   make(chan struct{}),
	}

	store, err := ristretto.NewCache(&ristretto.Config[string, *entry]{
		NumCounters: cfg.MaxSize / 100 * 10, // ~10x expected items
		MaxCost:     cfg.MaxSize,
		BufferItems: 64,
		OnEvict: func(item *ristretto.Item[*entry]) {
			c.evictions.Add(1)
		},
	})
	if err != nil {
		return nil, err
	}
	c.store = store

	go c.janitor()

	return c, nil
}

// Get returns the value for key if present, unexpired, and of type T.
// A stored value of a different type is treated as a miss and purged.
func Get[T any](c *Cache, key string) (T, bool) {
	var zero T

	e, ok := c.lookup(key)
	if !ok {
		c.misses.Add(1)
		return zero, false
	}

	value, ok := e.value.(T)
	if !ok {
		// Stale entry written by a reader of a different type.
		c.Remove(key)
		c.misses.Add(1)
		return zero, false
	}

	c.hits.Add(1)
	return value, true
}

// Set stores value under key. An explicit TTL overrides the default
// resolved from the operation name embedded in the key.
func Set[T any](c *Cache, key string, value T, ttl ...time.Duration) {
	expiry := c.resolveTTL(key, ttl...)

	size := approximateSize(value)
	e := &entry{
		value:   value,
		expires: time.Now().Add(expiry),
		size:    size,
	}

	c.store.SetWithTTL(key, e, size, expiry)
	c.keys.Store(key, struct{}{})

	// Ristretto applies writes asynchronously; flush so a Set is visible
	// to an immediate Get.
	c.store.Wait()
}

// GetOrSet returns the cached value for key, or invokes factory on a miss,
// stores its result, and returns it.
//
// Concurrent misses on the same key are NOT deduplicated: both callers
// invoke factory and the last write wins.
func GetOrSet[T any](ctx context.Context, c *Cache, key string, factory func(context.Context) (T, error), ttl ...time.Duration) (T, error) {
	if value, ok := Get[T](c, key); ok {
		return value, nil
	}

	value, err := factory(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	Set(c, key, value, ttl...)
	return value, nil
}

// Exists reports whether key is present and unexpired, regardless of type.
func (c *Cache) Exists(key string) bool {
	_, ok := c.lookup(key)
	return ok
}

// Remove deletes key from the cache.
func (c *Cache) Remove(key string) {
	c.store.Del(key)
	c.keys.Delete(key)
}

// RemoveByPattern removes every tracked key matching the regular
// expression and returns the number removed.
func (c *Cache) RemoveByPattern(pattern string) (int, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return 0, err
	}

	removed := 0
	c.keys.Range(func(k, _ any) bool {
		key := k.(string)
		if re.MatchString(key) {
			c.Remove(key)
			removed++
		}
		return true
	})

	if removed > 0 {
		c.log.Debug("removed keys by pattern", logger.Fields(
			"pattern", pattern,
			logger.FieldItems, removed,
		))
	}
	return removed, nil
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.store.Clear()
	c.keys.Range(func(k, _ any) bool {
		c.keys.Delete(k)
		return true
	})
}

// Len returns the number of tracked keys still present in the store.
func (c *Cache) Len() int {
	n := 0
	c.keys.Range(func(k, _ any) bool {
		if _, ok := c.lookup(k.(string)); ok {
			n++
		}
		return true
	})
	return n
}

// Stats returns a snapshot of cache counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Entries:   c.Len(),
	}
}

// Close releases the cache's resources.
func (c *Cache) Close() {
	c.once.Do(func() {
		close(c.stop)
		c.store.Close()
	})
}

// lookup fetches an entry and purges it when expired. It does not touch
// the hit/miss counters; typed reads do that.
func (c *Cache) lookup(key string) (*entry, bool) {
	e, found := c.store.Get(key)
	if !found {
		c.keys.Delete(key)
		return nil, false
	}
	if time.Now().After(e.expires) {
		c.Remove(key)
		return nil, false
	}
	return e, true
}

// resolveTTL picks the explicit TTL when supplied, otherwise the category
// default for the operation embedded in the key.
func (c *Cache) resolveTTL(key string, ttl ...time.Duration) time.Duration {
	if len(ttl) > 0 && ttl[0] > 0 {
		return ttl[0]
	}
	return c.ResolveTTL(key)
}

// janitor periodically drops tracker entries whose values were evicted or
// expired, so the key tracker cannot grow without bound.
func (c *Cache) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.keys.Range(func(k, _ any) bool {
				if _, ok := c.lookup(k.(string)); !ok {
					c.keys.Delete(k)
				}
				return true
			})
		}
	}
}

// approximateSize estimates a value's footprint by serialized length, so
// the store can evict by aggregate size.
func approximateSize(value any) int64 {
	data, err := json.Marshal(value)
	if err != nil || len(data) == 0 {
		return 1
	}
	return int64(len(data))
}
