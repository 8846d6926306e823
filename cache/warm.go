package cache

import (
	"context"
	"time"

	"github.com/kbukum/sportkit/logger"
)

// WarmEntry describes a single cache entry to pre-populate: a generated
// key and a factory that produces its value.
type WarmEntry struct {
	Key     string
	TTL     time.Duration // zero means resolve from the key
	Factory func(context.Context) (any, error)
}

// Warm pre-populates the cache with the given entries. Entries whose key
// is already present are skipped; factory failures are logged and counted
// but do not stop the pass. Warm is a no-op unless warming is enabled in
// the configuration.
func (c *Cache) Warm(ctx context.Context, entries []WarmEntry) (int, error) {
	if !c.config.EnableWarming {
		return 0, nil
	}

	warmed := 0
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return warmed, err
		}
		if c.Exists(e.Key) {
			continue
		}

		value, err := e.Factory(ctx)
		if err != nil {
			c.log.Warn("cache warm entry failed", logger.Fields(
				logger.FieldCacheKey, e.Key,
				logger.FieldError, err.Error(),
			))
			continue
		}

		if e.TTL > 0 {
			Set(c, e.Key, value, e.TTL)
		} else {
			Set(c, e.Key, value)
		}
		warmed++
	}

	c.log.Info("cache warmed", logger.Fields(logger.FieldItems, warmed))
	return warmed, nil
}
