// Package cache provides an in-memory memoizing cache for fetched sports
// data, with operation-specific TTLs, deterministic key generation, and
// pattern-based bulk invalidation.
//
// Values are stored in a size-bounded ristretto cache; each entry's cost is
// its approximate serialized footprint, so eviction works by aggregate size
// rather than entry count.
//
// # Usage
//
//	c, err := cache.New(cache.DefaultConfig())
//
//	key := c.GenerateKey("GetTeams")           // "ESPN:GetTeams"
//	teams, err := cache.GetOrSet(ctx, c, key, func(ctx context.Context) ([]Team, error) {
//	    return fetchTeams(ctx)
//	})
//
// The TTL for a key defaults by the operation category embedded in it
// (season schedules live for hours, live data for seconds); pass an explicit
// TTL to override.
//
// GetOrSet does not deduplicate concurrent misses on the same key: two
// cold callers both invoke the factory and the last write wins. This is a
// deliberate trade against per-key locking, so a cache stampede is possible
// under concurrent cold access.
package cache
