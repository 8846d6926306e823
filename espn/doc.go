// Package espn is a typed client for the public ESPN site API, composed
// from the fetch and cache packages: every operation builds a deterministic
// cache key, serves repeat calls from the memoizing cache for the
// operation's TTL category, and goes through the rate-limited, retrying,
// circuit-broken fetcher on a miss.
//
//	fetcher, _ := fetch.New(fetch.Config{BaseURL: espn.DefaultBaseURL})
//	store, _ := cache.New(cache.DefaultConfig())
//	client := espn.New(fetcher, store)
//
//	teams, err := client.Teams(ctx)
//
// Response models stay close to the wire format; deep box-score parsing is
// left to callers via the raw summary payload.
package espn
