// Package fetch provides a resilient HTTP fetcher for rate-limited,
// occasionally-flaky upstream APIs. Every fetch passes through a token
// bucket rate limiter, a rolling-window circuit breaker, and a retry layer
// with exponential backoff, composed in that order so the breaker observes
// the aggregate outcome of a retried call.
//
// # Basic Usage
//
//	client, err := fetch.New(fetch.Config{
//	    BaseURL: "https://site.api.espn.com/apis/site/v2/sports/football/nfl",
//	})
//
//	raw, err := client.FetchRaw(ctx, "/teams")
//
// # Typed Fetches
//
//	teams, err := fetch.FetchAs[TeamsResponse](ctx, client, "/teams")
//
//	// Absolute URLs handed back by prior responses:
//	athlete, err := fetch.FetchByReference[Athlete](ctx, client, team.AthletesRef)
//
// Transient failures (retryable status codes, connection errors, timeouts
// when configured) are retried transparently; hard failures and decode
// errors surface immediately. While the breaker is open, calls fail with an
// ErrCodeCircuitOpen error without touching the network.
package fetch
