// Package resilience provides patterns for building fault-tolerant clients.
//
// This package includes:
//   - CircuitBreaker: Fails fast while an upstream dependency is unhealthy,
//     based on a rolling failure ratio over a sampling window
//   - Retry: Retries failed operations with exponential backoff and jitter
//
// The two compose as independent decorators over a single attempt, with the
// breaker outermost so it observes the aggregate outcome of a retried call:
//
//	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("espn"))
//
//	err := cb.Execute(func() error {
//	    return resilience.RetryFunc(ctx, retryCfg, func() error {
//	        return doRequest()
//	    })
//	})
package resilience
