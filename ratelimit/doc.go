// Package ratelimit provides a token bucket rate limiter used to pace
// requests against rate-limited upstream APIs.
//
// The fetch layer blocks on Wait before every outgoing request:
//
//	rl := ratelimit.New(ratelimit.Config{Name: "espn", Rate: 5, Burst: 10})
//	if err := rl.Wait(ctx); err != nil {
//	    return err // context cancelled while waiting
//	}
//	resp, err := httpClient.Do(req)
package ratelimit
