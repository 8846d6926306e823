package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Config configures a token bucket limiter.
type Config struct {
	// Name identifies the limiter in OnLimit callbacks and logs.
	Name string
	// Rate is the sustained request rate in requests per second.
	Rate float64
	// Burst is the bucket capacity: how many requests may be admitted
	// back to back after an idle period.
	Burst int
	// OnLimit is invoked with the limiter name whenever a caller is
	// throttled, whether rejected by Allow or put to sleep by Wait.
	// Invoked outside the limiter's lock.
	OnLimit func(name string)
}

// DefaultConfig returns a polite default for shared public APIs.
func DefaultConfig(name string) Config {
	return Config{
		Name:  name,
		Rate:  5.0,
		Burst: 10,
	}
}

// Limiter is a token bucket. The bucket holds up to Burst tokens and
// refills continuously at Rate tokens per second; each admitted request
// consumes one. Wait reserves its tokens up front, so concurrent waiters
// line up on their computed wake times instead of racing the refill.
type Limiter struct {
	name    string
	rate    float64
	burst   float64
	onLimit func(name string)

	mu     sync.Mutex
	tokens float64
	last   time.Time
}

// New creates a limiter from cfg, substituting defaults for zero values.
func New(cfg Config) *Limiter {
	if cfg.Rate <= 0 {
		cfg.Rate = 5.0
	}
	if cfg.Burst <= 0 {
		cfg.Burst = int(cfg.Rate)
	}

	return &Limiter{
		name:    cfg.Name,
		rate:    cfg.Rate,
		burst:   float64(cfg.Burst),
		onLimit: cfg.OnLimit,
		tokens:  float64(cfg.Burst),
		last:    time.Now(),
	}
}

// Allow reports whether one request may proceed right now.
func (l *Limiter) Allow() bool {
	return l.AllowN(1)
}

// AllowN reports whether n requests may proceed right now. A refusal
// consumes no tokens.
func (l *Limiter) AllowN(n int) bool {
	need := float64(n)

	l.mu.Lock()
	l.advance(time.Now())
	ok := l.tokens >= need
	if ok {
		l.tokens -= need
	}
	l.mu.Unlock()

	if !ok {
		l.limited()
	}
	return ok
}

// Wait blocks until one request may proceed or ctx is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.WaitN(ctx, 1)
}

// WaitN blocks until n requests may proceed or ctx is cancelled. Tokens
// are reserved up front, which may drive the bucket negative; a cancelled
// wait returns its reservation so later callers are not over-throttled.
func (l *Limiter) WaitN(ctx context.Context, n int) error {
	need := float64(n)

	l.mu.Lock()
	l.advance(time.Now())
	short := need - l.tokens
	l.tokens -= need
	l.mu.Unlock()

	if short <= 0 {
		return nil
	}
	l.limited()

	timer := time.NewTimer(time.Duration(short / l.rate * float64(time.Second)))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		l.refund(need)
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Tokens returns the tokens currently available. A negative value means
// waiters hold reservations against future refill.
func (l *Limiter) Tokens() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.advance(time.Now())
	return l.tokens
}

// Rate returns the sustained rate in requests per second.
func (l *Limiter) Rate() float64 {
	return l.rate
}

// Burst returns the bucket capacity.
func (l *Limiter) Burst() int {
	return int(l.burst)
}

// advance credits refill for the time elapsed since the last update.
// Callers hold l.mu.
func (l *Limiter) advance(now time.Time) {
	l.tokens += now.Sub(l.last).Seconds() * l.rate
	if l.tokens > l.burst {
		l.tokens = l.burst
	}
	l.last = now
}

// refund returns a cancelled reservation to the bucket.
func (l *Limiter) refund(n float64) {
	l.mu.Lock()
	l.advance(time.Now())
	l.tokens += n
	if l.tokens > l.burst {
		l.tokens = l.burst
	}
	l.mu.Unlock()
}

func (l *Limiter) limited() {
	if l.onLimit != nil {
		l.onLimit(l.name)
	}
}
