package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/sportkit/logger"
	"github.com/kbukum/sportkit/observability"
	"github.com/kbukum/sportkit/ratelimit"
	"github.com/kbukum/sportkit/resilience"
)

// Client is a resilient HTTP fetcher. All fetches pass through the rate
// limiter, then the circuit breaker, then the retry layer, so the breaker
// sees the aggregate outcome of each retried call.
type Client struct {
	httpClient *http.Client
	config     Config

	rl    *ratelimit.Limiter
	cb    *resilience.CircuitBreaker
	retry resilience.RetryConfig

	retryable  map[int]struct{}
	breakerSet map[int]struct{}

	log     *logger.Logger
	metrics *observability.Metrics
}

// Option customizes a Client beyond its Config.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLimiter injects a shared rate limiter instance.
func WithLimiter(rl *ratelimit.Limiter) Option {
	return func(c *Client) { c.rl = rl }
}

// WithCircuitBreaker injects a shared circuit breaker instance.
func WithCircuitBreaker(cb *resilience.CircuitBreaker) Option {
	return func(c *Client) { c.cb = cb }
}

// WithLogger sets the logger used for request/retry/breaker events.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithMetrics enables metric recording for fetches.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a new resilient fetcher with the given configuration.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
		retryable:  statusSet(cfg.RetryableStatusCodes),
		breakerSet: statusSet(cfg.BreakerFailureStatusCodes),
		log:        logger.WithComponent("fetch"),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.rl == nil {
		c.rl = ratelimit.New(ratelimit.Config{
			Name:  "fetch",
			Rate:  cfg.RateLimit,
			Burst: cfg.RateBurst,
			OnLimit: func(name string) {
				c.log.Debug("rate limit reached, pacing request", logger.Fields(
					"limiter", name,
				))
			},
		})
	}

	if c.cb == nil {
		c.cb = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Name:              "fetch",
			SamplingWindow:    cfg.SamplingWindow,
			MinimumThroughput: cfg.MinimumThroughput,
			OpenDuration:      cfg.OpenDuration,
			CountAsFailure:    c.countsTowardBreaker,
			OnStateChange: func(name string, from, to resilience.State) {
				c.log.Warn("circuit state changed", logger.Fields(
					logger.FieldState, to.String(),
					"from", from.String(),
				))
			},
		})
	}

	c.retry = resilience.RetryConfig{
		MaxAttempts:    cfg.MaxAttempts,
		InitialBackoff: cfg.InitialBackoff,
		MaxBackoff:     cfg.MaxBackoff,
		Jitter:         cfg.Jitter,
		JitterFactor:   cfg.JitterFactor,
		RetryOnTimeout: cfg.RetryOnTimeout,
		RetryIf:        c.shouldRetry,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			c.log.Warn("retrying fetch", logger.Fields(
				logger.FieldAttempt, attempt,
				"backoff", backoff.String(),
				logger.FieldError, err.Error(),
			))
		},
	}

	return c, nil
}

// FetchRaw fetches the endpoint and returns the raw response body as text.
func (c *Client) FetchRaw(ctx context.Context, endpoint string) (string, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return "", err
	}

	start := time.Now()
	c.metrics.RecordFetchStart(ctx)

	var body []byte
	err := c.cb.Execute(func() error {
		b, retryErr := resilience.Retry(ctx, c.retry, func() ([]byte, error) {
			return c.doRequest(ctx, endpoint)
		})
		if retryErr != nil {
			return retryErr
		}
		body = b
		return nil
	})

	elapsed := time.Since(start)

	if errors.Is(err, resilience.ErrCircuitOpen) {
		c.metrics.RecordFetch(ctx, endpoint, "circuit_open", elapsed)
		c.log.Warn("fetch rejected, circuit open", logger.Fields(logger.FieldEndpoint, endpoint))
		return "", NewCircuitOpenError(err)
	}
	if err != nil {
		c.metrics.RecordFetch(ctx, endpoint, "error", elapsed)
		c.log.Error("fetch failed", logger.Fields(
			logger.FieldEndpoint, endpoint,
			logger.FieldError, err.Error(),
			logger.FieldDuration, elapsed.Milliseconds(),
		))
		return "", err
	}

	c.metrics.RecordFetch(ctx, endpoint, "ok", elapsed)
	c.log.Debug("fetch completed", logger.Fields(
		logger.FieldEndpoint, endpoint,
		logger.FieldDuration, elapsed.Milliseconds(),
	))
	return string(body), nil
}

// FetchAs fetches the endpoint and JSON-decodes the response into T.
// A payload that does not match T fails with a decode error.
func FetchAs[T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	var result T

	raw, err := c.FetchRaw(ctx, endpoint)
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return result, NewDecodeError(fmt.Errorf("decode %s: %w", endpoint, err))
	}
	return result, nil
}

// FetchByReference fetches an absolute URL supplied by a prior response and
// JSON-decodes it into T. Fails fast on an empty URL.
func FetchByReference[T any](ctx context.Context, c *Client, url string) (T, error) {
	if strings.TrimSpace(url) == "" {
		var zero T
		return zero, NewValidationError("empty reference URL")
	}
	return FetchAs[T](ctx, c, url)
}

// Breaker returns the client's circuit breaker for state inspection.
func (c *Client) Breaker() *resilience.CircuitBreaker {
	return c.cb
}

// Limiter returns the client's rate limiter.
func (c *Client) Limiter() *ratelimit.Limiter {
	return c.rl
}

// Unwrap returns the underlying *http.Client for advanced use cases.
func (c *Client) Unwrap() *http.Client {
	return c.httpClient
}

// doRequest performs a single HTTP GET and classifies the outcome.
func (c *Client) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	url := c.resolveURL(endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("create request: %v", err))
	}

	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, NewTimeoutError(err)
		}
		return nil, NewConnectionError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewConnectionError(fmt.Errorf("read response body: %w", err))
	}

	if classErr := c.classifyStatus(resp.StatusCode, body); classErr != nil {
		return nil, classErr
	}

	return body, nil
}

// classifyStatus converts a status code into a typed error.
// Returns nil for 2xx.
func (c *Client) classifyStatus(statusCode int, body []byte) *Error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	if _, ok := c.retryable[statusCode]; ok {
		return &Error{
			StatusCode: statusCode,
			Code:       ErrCodeRetryableStatus,
			Message:    fmt.Sprintf("HTTP %d", statusCode),
			Retryable:  true,
			Body:       body,
		}
	}

	if _, ok := c.breakerSet[statusCode]; ok {
		return &Error{
			StatusCode: statusCode,
			Code:       ErrCodeUpstreamStatus,
			Message:    fmt.Sprintf("HTTP %d", statusCode),
			Retryable:  false,
			Body:       body,
		}
	}

	return &Error{
		StatusCode: statusCode,
		Code:       ErrCodeHardStatus,
		Message:    fmt.Sprintf("HTTP %d", statusCode),
		Retryable:  false,
		Body:       body,
	}
}

// shouldRetry is the retry predicate: transient errors only, with timeouts
// gated by RetryOnTimeout. The typed classification is checked before the
// context sentinels because http.Client timeout errors also match
// context.DeadlineExceeded.
func (c *Client) shouldRetry(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	if e.Code == ErrCodeTimeout {
		return c.config.RetryOnTimeout
	}
	return e.Retryable
}

// countsTowardBreaker decides whether a surfaced error is evidence of
// upstream unhealthiness. Hard statuses, decode failures, and bad input are
// the caller's problem, not the upstream's.
func (c *Client) countsTowardBreaker(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Code {
	case ErrCodeTimeout, ErrCodeConnection, ErrCodeRetryableStatus, ErrCodeUpstreamStatus:
		return true
	default:
		return false
	}
}

// resolveURL joins a relative endpoint onto the base URL; absolute URLs
// pass through untouched.
func (c *Client) resolveURL(endpoint string) string {
	if c.config.BaseURL == "" ||
		strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	return strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(endpoint, "/")
}

func statusSet(codes []int) map[int]struct{} {
	set := make(map[int]struct{}, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return set
}
