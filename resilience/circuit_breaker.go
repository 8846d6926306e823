package resilience

import (
	"errors"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed allows requests to pass through.
	StateClosed State = iota
	// StateOpen blocks all requests.
	StateOpen
	// StateHalfOpen allows a single trial request to test recovery.
	StateHalfOpen
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Common errors.
var (
	ErrCircuitOpen = errors.New("circuit breaker is open")
)

// CircuitBreakerConfig configures a circuit breaker.
type CircuitBreakerConfig struct {
	// Name identifies this circuit breaker for metrics/logging.
	Name string
	// SamplingWindow is the rolling window over which outcomes are counted.
	SamplingWindow time.Duration
	// MinimumThroughput is the sample count required before the failure
	// ratio is trusted. Below it the breaker never opens.
	MinimumThroughput int
	// FailureRatio is the failure fraction above which the breaker opens.
	FailureRatio float64
	// OpenDuration is how long the breaker stays open before admitting a
	// half-open trial call.
	OpenDuration time.Duration
	// CountAsFailure decides whether an error counts toward the failure
	// ratio. Errors it rejects are surfaced but leave the window untouched.
	// Nil counts every error.
	CountAsFailure func(error) bool
	// OnStateChange is called when the state changes.
	OnStateChange func(name string, from, to State)
}

// DefaultCircuitBreakerConfig returns sensible defaults.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:              name,
		SamplingWindow:    60 * time.Second,
		MinimumThroughput: 5,
		FailureRatio:      0.5,
		OpenDuration:      30 * time.Second,
	}
}

// sample is one observed call outcome inside the rolling window.
type sample struct {
	at      time.Time
	failure bool
}

// CircuitBreaker implements the circuit breaker pattern with a rolling
// failure-ratio window. It prevents hammering an upstream service that is
// already unhealthy.
//
// States:
//   - Closed: Normal operation, requests pass through
//   - Open: Upstream is unhealthy, requests fail immediately with ErrCircuitOpen
//   - Half-Open: After OpenDuration, exactly one trial request is admitted;
//     success closes the breaker, failure reopens it
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu              sync.Mutex
	state           State
	samples         []sample
	openedAt        time.Time
	halfOpenPending bool
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.SamplingWindow <= 0 {
		config.SamplingWindow = 60 * time.Second
	}
	if config.MinimumThroughput <= 0 {
		config.MinimumThroughput = 5
	}
	if config.FailureRatio <= 0 || config.FailureRatio > 1 {
		config.FailureRatio = 0.5
	}
	if config.OpenDuration <= 0 {
		config.OpenDuration = 30 * time.Second
	}

	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
	}
}

// Execute runs the given function through the circuit breaker.
// Returns ErrCircuitOpen without invoking fn if the circuit is open.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.allowRequest() {
		return ErrCircuitOpen
	}

	err := fn()
	cb.recordResult(err)
	return err
}

// State returns the current circuit breaker state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentState()
}

// Reset resets the circuit breaker to closed state and clears the window.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.toState(StateClosed)
	cb.samples = nil
	cb.halfOpenPending = false
}

// Failures returns the failure count inside the current window.
func (cb *CircuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.prune()
	n := 0
	for _, s := range cb.samples {
		if s.failure {
			n++
		}
	}
	return n
}

// allowRequest checks if a request should be allowed.
func (cb *CircuitBreaker) allowRequest() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.currentState() {
	case StateClosed:
		return true
	case StateOpen:
		return false
	case StateHalfOpen:
		// Admit exactly one trial at a time.
		if cb.halfOpenPending {
			return false
		}
		cb.halfOpenPending = true
		return true
	default:
		return false
	}
}

// recordResult records the outcome of an admitted request.
func (cb *CircuitBreaker) recordResult(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	failure := err != nil
	if failure && cb.config.CountAsFailure != nil && !cb.config.CountAsFailure(err) {
		// Neutral outcome: surfaces to the caller but is not evidence of
		// upstream unhealthiness. A half-open trial stays available.
		cb.halfOpenPending = false
		return
	}

	if cb.state == StateHalfOpen {
		cb.halfOpenPending = false
		if failure {
			cb.openedAt = time.Now()
			cb.toState(StateOpen)
		} else {
			cb.toState(StateClosed)
			cb.samples = nil
		}
		return
	}

	cb.prune()
	cb.samples = append(cb.samples, sample{at: time.Now(), failure: failure})

	if cb.state == StateClosed && cb.shouldTrip() {
		cb.openedAt = time.Now()
		cb.toState(StateOpen)
	}
}

// shouldTrip reports whether the windowed failure ratio warrants opening.
// Callers must hold cb.mu.
func (cb *CircuitBreaker) shouldTrip() bool {
	if len(cb.samples) < cb.config.MinimumThroughput {
		return false
	}
	failures := 0
	for _, s := range cb.samples {
		if s.failure {
			failures++
		}
	}
	return float64(failures)/float64(len(cb.samples)) > cb.config.FailureRatio
}

// prune drops samples that fell out of the rolling window.
// Callers must hold cb.mu.
func (cb *CircuitBreaker) prune() {
	cutoff := time.Now().Add(-cb.config.SamplingWindow)
	i := 0
	for ; i < len(cb.samples); i++ {
		if cb.samples[i].at.After(cutoff) {
			break
		}
	}
	if i > 0 {
		cb.samples = cb.samples[i:]
	}
}

// currentState returns the current state, handling the open-duration
// transition to half-open. Callers must hold cb.mu.
func (cb *CircuitBreaker) currentState() State {
	if cb.state == StateOpen && time.Since(cb.openedAt) >= cb.config.OpenDuration {
		cb.toState(StateHalfOpen)
	}
	return cb.state
}

// toState transitions to a new state. Callers must hold cb.mu.
func (cb *CircuitBreaker) toState(to State) {
	if cb.state == to {
		return
	}

	from := cb.state
	cb.state = to

	if to == StateHalfOpen {
		cb.halfOpenPending = false
	}

	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.config.Name, from, to)
	}
}
