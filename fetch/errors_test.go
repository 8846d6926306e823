package fetch

import (
	"errors"
	"fmt"
	"testing"

	"github.com/kbukum/sportkit/resilience"
)

func TestError_MessageIncludesStatusCode(t *testing.T) {
	err := &Error{
		StatusCode: 503,
		Code:       ErrCodeRetryableStatus,
		Message:    "HTTP 503",
	}

	want := "fetch: retryable_status (HTTP 503): HTTP 503"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestError_UnwrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewConnectionError(cause)

	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable via errors.Is")
	}
}

func TestError_WrappedErrorsMatchHelpers(t *testing.T) {
	wrapped := fmt.Errorf("fetching teams: %w", NewTimeoutError(errors.New("deadline")))

	if !IsTimeout(wrapped) {
		t.Error("IsTimeout must see through wrapping")
	}
	if IsConnection(wrapped) {
		t.Error("IsConnection must not match a timeout error")
	}
}

func TestCircuitOpenError_MatchesBreakerSentinel(t *testing.T) {
	err := NewCircuitOpenError(resilience.ErrCircuitOpen)

	if !IsCircuitOpen(err) {
		t.Error("expected IsCircuitOpen to match")
	}
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Error("expected errors.Is to match the breaker sentinel")
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(NewConnectionError(errors.New("refused"))) {
		t.Error("connection errors are retryable")
	}
	if IsRetryable(NewValidationError("empty reference URL")) {
		t.Error("validation errors are not retryable")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("plain errors are not classified retryable")
	}
}

func TestErrorCode_String(t *testing.T) {
	cases := map[ErrorCode]string{
		ErrCodeTimeout:         "timeout",
		ErrCodeConnection:      "connection",
		ErrCodeRetryableStatus: "retryable_status",
		ErrCodeUpstreamStatus:  "upstream_status",
		ErrCodeHardStatus:      "hard_status",
		ErrCodeDecode:          "decode",
		ErrCodeValidation:      "validation",
		ErrCodeCircuitOpen:     "circuit_open",
		ErrorCode(99):          "unknown",
	}
	for code, want := range cases {
		if got := code.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}
