package ai

import (
	"errors"
	"fmt"
)

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

var (
	// ErrNotConfigured means no provider credential is present. It is a routing
	// signal for the mock path, never a failure shown to the end caller.
	ErrNotConfigured = errors.New("ai provider not configured")
	ErrTimeout       = errors.New("ai request timed out")
	ErrProvider      = errors.New("ai provider error")

	// ErrInvalidRequest is the only error the pipeline surfaces: no prompts, no
	// subjects or no brand were supplied.
	ErrInvalidRequest = errors.New("invalid request")
)

// CallError is returned by a Client when a single completion attempt fails.
type CallError struct {
	Kind FailureKind
	Err  error
}

func (e *CallError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *CallError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

// Invalid wraps ErrInvalidRequest with a reason.
func Invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, reason)
}

// FailureFrom maps an error returned by a Client to the failure recorded on a
// result. Anything that is not a CallError counts as a provider error.
func FailureFrom(err error) *Failure {
	var ce *CallError
	if errors.As(err, &ce) {
		msg := ce.Kind.String()
		if ce.Err != nil {
			msg = ce.Err.Error()
		}
		return &Failure{Kind: ce.Kind, Message: msg}
	}
	if errors.Is(err, ErrTimeout) {
		return &Failure{Kind: FailureTimeout, Message: err.Error()}
	}
	return &Failure{Kind: FailureProviderError, Message: err.Error()}
}
