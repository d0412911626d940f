package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrServiceUnavailable indicates the completion service could not be
// reached or answered with a transient failure. Callers may retry the whole
// operation; session state is never mutated on this error.
var ErrServiceUnavailable = errors.New("completion service unavailable")

// MalformedOutputError indicates the model's output did not satisfy the
// declared schema after best-effort cleanup. Not retried automatically:
// re-running the same prompt against a non-deterministic model is a caller
// decision.
type MalformedOutputError struct {
	Schema string
	Issues []string
	Cause  error
}

func (e *MalformedOutputError) Error() string {
	if len(e.Issues) > 0 {
		return fmt.Sprintf("malformed %s output: %s", e.Schema, strings.Join(e.Issues, "; "))
	}
	if e.Cause != nil {
		return fmt.Sprintf("malformed %s output: %v", e.Schema, e.Cause)
	}
	return fmt.Sprintf("malformed %s output", e.Schema)
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Cause
}
