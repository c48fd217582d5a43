package opt

import (
	"fmt"
)

// PreconditionError reports an internal-contract failure: the pass received
// input it is not specified to handle (non-disambiguated tree, malformed
// payload, missing dialect metadata). It is distinct from user-facing
// diagnostics.
type PreconditionError struct {
	Pass   string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("pass %s: precondition violated: %s", e.Pass, e.Reason)
}

func preconditionf(pass, format string, args ...any) error {
	return &PreconditionError{Pass: pass, Reason: fmt.Sprintf(format, args...)}
}

// ExhaustedError reports a resource-style outcome: the pass is correct but
// could not reach its goal within its limits (stack threshold unreachable,
// inlining budget exceeded). The driver may retry with other parameters.
type ExhaustedError struct {
	Pass   string
	Reason string
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("pass %s: %s", e.Pass, e.Reason)
}

func exhaustedf(pass, format string, args ...any) error {
	return &ExhaustedError{Pass: pass, Reason: fmt.Sprintf(format, args...)}
}
