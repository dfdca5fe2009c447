package sequencer

import (
	"errors"
	"fmt"
	"strings"
)

// HookFault reports that a hook raised an unexpected fault, as opposed to
// returning a boolean denial. Denials resolve to OutcomeCancelled with a
// nil error; faults are surfaced distinctly so application code can log
// or recover. The sequencer never swallows one.
type HookFault struct {
	// Phase names the sequencer phase the fault occurred in.
	Phase string

	// NodePath is the label path of the affected node.
	NodePath string

	// Hook names the hook that faulted.
	Hook string

	// Err is the underlying fault.
	Err error
}

// Error implements the error interface.
func (e *HookFault) Error() string {
	return fmt.Sprintf("hook fault: %s on %s during %s: %v", e.Hook, e.NodePath, e.Phase, e.Err)
}

// Unwrap returns the underlying fault.
func (e *HookFault) Unwrap() error {
	return e.Err
}

// IsHookFault reports whether the error is a hook fault.
// Uses errors.As to handle wrapped errors.
func IsHookFault(err error) bool {
	var hf *HookFault
	return errors.As(err, &hf)
}

// RedirectLoopError is returned when a redirect chain exceeds the
// configured limit. Limits guarantee termination when guards redirect
// to each other.
type RedirectLoopError struct {
	NavToken string   // The navigation that looped
	Limit    int      // Maximum allowed redirect hops
	Chain    []string // Target paths in redirect order
}

// Error implements the error interface.
func (e *RedirectLoopError) Error() string {
	return fmt.Sprintf("navigation %s exceeded redirect limit %d: %s",
		e.NavToken, e.Limit, strings.Join(e.Chain, " -> "))
}

// IsRedirectLoop reports whether the error is a redirect loop error.
// Uses errors.As to handle wrapped errors.
func IsRedirectLoop(err error) bool {
	var re *RedirectLoopError
	return errors.As(err, &re)
}

// ErrSuperseded completes a navigation that was replaced by a newer request
// under the dispatcher's supersede policy.
var ErrSuperseded = errors.New("navigation superseded by newer request")
