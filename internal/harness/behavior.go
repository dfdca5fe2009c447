package harness

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/waygate/waygate/internal/route"
	"github.com/waygate/waygate/internal/sequencer"
	"github.com/waygate/waygate/internal/testutil"
)

// script converts a YAML behavior into a testutil.Script. Empty behavior
// fields stay nil, so the instance genuinely lacks the capability.
func (b Behavior) script() (testutil.Script, error) {
	var s testutil.Script

	if b.CanNavigate != "" {
		decide, err := parseGuard("can_navigate", b.CanNavigate)
		if err != nil {
			return s, err
		}
		s.CanNavigate = func(context.Context) (sequencer.GuardDecision, error) {
			return decide()
		}
	}

	if b.CanDeactivate != "" {
		decide, err := parseGuard("can_deactivate", b.CanDeactivate)
		if err != nil {
			return s, err
		}
		s.CanDeactivate = func(context.Context, route.State, route.State) (sequencer.GuardDecision, error) {
			return decide()
		}
	}

	if b.CanReuse != nil {
		keep := *b.CanReuse
		s.CanReuse = func(route.State, route.State) bool { return keep }
	}

	if b.OnActivate != "" {
		fail, err := parseLifecycle("on_activate", b.OnActivate)
		if err != nil {
			return s, err
		}
		s.OnActivate = func(context.Context, route.State, route.State) error { return fail() }
	}

	if b.OnDeactivate != "" {
		fail, err := parseLifecycle("on_deactivate", b.OnDeactivate)
		if err != nil {
			return s, err
		}
		s.OnDeactivate = func(context.Context, route.State, route.State) error { return fail() }
	}

	return s, nil
}

// parseGuard parses "allow", "deny", "redirect:<path>" or "fault:<message>".
func parseGuard(field, value string) (func() (sequencer.GuardDecision, error), error) {
	switch {
	case value == "allow":
		return func() (sequencer.GuardDecision, error) { return sequencer.Allow(), nil }, nil
	case value == "deny":
		return func() (sequencer.GuardDecision, error) { return sequencer.Deny(), nil }, nil
	case strings.HasPrefix(value, "redirect:"):
		target, err := route.ParseState(strings.TrimPrefix(value, "redirect:"))
		if err != nil {
			return nil, fmt.Errorf("%s: bad redirect target %q: %w", field, value, err)
		}
		return func() (sequencer.GuardDecision, error) { return sequencer.RedirectTo(target), nil }, nil
	case strings.HasPrefix(value, "fault:"):
		msg := strings.TrimPrefix(value, "fault:")
		return func() (sequencer.GuardDecision, error) { return sequencer.GuardDecision{}, errors.New(msg) }, nil
	default:
		return nil, fmt.Errorf("%s: unknown behavior %q", field, value)
	}
}

// parseLifecycle parses "ok" or "fault:<message>".
func parseLifecycle(field, value string) (func() error, error) {
	switch {
	case value == "ok":
		return func() error { return nil }, nil
	case strings.HasPrefix(value, "fault:"):
		msg := strings.TrimPrefix(value, "fault:")
		return func() error { return errors.New(msg) }, nil
	default:
		return nil, fmt.Errorf("%s: unknown behavior %q", field, value)
	}
}
