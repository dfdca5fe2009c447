package sequencer

import (
	"context"

	"github.com/waygate/waygate/internal/route"
)

// Request is one navigation attempt: current state, candidate next state,
// and the minimal ordered set of nodes whose state changes between them.
//
// Affected must be ordered root→leaf. The sequencer iterates it in reverse
// for deactivation. Computing the set is the caller's job; the sequencer
// performs no route matching.
type Request struct {
	From     route.State
	To       route.State
	Affected []*route.Node
}

// OutcomeKind enumerates navigation results.
type OutcomeKind int

const (
	// OutcomeProceed means all phases completed and the tree now
	// represents the target state.
	OutcomeProceed OutcomeKind = iota + 1
	// OutcomeCancelled means a guard declined, a hook faulted in a
	// guard/activation phase, or the attempt's context was cancelled.
	OutcomeCancelled
	// OutcomeRedirect means a guard retargeted the navigation and no
	// resolver was configured to follow it; the caller restarts.
	OutcomeRedirect
)

// String returns the journal spelling of the kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeProceed:
		return "proceed"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeRedirect:
		return "redirect"
	default:
		return "error"
	}
}

// Outcome is the result of one Attempt call.
type Outcome struct {
	Kind OutcomeKind

	// Target is the redirect target when Kind == OutcomeRedirect.
	Target *route.State

	// NavToken correlates every journal record of this navigation,
	// across redirect hops.
	NavToken string

	// Redirects counts redirect hops followed internally.
	Redirects int
}

// ComponentFactory constructs a new component instance for a node during
// the activation-execution phase. The returned instance may implement any
// subset of the capability interfaces.
type ComponentFactory interface {
	New(ctx context.Context, node *route.Node, to route.State) (any, error)
}

// FactoryFunc implements ComponentFactory as a function.
type FactoryFunc func(ctx context.Context, node *route.Node, to route.State) (any, error)

// New implements ComponentFactory.
func (f FactoryFunc) New(ctx context.Context, node *route.Node, to route.State) (any, error) {
	return f(ctx, node, to)
}

// Resolver computes the affected node chain for a redirect target, letting
// the sequencer restart internally. Route matching stays outside the core;
// harness and CLI wire a tree-walking resolver, libraries may omit it and
// handle OutcomeRedirect themselves.
type Resolver interface {
	Resolve(from, to route.State) ([]*route.Node, error)
}

// ResolverFunc implements Resolver as a function.
type ResolverFunc func(from, to route.State) ([]*route.Node, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(from, to route.State) ([]*route.Node, error) {
	return f(from, to)
}

// Journal records attempts and hook calls. Implemented by store.Store
// (durable) and MemoryJournal (tests, harness traces). Recording failures
// are logged and never affect the navigation outcome.
type Journal interface {
	WriteAttempt(ctx context.Context, a route.Attempt) error
	WriteHookCall(ctx context.Context, hc route.HookCall) error
}
