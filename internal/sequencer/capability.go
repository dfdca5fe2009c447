package sequencer

import (
	"context"

	"github.com/waygate/waygate/internal/route"
)

// GuardDecision is the answer of a CanNavigate or CanDeactivate guard:
// allow, deny, or redirect to a different target.
type GuardDecision struct {
	Allow    bool
	Redirect *route.State
}

// Allow permits the navigation.
func Allow() GuardDecision {
	return GuardDecision{Allow: true}
}

// Deny cancels the navigation. This is the expected "user declined" path,
// not an error.
func Deny() GuardDecision {
	return GuardDecision{}
}

// RedirectTo aborts the current attempt and retargets navigation.
func RedirectTo(target route.State) GuardDecision {
	return GuardDecision{Redirect: &target}
}

// The five optional capabilities a component instance may implement.
// None is required: a missing guard permits, a missing CanReuse means
// "not reusable", missing lifecycle hooks are no-ops.

// CanNavigate is the local-only deactivation guard. It sees no target
// state; when an instance implements both CanNavigate and CanDeactivate,
// only CanNavigate is consulted.
type CanNavigate interface {
	CanNavigate(ctx context.Context) (GuardDecision, error)
}

// CanDeactivate is the target-aware deactivation guard, for decisions that
// need visibility into the next state (e.g. an added query parameter).
type CanDeactivate interface {
	CanDeactivate(ctx context.Context, current, next route.State) (GuardDecision, error)
}

// CanReuse decides whether the existing instance survives the navigation
// instead of being destroyed and recreated.
type CanReuse interface {
	CanReuse(current, next route.State) bool
}

// OnActivate runs when an instance begins representing the current route.
// Descendant activation waits until it returns.
type OnActivate interface {
	OnActivate(ctx context.Context, previous, current route.State) error
}

// OnDeactivate runs before an instance is destroyed. Best-effort: a fault
// is journaled but never cancels the navigation.
type OnDeactivate interface {
	OnDeactivate(ctx context.Context, current, next route.State) error
}

// Hooks is a record of optional hook handles for one instance. Handles are
// nil when the instance does not implement the capability. The phases check
// handle presence; interface assertions happen exactly once, in HooksFor,
// when the instance is attached.
type Hooks struct {
	CanNavigate   func(ctx context.Context) (GuardDecision, error)
	CanDeactivate func(ctx context.Context, current, next route.State) (GuardDecision, error)
	CanReuse      func(current, next route.State) bool
	OnActivate    func(ctx context.Context, previous, current route.State) error
	OnDeactivate  func(ctx context.Context, current, next route.State) error
}

// HookSource lets an instance supply its hook record directly instead of
// implementing the capability interfaces. Useful when the capability
// subset is data-driven, e.g. scripted components in scenarios.
type HookSource interface {
	NavigationHooks() Hooks
}

// HooksFor builds the hook record for an instance. Safe on nil and on
// instances implementing no capability (all handles stay nil).
//
// A HookSource instance supplies its record as-is; otherwise each
// capability interface is probed exactly once.
func HooksFor(instance any) Hooks {
	var h Hooks
	if instance == nil {
		return h
	}
	if src, ok := instance.(HookSource); ok {
		return src.NavigationHooks()
	}
	if v, ok := instance.(CanNavigate); ok {
		h.CanNavigate = v.CanNavigate
	}
	if v, ok := instance.(CanDeactivate); ok {
		h.CanDeactivate = v.CanDeactivate
	}
	if v, ok := instance.(CanReuse); ok {
		h.CanReuse = v.CanReuse
	}
	if v, ok := instance.(OnActivate); ok {
		h.OnActivate = v.OnActivate
	}
	if v, ok := instance.(OnDeactivate); ok {
		h.OnDeactivate = v.OnDeactivate
	}
	return h
}
