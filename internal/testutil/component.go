package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/waygate/waygate/internal/route"
	"github.com/waygate/waygate/internal/sequencer"
)

// Call is one hook invocation observed by a scripted component.
type Call struct {
	Component string
	Hook      string
	From      string // empty for CanNavigate (no state arguments)
	To        string
}

// String renders "hook@Component(from,to)", the spelling used in call
// order assertions.
func (c Call) String() string {
	if c.From == "" && c.To == "" {
		return fmt.Sprintf("%s@%s", c.Hook, c.Component)
	}
	return fmt.Sprintf("%s@%s(%s,%s)", c.Hook, c.Component, c.From, c.To)
}

// Log collects hook calls across every scripted component of a scenario,
// in invocation order.
//
// Thread-safety: safe for concurrent use via internal mutex, though the
// sequencer invokes hooks sequentially.
type Log struct {
	mu    sync.Mutex
	calls []Call
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{}
}

// Add appends a call.
func (l *Log) Add(c Call) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, c)
}

// Calls returns a copy of the log in invocation order.
func (l *Log) Calls() []Call {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Call, len(l.calls))
	copy(out, l.calls)
	return out
}

// Strings returns the log rendered via Call.String.
func (l *Log) Strings() []string {
	calls := l.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

// Reset clears the log.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = nil
}

// Script defines which capabilities a scripted component has and how each
// answers. A nil field means the capability is absent, which is different
// from a capability that always allows.
type Script struct {
	CanNavigate   func(ctx context.Context) (sequencer.GuardDecision, error)
	CanDeactivate func(ctx context.Context, current, next route.State) (sequencer.GuardDecision, error)
	CanReuse      func(current, next route.State) bool
	OnActivate    func(ctx context.Context, previous, current route.State) error
	OnDeactivate  func(ctx context.Context, current, next route.State) error
}

// Component is a scripted component instance. It supplies its hook record
// directly (sequencer.HookSource), so the capability subset exactly
// matches the script, and every invocation lands in the shared Log.
type Component struct {
	Name   string
	log    *Log
	script Script
}

// NewComponent creates a scripted component. log may be nil when call
// order is irrelevant.
func NewComponent(name string, log *Log, script Script) *Component {
	return &Component{Name: name, log: log, script: script}
}

func (c *Component) record(hook, from, to string) {
	if c.log != nil {
		c.log.Add(Call{Component: c.Name, Hook: hook, From: from, To: to})
	}
}

// NavigationHooks implements sequencer.HookSource.
func (c *Component) NavigationHooks() sequencer.Hooks {
	var h sequencer.Hooks
	if fn := c.script.CanNavigate; fn != nil {
		h.CanNavigate = func(ctx context.Context) (sequencer.GuardDecision, error) {
			c.record(route.HookCanNavigate, "", "")
			return fn(ctx)
		}
	}
	if fn := c.script.CanDeactivate; fn != nil {
		h.CanDeactivate = func(ctx context.Context, current, next route.State) (sequencer.GuardDecision, error) {
			c.record(route.HookCanDeactivate, current.String(), next.String())
			return fn(ctx, current, next)
		}
	}
	if fn := c.script.CanReuse; fn != nil {
		h.CanReuse = func(current, next route.State) bool {
			c.record(route.HookCanReuse, current.String(), next.String())
			return fn(current, next)
		}
	}
	if fn := c.script.OnActivate; fn != nil {
		h.OnActivate = func(ctx context.Context, previous, current route.State) error {
			c.record(route.HookOnActivate, previous.String(), current.String())
			return fn(ctx, previous, current)
		}
	}
	if fn := c.script.OnDeactivate; fn != nil {
		h.OnDeactivate = func(ctx context.Context, current, next route.State) error {
			c.record(route.HookOnDeactivate, current.String(), next.String())
			return fn(ctx, current, next)
		}
	}
	return h
}

// AlwaysAllow is a CanNavigate script that permits unconditionally.
func AlwaysAllow(context.Context) (sequencer.GuardDecision, error) {
	return sequencer.Allow(), nil
}

// AlwaysDeny is a CanNavigate script that declines unconditionally.
func AlwaysDeny(context.Context) (sequencer.GuardDecision, error) {
	return sequencer.Deny(), nil
}
