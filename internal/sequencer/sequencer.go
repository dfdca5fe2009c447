package sequencer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/waygate/waygate/internal/route"
)

// DefaultMaxRedirects bounds the redirect chain of one navigation.
// Guards redirecting to each other would otherwise never terminate.
const DefaultMaxRedirects = 10

// Sequencer runs the guard phases for navigation attempts.
//
// It exclusively owns the runtime node tree: instances are attached and
// detached only here. The sequencer is not reentrant; serialize calls to
// Attempt through a Dispatcher or equivalent.
type Sequencer struct {
	factory      ComponentFactory
	tokens       TokenGenerator
	clock        *Clock
	journal      Journal
	resolver     Resolver
	logger       *slog.Logger
	maxRedirects int

	// hooks caches the capability record per occupied node. Interface
	// assertions happen once per instance (HooksFor), here, not in the
	// phases.
	hooks map[*route.Node]Hooks
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithMaxRedirects sets the redirect chain limit.
// Use WithMaxRedirects(2) for testing loop detection.
func WithMaxRedirects(n int) Option {
	return func(s *Sequencer) {
		s.maxRedirects = n
	}
}

// WithJournal records every attempt and hook call. Recording failures are
// logged and never affect navigation.
func WithJournal(j Journal) Option {
	return func(s *Sequencer) {
		s.journal = j
	}
}

// WithResolver lets the sequencer follow redirects internally. Without it,
// a redirect is returned as OutcomeRedirect for the caller to restart.
func WithResolver(r Resolver) Option {
	return func(s *Sequencer) {
		s.resolver = r
	}
}

// WithLogger overrides the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sequencer) {
		s.logger = l
	}
}

// WithClock sets a pre-positioned clock, e.g. to continue an existing
// journal's seq numbering.
func WithClock(c *Clock) Option {
	return func(s *Sequencer) {
		s.clock = c
	}
}

// New creates a Sequencer with the given component factory and token
// generator.
func New(factory ComponentFactory, tokens TokenGenerator, opts ...Option) *Sequencer {
	s := &Sequencer{
		factory:      factory,
		tokens:       tokens,
		clock:        NewClock(),
		logger:       slog.Default(),
		maxRedirects: DefaultMaxRedirects,
		hooks:        make(map[*route.Node]Hooks),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Clock returns the sequencer's logical clock.
func (s *Sequencer) Clock() *Clock {
	return s.clock
}

// Occupy attaches a pre-existing instance to a node outside any
// navigation, returning the assigned instance ID. Used to seed tree state
// in scenarios; production instances are attached by the activation phase.
func (s *Sequencer) Occupy(node *route.Node, instance any) string {
	id := s.tokens.Generate()
	s.attach(node, instance, id)
	return id
}

func (s *Sequencer) attach(node *route.Node, instance any, id string) {
	node.Attach(instance, id)
	s.hooks[node] = HooksFor(instance)
}

func (s *Sequencer) detach(node *route.Node) {
	node.Detach()
	delete(s.hooks, node)
}

// hooksFor returns the cached capability record for a node, building it on
// first sight for instances attached outside Occupy.
func (s *Sequencer) hooksFor(node *route.Node) Hooks {
	if h, ok := s.hooks[node]; ok {
		return h
	}
	h := HooksFor(node.Instance)
	s.hooks[node] = h
	return h
}

// Attempt runs one navigation to completion: guard phases, redirect
// following (when a resolver is configured), deactivation and activation.
//
// A guard denial or context cancellation yields OutcomeCancelled with a
// nil or ctx error; a hook fault yields OutcomeCancelled with a *HookFault;
// an exhausted redirect chain yields OutcomeCancelled with a
// *RedirectLoopError. A fault in the best-effort deactivation phase is the
// one case where the outcome is OutcomeProceed AND the error is non-nil:
// navigation completed, but the caller should log the fault.
func (s *Sequencer) Attempt(ctx context.Context, req Request) (Outcome, error) {
	token := s.tokens.Generate()
	from, to, affected := req.From, req.To, req.Affected

	var chain []string
	for {
		res := s.attemptOnce(ctx, token, from, to, affected)

		if res.redirect != nil {
			chain = append(chain, res.redirect.String())

			if s.resolver == nil {
				s.logger.Info("navigation redirected to caller",
					"nav_token", token,
					"target", res.redirect.String(),
				)
				return Outcome{
					Kind:      OutcomeRedirect,
					Target:    res.redirect,
					NavToken:  token,
					Redirects: len(chain),
				}, nil
			}

			if len(chain) > s.maxRedirects {
				err := &RedirectLoopError{NavToken: token, Limit: s.maxRedirects, Chain: chain}
				s.logger.Error("redirect limit exceeded",
					"nav_token", token,
					"limit", s.maxRedirects,
					"chain", chain,
				)
				return Outcome{Kind: OutcomeCancelled, NavToken: token, Redirects: len(chain)}, err
			}

			next := *res.redirect
			aff, err := s.resolver.Resolve(from, next)
			if err != nil {
				return Outcome{Kind: OutcomeCancelled, NavToken: token, Redirects: len(chain)},
					fmt.Errorf("resolve redirect target %s: %w", next.String(), err)
			}
			to = next
			affected = aff
			continue
		}

		out := Outcome{Kind: res.kind, NavToken: token, Redirects: len(chain)}
		if res.kind == OutcomeProceed {
			s.logger.Info("navigation proceeded",
				"nav_token", token,
				"from", from.String(),
				"to", to.String(),
				"redirects", len(chain),
			)
		} else {
			s.logger.Info("navigation cancelled",
				"nav_token", token,
				"from", from.String(),
				"to", to.String(),
				"fault", res.err != nil,
			)
		}
		return out, res.err
	}
}

// attemptResult is the internal result of one redirect hop.
type attemptResult struct {
	kind     OutcomeKind
	redirect *route.State
	err      error
}

// attemptOnce runs the four phases for a single target, without redirect
// following. Exactly one attempt record is journaled per call.
func (s *Sequencer) attemptOnce(ctx context.Context, token string, from, to route.State, affected []*route.Node) attemptResult {
	seq := s.clock.Next()
	attemptID, idErr := route.AttemptID(token, from, to, seq)
	if idErr != nil {
		// State canonicalization cannot fail for states built from
		// strings; treat it as a fault rather than guessing.
		return attemptResult{kind: OutcomeCancelled, err: fmt.Errorf("attempt id: %w", idErr)}
	}

	rec := route.Attempt{
		ID:       attemptID,
		NavToken: token,
		From:     from,
		To:       to,
		Seq:      seq,
	}
	res := s.runPhases(ctx, attemptID, from, to, affected)

	rec.Outcome = res.kind.String()
	if res.redirect != nil {
		rec.Outcome = "redirect"
		rec.RedirectTo = res.redirect.String()
	}
	if res.err != nil {
		rec.Fault = res.err.Error()
	}
	s.writeAttempt(ctx, rec)

	return res
}

func (s *Sequencer) runPhases(ctx context.Context, attemptID string, from, to route.State, affected []*route.Node) attemptResult {
	// Phase 1: deactivation permission, deepest first. No side effects
	// happen before every occupied node has agreed.
	for i := len(affected) - 1; i >= 0; i-- {
		node := affected[i]
		if err := ctx.Err(); err != nil {
			return attemptResult{kind: OutcomeCancelled, err: err}
		}
		if !node.Occupied() {
			continue
		}

		h := s.hooksFor(node)
		var (
			hook string
			d    GuardDecision
			err  error
		)
		switch {
		case h.CanNavigate != nil:
			// Preferred over CanDeactivate: needs no target precomputation.
			hook = route.HookCanNavigate
			d, err = h.CanNavigate(ctx)
		case h.CanDeactivate != nil:
			hook = route.HookCanDeactivate
			d, err = h.CanDeactivate(ctx, from, to)
		default:
			continue
		}

		if err != nil {
			fault := &HookFault{Phase: route.PhaseDeactivationPermission, NodePath: node.Path(), Hook: hook, Err: err}
			s.recordHook(ctx, attemptID, node, hook, route.PhaseDeactivationPermission, route.DecisionFault, err.Error())
			return attemptResult{kind: OutcomeCancelled, err: fault}
		}
		if d.Redirect != nil {
			s.recordHook(ctx, attemptID, node, hook, route.PhaseDeactivationPermission, route.DecisionRedirect, d.Redirect.String())
			return attemptResult{redirect: d.Redirect}
		}
		if !d.Allow {
			s.recordHook(ctx, attemptID, node, hook, route.PhaseDeactivationPermission, route.DecisionDeny, "")
			return attemptResult{kind: OutcomeCancelled}
		}
		s.recordHook(ctx, attemptID, node, hook, route.PhaseDeactivationPermission, route.DecisionAllow, "")
	}

	// Phase 2: reuse determination, root first, with an ancestor-reusable
	// accumulator. Reuse is monotonic top-down: a child is never reused
	// under a non-reused parent, whatever its own answer.
	reusable := make(map[*route.Node]bool, len(affected))
	ancestor := true
	for _, node := range affected {
		keep := false
		if ancestor && node.Occupied() {
			h := s.hooksFor(node)
			if h.CanReuse != nil {
				keep = h.CanReuse(from, to)
				decision := route.DecisionNoReuse
				if keep {
					decision = route.DecisionReuse
				}
				s.recordHook(ctx, attemptID, node, route.HookCanReuse, route.PhaseReuse, decision, "")
			}
		}
		reusable[node] = keep
		ancestor = keep
	}

	// Phase 3: deactivation execution, deepest first. Best-effort: once
	// this phase begins it always completes, and a hook fault never
	// cancels the navigation. The first fault is remembered and surfaced
	// alongside the final outcome.
	var deactFault error
	for i := len(affected) - 1; i >= 0; i-- {
		node := affected[i]
		if reusable[node] || !node.Occupied() {
			continue
		}
		h := s.hooksFor(node)
		if h.OnDeactivate != nil {
			if err := h.OnDeactivate(ctx, from, to); err != nil {
				s.logger.Error("deactivation hook fault",
					"node", node.Path(),
					"error", err,
				)
				s.recordHook(ctx, attemptID, node, route.HookOnDeactivate, route.PhaseDeactivation, route.DecisionFault, err.Error())
				if deactFault == nil {
					deactFault = &HookFault{Phase: route.PhaseDeactivation, NodePath: node.Path(), Hook: route.HookOnDeactivate, Err: err}
				}
			} else {
				s.recordHook(ctx, attemptID, node, route.HookOnDeactivate, route.PhaseDeactivation, route.DecisionOK, "")
			}
		}
		s.detach(node)
	}

	// Phase 4: activation execution, root first. A node's OnActivate is
	// awaited before any descendant activates; descendants may depend on
	// state it establishes. A fault aborts the remaining activations.
	// Deactivation already executed is NOT rolled back.
	for _, node := range affected {
		if err := ctx.Err(); err != nil {
			return attemptResult{kind: OutcomeCancelled, err: err}
		}

		if !reusable[node] {
			instance, err := s.factory.New(ctx, node, to)
			if err != nil {
				fault := &HookFault{Phase: route.PhaseActivation, NodePath: node.Path(), Hook: "factory", Err: err}
				s.recordHook(ctx, attemptID, node, "factory", route.PhaseActivation, route.DecisionFault, err.Error())
				return attemptResult{kind: OutcomeCancelled, err: fault}
			}
			s.attach(node, instance, s.tokens.Generate())
		}

		h := s.hooksFor(node)
		if h.OnActivate == nil {
			continue
		}
		if err := h.OnActivate(ctx, from, to); err != nil {
			fault := &HookFault{Phase: route.PhaseActivation, NodePath: node.Path(), Hook: route.HookOnActivate, Err: err}
			s.recordHook(ctx, attemptID, node, route.HookOnActivate, route.PhaseActivation, route.DecisionFault, err.Error())
			return attemptResult{kind: OutcomeCancelled, err: fault}
		}
		s.recordHook(ctx, attemptID, node, route.HookOnActivate, route.PhaseActivation, route.DecisionOK, "")
	}

	return attemptResult{kind: OutcomeProceed, err: deactFault}
}

// writeAttempt journals an attempt record. Failures are logged, never
// propagated: the journal observes navigation, it does not gate it.
func (s *Sequencer) writeAttempt(ctx context.Context, rec route.Attempt) {
	if s.journal == nil {
		return
	}
	if err := s.journal.WriteAttempt(ctx, rec); err != nil {
		s.logger.Error("journal attempt write failed",
			"attempt_id", rec.ID,
			"nav_token", rec.NavToken,
			"error", err,
		)
	}
}

// recordHook journals one hook invocation with its own seq stamp.
func (s *Sequencer) recordHook(ctx context.Context, attemptID string, node *route.Node, hook, phase, decision, detail string) {
	seq := s.clock.Next()

	s.logger.Debug("hook invoked",
		"node", node.Path(),
		"hook", hook,
		"phase", phase,
		"decision", decision,
		"seq", seq,
	)

	if s.journal == nil {
		return
	}
	id, err := route.HookCallID(attemptID, node.Path(), hook, seq)
	if err != nil {
		s.logger.Error("hook call id failed", "error", err)
		return
	}
	hc := route.HookCall{
		ID:        id,
		AttemptID: attemptID,
		NodePath:  node.Path(),
		Component: node.Component,
		Hook:      hook,
		Phase:     phase,
		Decision:  decision,
		Detail:    detail,
		Seq:       seq,
	}
	if err := s.journal.WriteHookCall(ctx, hc); err != nil {
		s.logger.Error("journal hook write failed",
			"attempt_id", attemptID,
			"node", node.Path(),
			"hook", hook,
			"error", err,
		)
	}
}
