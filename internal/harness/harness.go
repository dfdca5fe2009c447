package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/waygate/waygate/internal/route"
	"github.com/waygate/waygate/internal/sequencer"
	"github.com/waygate/waygate/internal/testutil"
)

// Harness executes one scenario against a real sequencer.
// Tokens and seq numbers are deterministic, so repeated runs of the same
// scenario produce identical results and journals.
type Harness struct {
	roots   []*route.Node
	seq     *sequencer.Sequencer
	log     *testutil.Log
	journal *sequencer.MemoryJournal
	logger  *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Build the route tree from the scenario's YAML routes
//  2. Seed occupied nodes with scripted instances
//  3. Run every navigation through the sequencer, validating expect clauses
//  4. Evaluate assertions against the call log and final tree
func Run(scenario *Scenario) (*Result, error) {
	_, result, err := run(scenario)
	return result, err
}

// RunRecorded executes a scenario and additionally returns the journal,
// letting callers persist or snapshot the recorded attempts.
func RunRecorded(scenario *Scenario) (*Result, *sequencer.MemoryJournal, error) {
	h, result, err := run(scenario)
	if err != nil {
		return nil, nil, err
	}
	return result, h.journal, nil
}

// run is the shared implementation behind Run and RunWithGolden; the
// returned harness gives golden snapshots access to the journal.
func run(scenario *Scenario) (*Harness, *Result, error) {
	h, err := newHarness(scenario)
	if err != nil {
		return nil, nil, err
	}

	ctx := context.Background()
	result := NewResult()

	for i, step := range scenario.Navigations {
		if err := h.runNavigation(ctx, i, step, result); err != nil {
			return nil, nil, err
		}
	}

	result.Calls = h.log.Strings()

	for _, msg := range EvaluateAssertions(scenario.Assertions, h.log, h.roots) {
		result.AddError(msg)
	}

	return h, result, nil
}

func newHarness(scenario *Scenario) (*Harness, error) {
	spec, err := buildSpec(scenario.Routes)
	if err != nil {
		return nil, err
	}

	h := &Harness{
		roots:   spec.Build(),
		log:     testutil.NewLog(),
		journal: sequencer.NewMemoryJournal(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	componentScripts := make(map[string]testutil.Script, len(scenario.Components))
	for _, cb := range scenario.Components {
		script, err := cb.Behavior.script()
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", cb.Node, err)
		}
		componentScripts[cb.Node] = script
	}

	factory := sequencer.FactoryFunc(func(_ context.Context, node *route.Node, _ route.State) (any, error) {
		return testutil.NewComponent(node.Component, h.log, componentScripts[node.Path()]), nil
	})

	resolver := sequencer.ResolverFunc(func(_, to route.State) ([]*route.Node, error) {
		nodes := route.NodesAlong(h.roots, to.Segments)
		if nodes == nil {
			return nil, fmt.Errorf("no route for %s", to.Path())
		}
		return nodes, nil
	})

	opts := []sequencer.Option{
		sequencer.WithJournal(h.journal),
		sequencer.WithResolver(resolver),
		sequencer.WithLogger(h.logger),
	}
	if scenario.MaxRedirects > 0 {
		opts = append(opts, sequencer.WithMaxRedirects(scenario.MaxRedirects))
	}
	h.seq = sequencer.New(factory, testutil.NewCountingGenerator("tok"), opts...)

	for _, ob := range scenario.Occupied {
		node := h.findNode(ob.Node)
		if node == nil {
			return nil, fmt.Errorf("occupied: no node at %s", ob.Node)
		}
		script, err := ob.Behavior.script()
		if err != nil {
			return nil, fmt.Errorf("occupied %s: %w", ob.Node, err)
		}
		h.seq.Occupy(node, testutil.NewComponent(node.Component, h.log, script))
	}

	return h, nil
}

func (h *Harness) runNavigation(ctx context.Context, i int, step NavStep, result *Result) error {
	from, err := route.ParseState(step.From)
	if err != nil {
		return fmt.Errorf("navigation %d: bad from %q: %w", i, step.From, err)
	}
	to, err := route.ParseState(step.To)
	if err != nil {
		return fmt.Errorf("navigation %d: bad to %q: %w", i, step.To, err)
	}

	affected, err := h.affectedNodes(step, to)
	if err != nil {
		return fmt.Errorf("navigation %d: %w", i, err)
	}

	out, navErr := h.seq.Attempt(ctx, sequencer.Request{From: from, To: to, Affected: affected})

	nav := NavResult{
		From:      step.From,
		To:        step.To,
		Outcome:   out.Kind.String(),
		Redirects: out.Redirects,
	}
	if navErr != nil {
		nav.Error = classifyError(navErr)
		nav.Fault = navErr.Error()
	}
	result.Navigations = append(result.Navigations, nav)

	if step.Expect != nil {
		h.checkExpect(i, step, out, navErr, result)
	}
	return nil
}

// affectedNodes resolves the navigation's node chain: the explicit
// affected list when given, otherwise the chain along the target.
func (h *Harness) affectedNodes(step NavStep, to route.State) ([]*route.Node, error) {
	if len(step.Affected) == 0 {
		nodes := route.NodesAlong(h.roots, to.Segments)
		if nodes == nil {
			return nil, fmt.Errorf("no route for %s", to.Path())
		}
		return nodes, nil
	}

	nodes := make([]*route.Node, len(step.Affected))
	for i, p := range step.Affected {
		n := h.findNode(p)
		if n == nil {
			return nil, fmt.Errorf("no node at %s", p)
		}
		nodes[i] = n
	}
	return nodes, nil
}

func (h *Harness) checkExpect(i int, step NavStep, out sequencer.Outcome, navErr error, result *Result) {
	expect := step.Expect

	if got := out.Kind.String(); got != expect.Outcome {
		result.AddError(fmt.Sprintf("navigation %d (%s -> %s): outcome = %s, want %s",
			i, step.From, step.To, got, expect.Outcome))
	}

	if expect.Target != "" {
		got := ""
		if out.Target != nil {
			got = out.Target.String()
		}
		if got != expect.Target {
			result.AddError(fmt.Sprintf("navigation %d (%s -> %s): redirect target = %q, want %q",
				i, step.From, step.To, got, expect.Target))
		}
	}

	switch expect.Error {
	case "":
	case "none":
		if navErr != nil {
			result.AddError(fmt.Sprintf("navigation %d (%s -> %s): unexpected error: %v",
				i, step.From, step.To, navErr))
		}
	default:
		if got := classifyError(navErr); got != expect.Error {
			result.AddError(fmt.Sprintf("navigation %d (%s -> %s): error class = %q, want %q",
				i, step.From, step.To, got, expect.Error))
		}
	}
}

// classifyError maps a sequencer error onto the scenario error taxonomy.
func classifyError(err error) string {
	switch {
	case err == nil:
		return ""
	case sequencer.IsHookFault(err):
		return "hook_fault"
	case sequencer.IsRedirectLoop(err):
		return "redirect_loop"
	default:
		return "other"
	}
}

// findNode walks the runtime tree by label path, e.g. "/crises/:id".
func (h *Harness) findNode(path string) *route.Node {
	return findNodeByLabels(h.roots, path)
}
