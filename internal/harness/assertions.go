package harness

import (
	"fmt"
	"strings"

	"github.com/waygate/waygate/internal/route"
	"github.com/waygate/waygate/internal/testutil"
)

// AssertionError is returned when an assertion fails.
// It includes the full call log to help debug the failure.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Calls    []string // Full hook call log for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nHook calls:\n")
	for i, call := range e.Calls {
		fmt.Fprintf(&buf, "  [%d] %s\n", i+1, call)
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion and returns the failure
// messages. An empty slice means all assertions held.
func EvaluateAssertions(assertions []Assertion, log *testutil.Log, roots []*route.Node) []string {
	var failures []string
	for _, a := range assertions {
		var err error
		switch a.Type {
		case AssertCallOrder:
			err = assertCallOrder(log.Calls(), a)
		case AssertCallCount:
			err = assertCallCount(log.Calls(), a)
		case AssertOccupied:
			err = assertOccupied(roots, a)
		default:
			err = fmt.Errorf("unknown assertion type: %q", a.Type)
		}
		if err != nil {
			failures = append(failures, err.Error())
		}
	}
	return failures
}

// callLabel is the "hook@Component" spelling used in assertions, without
// the state arguments.
func callLabel(c testutil.Call) string {
	return c.Hook + "@" + c.Component
}

func callLabels(calls []testutil.Call) []string {
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = callLabel(c)
	}
	return out
}

// assertCallOrder checks that the expected calls appear in order.
// Intervening calls are allowed.
func assertCallOrder(calls []testutil.Call, assertion Assertion) error {
	next := 0
	for _, c := range calls {
		if next < len(assertion.Calls) && callLabel(c) == assertion.Calls[next] {
			next++
		}
	}
	if next < len(assertion.Calls) {
		return &AssertionError{
			Type:     AssertCallOrder,
			Expected: fmt.Sprintf("calls in order: %v", assertion.Calls),
			Actual:   fmt.Sprintf("missing call: %s", assertion.Calls[next]),
			Calls:    callLabels(calls),
		}
	}
	return nil
}

// assertCallCount checks that a hook fired exactly Count times, across all
// components.
func assertCallCount(calls []testutil.Call, assertion Assertion) error {
	count := 0
	for _, c := range calls {
		if c.Hook == assertion.Hook {
			count++
		}
	}
	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertCallCount,
			Expected: fmt.Sprintf("%s fired %d times", assertion.Hook, assertion.Count),
			Actual:   fmt.Sprintf("fired %d times", count),
			Calls:    callLabels(calls),
		}
	}
	return nil
}

// assertOccupied checks a node's final occupancy.
func assertOccupied(roots []*route.Node, assertion Assertion) error {
	node := findNodeByLabels(roots, assertion.Node)
	if node == nil {
		return &AssertionError{
			Type:     AssertOccupied,
			Expected: fmt.Sprintf("node %s exists", assertion.Node),
			Actual:   "no such node",
		}
	}
	if node.Occupied() != assertion.Occupied {
		return &AssertionError{
			Type:     AssertOccupied,
			Expected: fmt.Sprintf("node %s occupied = %t", assertion.Node, assertion.Occupied),
			Actual:   fmt.Sprintf("occupied = %t", node.Occupied()),
		}
	}
	return nil
}

func findNodeByLabels(roots []*route.Node, path string) *route.Node {
	labels := strings.Split(strings.TrimPrefix(path, "/"), "/")
	candidates := roots
	var found *route.Node
	for _, label := range labels {
		found = nil
		for _, n := range candidates {
			if n.Label == label {
				found = n
				break
			}
		}
		if found == nil {
			return nil
		}
		candidates = found.Children
	}
	return found
}
