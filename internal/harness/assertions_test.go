package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waygate/waygate/internal/route"
	"github.com/waygate/waygate/internal/testutil"
)

func logOf(calls ...testutil.Call) *testutil.Log {
	log := testutil.NewLog()
	for _, c := range calls {
		log.Add(c)
	}
	return log
}

func TestAssertCallOrder_Correct(t *testing.T) {
	log := logOf(
		testutil.Call{Component: "CrisisDetail", Hook: "can_navigate"},
		testutil.Call{Component: "CrisisDetail", Hook: "on_deactivate"},
		testutil.Call{Component: "CrisisList", Hook: "on_activate"},
		testutil.Call{Component: "CrisisDetail", Hook: "on_activate"},
	)

	failures := EvaluateAssertions([]Assertion{
		{Type: AssertCallOrder, Calls: []string{
			"can_navigate@CrisisDetail",
			"on_activate@CrisisList",
			"on_activate@CrisisDetail",
		}},
	}, log, nil)

	assert.Empty(t, failures)
}

func TestAssertCallOrder_WrongOrder(t *testing.T) {
	log := logOf(
		testutil.Call{Component: "CrisisDetail", Hook: "on_activate"},
		testutil.Call{Component: "CrisisList", Hook: "on_activate"},
	)

	failures := EvaluateAssertions([]Assertion{
		{Type: AssertCallOrder, Calls: []string{
			"on_activate@CrisisList",
			"on_activate@CrisisDetail",
		}},
	}, log, nil)

	require.Len(t, failures, 1)
	assert.Contains(t, failures[0], "missing call: on_activate@CrisisDetail")
}

func TestAssertCallOrder_InterveningCallsAllowed(t *testing.T) {
	log := logOf(
		testutil.Call{Component: "CrisisList", Hook: "can_navigate"},
		testutil.Call{Component: "HeroList", Hook: "on_activate"},
		testutil.Call{Component: "CrisisList", Hook: "on_deactivate"},
	)

	failures := EvaluateAssertions([]Assertion{
		{Type: AssertCallOrder, Calls: []string{
			"can_navigate@CrisisList",
			"on_deactivate@CrisisList",
		}},
	}, log, nil)

	assert.Empty(t, failures)
}

func TestAssertCallCount(t *testing.T) {
	log := logOf(
		testutil.Call{Component: "CrisisList", Hook: "on_activate"},
		testutil.Call{Component: "CrisisDetail", Hook: "on_activate"},
		testutil.Call{Component: "CrisisDetail", Hook: "on_deactivate"},
	)

	failures := EvaluateAssertions([]Assertion{
		{Type: AssertCallCount, Hook: "on_activate", Count: 2},
		{Type: AssertCallCount, Hook: "can_navigate", Count: 0},
	}, log, nil)

	assert.Empty(t, failures)
}

func TestAssertCallCount_Mismatch(t *testing.T) {
	log := logOf(
		testutil.Call{Component: "CrisisList", Hook: "on_activate"},
	)

	failures := EvaluateAssertions([]Assertion{
		{Type: AssertCallCount, Hook: "on_activate", Count: 3},
	}, log, nil)

	require.Len(t, failures, 1)
	assert.Contains(t, failures[0], "on_activate fired 3 times")
	assert.Contains(t, failures[0], "fired 1 times")
}

func TestAssertOccupied(t *testing.T) {
	spec := &route.Spec{Roots: []*route.NodeSpec{
		{Path: "crises", Component: "CrisisList", Children: []*route.NodeSpec{
			{Path: ":id", Component: "CrisisDetail"},
		}},
	}}
	require.NoError(t, spec.Validate())
	roots := spec.Build()
	roots[0].Attach(struct{}{}, "inst-1")

	failures := EvaluateAssertions([]Assertion{
		{Type: AssertOccupied, Node: "/crises", Occupied: true},
		{Type: AssertOccupied, Node: "/crises/:id", Occupied: false},
	}, testutil.NewLog(), roots)

	assert.Empty(t, failures)
}

func TestAssertOccupied_Mismatch(t *testing.T) {
	spec := &route.Spec{Roots: []*route.NodeSpec{
		{Path: "heroes", Component: "HeroList"},
	}}
	require.NoError(t, spec.Validate())
	roots := spec.Build()

	failures := EvaluateAssertions([]Assertion{
		{Type: AssertOccupied, Node: "/heroes", Occupied: true},
	}, testutil.NewLog(), roots)

	require.Len(t, failures, 1)
	assert.Contains(t, failures[0], "occupied = false")
}

func TestAssertOccupied_UnknownNode(t *testing.T) {
	spec := &route.Spec{Roots: []*route.NodeSpec{
		{Path: "heroes", Component: "HeroList"},
	}}
	require.NoError(t, spec.Validate())
	roots := spec.Build()

	failures := EvaluateAssertions([]Assertion{
		{Type: AssertOccupied, Node: "/missing", Occupied: false},
	}, testutil.NewLog(), roots)

	require.Len(t, failures, 1)
	assert.Contains(t, failures[0], "no such node")
}

func TestAssertionError_ErrorFormat(t *testing.T) {
	err := &AssertionError{
		Type:     AssertCallOrder,
		Expected: "calls in order: [on_activate@HeroList]",
		Actual:   "missing call: on_activate@HeroList",
		Calls:    []string{"can_navigate@CrisisList"},
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: call_order")
	assert.Contains(t, msg, "Expected: calls in order")
	assert.Contains(t, msg, "Actual: missing call")
	assert.Contains(t, msg, "[1] can_navigate@CrisisList")
}

func TestEvaluateAssertions_UnknownType(t *testing.T) {
	failures := EvaluateAssertions([]Assertion{
		{Type: "bogus"},
	}, testutil.NewLog(), nil)

	require.Len(t, failures, 1)
	assert.Contains(t, failures[0], "unknown assertion type")
}
