package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The golden files under testdata/golden hold canonical journal snapshots.
// Tokens come from a counting generator and sequence numbers from a fresh
// clock, so the expected bytes are stable across runs. Regenerate with:
//
//	go test ./internal/harness -run TestGolden -update

func TestGolden_DenyBlocksExit(t *testing.T) {
	scenario := &Scenario{
		Name:        "deny-blocks-exit",
		Description: "A denying guard leaves both journal records in place",
		Routes:      crisisRoutes(),
		Occupied: []NodeBehavior{
			{Node: "/crises/:id", Behavior: Behavior{CanNavigate: "deny"}},
		},
		Navigations: []NavStep{
			{
				From:   "/crises/1",
				To:     "/crises/2",
				Expect: &ExpectClause{Outcome: "cancelled", Error: "none"},
			},
		},
	}

	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestGolden_RedirectChain(t *testing.T) {
	scenario := &Scenario{
		Name:        "redirect-chain",
		Description: "A redirecting guard journals both hops under one token",
		Routes:      crisisRoutes(),
		Occupied: []NodeBehavior{
			{Node: "/crises", Behavior: Behavior{CanNavigate: "redirect:/heroes"}},
		},
		Navigations: []NavStep{
			{
				From:     "/crises/1",
				To:       "/crises/2",
				Affected: []string{"/crises"},
				Expect:   &ExpectClause{Outcome: "proceed", Error: "none"},
			},
		},
	}

	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}
