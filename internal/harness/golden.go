package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/waygate/waygate/internal/route"
	"github.com/waygate/waygate/internal/sequencer"
)

// Snapshot flattens a journal into a canonical JSON document.
//
// Content-addressed record IDs are omitted: they derive from the fields
// already present, and keeping them out lets a reader verify a golden file
// by hand. Everything else in the journal is logical and deterministic.
func Snapshot(name string, j *sequencer.MemoryJournal) ([]byte, error) {
	attempts := j.Attempts()
	attemptList := make([]any, len(attempts))
	for i, a := range attempts {
		attemptList[i] = map[string]any{
			"nav_token":   a.NavToken,
			"from":        a.From.String(),
			"to":          a.To.String(),
			"outcome":     a.Outcome,
			"redirect_to": a.RedirectTo,
			"fault":       a.Fault,
			"seq":         a.Seq,
		}
	}

	calls := j.HookCalls()
	callList := make([]any, len(calls))
	for i, hc := range calls {
		callList[i] = map[string]any{
			"node":      hc.NodePath,
			"component": hc.Component,
			"hook":      hc.Hook,
			"phase":     hc.Phase,
			"decision":  hc.Decision,
			"detail":    hc.Detail,
			"seq":       hc.Seq,
		}
	}

	return route.MarshalCanonical(map[string]any{
		"scenario":   name,
		"attempts":   attemptList,
		"hook_calls": callList,
	})
}

// RunWithGolden executes a scenario and compares the journal snapshot
// against a golden file in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	h, result, err := run(scenario)
	if err != nil {
		return nil, err
	}

	snapshot, err := Snapshot(scenario.Name, h.journal)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, snapshot)

	return result, nil
}
