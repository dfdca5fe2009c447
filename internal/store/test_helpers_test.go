package store

import (
	"path/filepath"
	"testing"

	"github.com/waygate/waygate/internal/route"
)

// createTestStore creates a store backed by a temp-dir database.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestAttempt creates an attempt record with minimal required fields.
func createTestAttempt(id, navToken, from, to, outcome string, seq int64) route.Attempt {
	return route.Attempt{
		ID:       id,
		NavToken: navToken,
		From:     route.MustParseState(from),
		To:       route.MustParseState(to),
		Outcome:  outcome,
		Seq:      seq,
	}
}

// createTestHookCall creates a hook call record with minimal required fields.
func createTestHookCall(id, attemptID, nodePath, hook, phase, decision string, seq int64) route.HookCall {
	return route.HookCall{
		ID:        id,
		AttemptID: attemptID,
		NodePath:  nodePath,
		Component: "CrisisDetail",
		Hook:      hook,
		Phase:     phase,
		Decision:  decision,
		Seq:       seq,
	}
}
