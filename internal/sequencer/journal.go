package sequencer

import (
	"context"
	"sync"

	"github.com/waygate/waygate/internal/route"
)

// MemoryJournal is an in-memory Journal for tests and harness traces.
// Records are kept in write order, which equals seq order under the
// sequencer's single-writer discipline.
//
// Thread-safety: safe for concurrent use via internal mutex.
type MemoryJournal struct {
	mu       sync.Mutex
	attempts []route.Attempt
	hooks    []route.HookCall
}

// NewMemoryJournal creates an empty journal.
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

// WriteAttempt implements Journal.
func (j *MemoryJournal) WriteAttempt(_ context.Context, a route.Attempt) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.attempts = append(j.attempts, a)
	return nil
}

// WriteHookCall implements Journal.
func (j *MemoryJournal) WriteHookCall(_ context.Context, hc route.HookCall) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.hooks = append(j.hooks, hc)
	return nil
}

// Attempts returns a copy of the recorded attempts in write order.
func (j *MemoryJournal) Attempts() []route.Attempt {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]route.Attempt, len(j.attempts))
	copy(out, j.attempts)
	return out
}

// HookCalls returns a copy of the recorded hook calls in write order.
func (j *MemoryJournal) HookCalls() []route.HookCall {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]route.HookCall, len(j.hooks))
	copy(out, j.hooks)
	return out
}

// Reset clears all records.
func (j *MemoryJournal) Reset() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.attempts = nil
	j.hooks = nil
}
