package store

import (
	"context"
	"fmt"

	"github.com/waygate/waygate/internal/route"
)

// WriteAttempt inserts a navigation attempt record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - attempt IDs are
// content-addressed, so re-writing the same attempt is a no-op. Other
// constraint violations (e.g., NOT NULL) still return errors.
//
// Implements sequencer.Journal.
func (s *Store) WriteAttempt(ctx context.Context, a route.Attempt) error {
	fromJSON, err := marshalState(a.From)
	if err != nil {
		return fmt.Errorf("write attempt: %w", err)
	}
	toJSON, err := marshalState(a.To)
	if err != nil {
		return fmt.Errorf("write attempt: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO navigations
		(id, nav_token, from_state, to_state, outcome, redirect_to, fault, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		a.ID,
		a.NavToken,
		fromJSON,
		toJSON,
		a.Outcome,
		a.RedirectTo,
		a.Fault,
		a.Seq,
	)
	if err != nil {
		return fmt.Errorf("write attempt: %w", err)
	}

	return nil
}

// WriteHookCall inserts a hook call record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency. Hook calls are written
// while their attempt is still in flight; the attempt row lands afterwards.
//
// Implements sequencer.Journal.
func (s *Store) WriteHookCall(ctx context.Context, hc route.HookCall) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO hook_calls
		(id, attempt_id, node_path, component, hook, phase, decision, detail, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		hc.ID,
		hc.AttemptID,
		hc.NodePath,
		hc.Component,
		hc.Hook,
		hc.Phase,
		hc.Decision,
		hc.Detail,
		hc.Seq,
	)
	if err != nil {
		return fmt.Errorf("write hook call: %w", err)
	}

	return nil
}

// WriteNavigation atomically writes an attempt and all of its hook calls in
// a single transaction. Used when copying an in-memory journal into durable
// storage: either the whole attempt lands or none of it does.
func (s *Store) WriteNavigation(ctx context.Context, a route.Attempt, calls []route.HookCall) error {
	fromJSON, err := marshalState(a.From)
	if err != nil {
		return fmt.Errorf("write navigation: %w", err)
	}
	toJSON, err := marshalState(a.To)
	if err != nil {
		return fmt.Errorf("write navigation: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write navigation: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO navigations
		(id, nav_token, from_state, to_state, outcome, redirect_to, fault, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		a.ID, a.NavToken, fromJSON, toJSON, a.Outcome, a.RedirectTo, a.Fault, a.Seq,
	)
	if err != nil {
		return fmt.Errorf("write navigation: insert attempt: %w", err)
	}

	for _, hc := range calls {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO hook_calls
			(id, attempt_id, node_path, component, hook, phase, decision, detail, seq)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING
		`,
			hc.ID, hc.AttemptID, hc.NodePath, hc.Component, hc.Hook, hc.Phase, hc.Decision, hc.Detail, hc.Seq,
		)
		if err != nil {
			return fmt.Errorf("write navigation: insert hook call: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write navigation: commit: %w", err)
	}

	return nil
}
