package store

import (
	"context"
	"fmt"

	"github.com/waygate/waygate/internal/route"
)

// ReadNavigation returns all attempts and hook calls for a navigation
// token, across redirect hops. Results are ordered per CP-5:
// ORDER BY seq ASC, id ASC COLLATE BINARY.
//
// Returns empty slices (not nil) if no records exist for the token.
func (s *Store) ReadNavigation(ctx context.Context, navToken string) ([]route.Attempt, []route.HookCall, error) {
	attempts, err := s.readAttempts(ctx, `
		SELECT id, nav_token, from_state, to_state, outcome, redirect_to, fault, seq
		FROM navigations
		WHERE nav_token = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, navToken)
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT hc.id, hc.attempt_id, hc.node_path, hc.component, hc.hook, hc.phase, hc.decision, hc.detail, hc.seq
		FROM hook_calls hc
		JOIN navigations n ON hc.attempt_id = n.id
		WHERE n.nav_token = ?
		ORDER BY hc.seq ASC, hc.id COLLATE BINARY ASC
	`, navToken)
	if err != nil {
		return nil, nil, fmt.Errorf("query hook calls: %w", err)
	}
	defer rows.Close()

	calls := []route.HookCall{}
	for rows.Next() {
		var hc route.HookCall
		if err := rows.Scan(&hc.ID, &hc.AttemptID, &hc.NodePath, &hc.Component, &hc.Hook, &hc.Phase, &hc.Decision, &hc.Detail, &hc.Seq); err != nil {
			return nil, nil, fmt.Errorf("scan hook call: %w", err)
		}
		calls = append(calls, hc)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate hook calls: %w", err)
	}

	return attempts, calls, nil
}

// ReadAttempt retrieves a single attempt by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadAttempt(ctx context.Context, id string) (route.Attempt, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, nav_token, from_state, to_state, outcome, redirect_to, fault, seq
		FROM navigations
		WHERE id = ?
	`, id)

	var (
		a                route.Attempt
		fromJSON, toJSON string
	)
	if err := row.Scan(&a.ID, &a.NavToken, &fromJSON, &toJSON, &a.Outcome, &a.RedirectTo, &a.Fault, &a.Seq); err != nil {
		return route.Attempt{}, err
	}
	return unmarshalAttemptStates(a, fromJSON, toJSON)
}

// ReadAttemptHookCalls returns the hook calls of one attempt in seq order.
func (s *Store) ReadAttemptHookCalls(ctx context.Context, attemptID string) ([]route.HookCall, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, attempt_id, node_path, component, hook, phase, decision, detail, seq
		FROM hook_calls
		WHERE attempt_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, attemptID)
	if err != nil {
		return nil, fmt.Errorf("query hook calls: %w", err)
	}
	defer rows.Close()

	calls := []route.HookCall{}
	for rows.Next() {
		var hc route.HookCall
		if err := rows.Scan(&hc.ID, &hc.AttemptID, &hc.NodePath, &hc.Component, &hc.Hook, &hc.Phase, &hc.Decision, &hc.Detail, &hc.Seq); err != nil {
			return nil, fmt.Errorf("scan hook call: %w", err)
		}
		calls = append(calls, hc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hook calls: %w", err)
	}

	return calls, nil
}

// RecentAttempts returns the latest n attempts by seq, newest first.
// Used by the CLI trace command.
func (s *Store) RecentAttempts(ctx context.Context, n int) ([]route.Attempt, error) {
	return s.readAttempts(ctx, `
		SELECT id, nav_token, from_state, to_state, outcome, redirect_to, fault, seq
		FROM navigations
		ORDER BY seq DESC, id COLLATE BINARY DESC
		LIMIT ?
	`, n)
}

// MaxSeq returns the highest seq value in the journal, 0 when empty.
// Feed it to sequencer.NewClockAt to continue numbering after a restart.
func (s *Store) MaxSeq(ctx context.Context) (int64, error) {
	var maxSeq int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM (
			SELECT seq FROM navigations
			UNION ALL
			SELECT seq FROM hook_calls
		)
	`).Scan(&maxSeq)
	if err != nil {
		return 0, fmt.Errorf("max seq: %w", err)
	}
	return maxSeq, nil
}

func (s *Store) readAttempts(ctx context.Context, query string, args ...any) ([]route.Attempt, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	attempts := []route.Attempt{}
	for rows.Next() {
		var (
			a                route.Attempt
			fromJSON, toJSON string
		)
		if err := rows.Scan(&a.ID, &a.NavToken, &fromJSON, &toJSON, &a.Outcome, &a.RedirectTo, &a.Fault, &a.Seq); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a, err = unmarshalAttemptStates(a, fromJSON, toJSON)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}

	return attempts, nil
}

func unmarshalAttemptStates(a route.Attempt, fromJSON, toJSON string) (route.Attempt, error) {
	from, err := unmarshalState(fromJSON)
	if err != nil {
		return route.Attempt{}, fmt.Errorf("attempt %s: %w", a.ID, err)
	}
	to, err := unmarshalState(toJSON)
	if err != nil {
		return route.Attempt{}, fmt.Errorf("attempt %s: %w", a.ID, err)
	}
	a.From, a.To = from, to
	return a, nil
}
