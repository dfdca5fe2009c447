// Package store provides SQLite-backed durable storage for the navigation
// journal.
//
// The store is an append-only log with two tables:
//   - navigations: one row per navigation attempt (each redirect hop is its
//     own attempt, correlated by nav_token)
//   - hook_calls: one row per guard or lifecycle hook invocation
//
// # Critical Patterns
//
// CP-1: Content-Addressed IDs
//   - Row IDs come from route.AttemptID / route.HookCallID
//   - Re-inserting the same record is a no-op (ON CONFLICT DO NOTHING)
//
// CP-3: Logical Identity and Time
//   - All ordering uses seq INTEGER (logical clock), NEVER timestamps
//   - MaxSeq feeds sequencer.NewClockAt so numbering survives restarts
//
// CP-5: Deterministic Query Results
//   - All multi-row queries include: ORDER BY seq ASC, id ASC COLLATE BINARY
//   - Ensures identical results across runs
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Store implements sequencer.Journal, so a sequencer configured with
// WithJournal(store) journals straight to disk.
package store
