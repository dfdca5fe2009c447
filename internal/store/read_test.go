package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/waygate/waygate/internal/route"
)

func TestReadNavigation_OrdersBySeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// Insert out of order; reads must come back in seq order.
	attempts := []route.Attempt{
		createTestAttempt("att-b", "nav-1", "/login", "/heroes", "proceed", 7),
		createTestAttempt("att-a", "nav-1", "/crises", "/login", "redirect", 1),
	}
	for _, a := range attempts {
		if err := s.WriteAttempt(ctx, a); err != nil {
			t.Fatalf("WriteAttempt() failed: %v", err)
		}
	}
	calls := []route.HookCall{
		createTestHookCall("hc-2", "att-b", "/heroes", route.HookOnActivate, route.PhaseActivation, route.DecisionOK, 8),
		createTestHookCall("hc-1", "att-a", "/crises", route.HookCanNavigate, route.PhaseDeactivationPermission, route.DecisionRedirect, 2),
	}
	for _, hc := range calls {
		if err := s.WriteHookCall(ctx, hc); err != nil {
			t.Fatalf("WriteHookCall() failed: %v", err)
		}
	}

	gotAttempts, gotCalls, err := s.ReadNavigation(ctx, "nav-1")
	if err != nil {
		t.Fatalf("ReadNavigation() failed: %v", err)
	}

	if len(gotAttempts) != 2 {
		t.Fatalf("attempts = %d, want 2", len(gotAttempts))
	}
	if gotAttempts[0].ID != "att-a" || gotAttempts[1].ID != "att-b" {
		t.Errorf("attempt order = [%s, %s], want [att-a, att-b]", gotAttempts[0].ID, gotAttempts[1].ID)
	}

	if len(gotCalls) != 2 {
		t.Fatalf("hook calls = %d, want 2", len(gotCalls))
	}
	if gotCalls[0].ID != "hc-1" || gotCalls[1].ID != "hc-2" {
		t.Errorf("hook call order = [%s, %s], want [hc-1, hc-2]", gotCalls[0].ID, gotCalls[1].ID)
	}
}

func TestReadNavigation_EmptyResult(t *testing.T) {
	s := createTestStore(t)

	attempts, calls, err := s.ReadNavigation(context.Background(), "nav-missing")
	if err != nil {
		t.Fatalf("ReadNavigation() failed: %v", err)
	}
	if attempts == nil || calls == nil {
		t.Error("expected empty slices, got nil")
	}
	if len(attempts) != 0 || len(calls) != 0 {
		t.Errorf("attempts = %d, calls = %d, want 0 and 0", len(attempts), len(calls))
	}
}

func TestReadAttempt_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	a := route.Attempt{
		ID:         "att-1",
		NavToken:   "nav-1",
		From:       route.MustParseState("/crises/1?edit=1").WithParams(map[string]string{"id": "1"}),
		To:         route.MustParseState("/login"),
		Outcome:    "redirect",
		RedirectTo: "/login",
		Seq:        1,
	}
	if err := s.WriteAttempt(ctx, a); err != nil {
		t.Fatalf("WriteAttempt() failed: %v", err)
	}

	got, err := s.ReadAttempt(ctx, "att-1")
	if err != nil {
		t.Fatalf("ReadAttempt() failed: %v", err)
	}

	if got.NavToken != a.NavToken {
		t.Errorf("nav_token = %q, want %q", got.NavToken, a.NavToken)
	}
	if got.RedirectTo != "/login" {
		t.Errorf("redirect_to = %q, want %q", got.RedirectTo, "/login")
	}
	if got.From.String() != "/crises/1?edit=1" {
		t.Errorf("from = %q, want %q", got.From.String(), "/crises/1?edit=1")
	}
	if got.From.Params["id"] != "1" {
		t.Errorf("from params = %v, want id=1", got.From.Params)
	}
	if !got.To.Equal(a.To) {
		t.Errorf("to = %v, want %v", got.To, a.To)
	}
}

func TestReadAttempt_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadAttempt(context.Background(), "att-missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestReadAttemptHookCalls(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, hc := range []route.HookCall{
		createTestHookCall("hc-2", "att-1", "/crises", route.HookOnActivate, route.PhaseActivation, route.DecisionOK, 5),
		createTestHookCall("hc-1", "att-1", "/crises/:id", route.HookOnDeactivate, route.PhaseDeactivation, route.DecisionOK, 3),
		createTestHookCall("hc-3", "att-other", "/heroes", route.HookOnActivate, route.PhaseActivation, route.DecisionOK, 4),
	} {
		if err := s.WriteHookCall(ctx, hc); err != nil {
			t.Fatalf("WriteHookCall() failed: %v", err)
		}
	}

	calls, err := s.ReadAttemptHookCalls(ctx, "att-1")
	if err != nil {
		t.Fatalf("ReadAttemptHookCalls() failed: %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("hook calls = %d, want 2", len(calls))
	}
	if calls[0].ID != "hc-1" || calls[1].ID != "hc-2" {
		t.Errorf("order = [%s, %s], want [hc-1, hc-2]", calls[0].ID, calls[1].ID)
	}
}

func TestRecentAttempts(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for i, id := range []string{"att-1", "att-2", "att-3"} {
		a := createTestAttempt(id, "nav-"+id, "/crises", "/heroes", "proceed", int64(i+1))
		if err := s.WriteAttempt(ctx, a); err != nil {
			t.Fatalf("WriteAttempt() failed: %v", err)
		}
	}

	recent, err := s.RecentAttempts(ctx, 2)
	if err != nil {
		t.Fatalf("RecentAttempts() failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("attempts = %d, want 2", len(recent))
	}
	if recent[0].ID != "att-3" || recent[1].ID != "att-2" {
		t.Errorf("order = [%s, %s], want [att-3, att-2]", recent[0].ID, recent[1].ID)
	}
}

func TestMaxSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	got, err := s.MaxSeq(ctx)
	if err != nil {
		t.Fatalf("MaxSeq() on empty store failed: %v", err)
	}
	if got != 0 {
		t.Errorf("MaxSeq() = %d, want 0", got)
	}

	if err := s.WriteAttempt(ctx, createTestAttempt("att-1", "nav-1", "/crises", "/heroes", "proceed", 4)); err != nil {
		t.Fatalf("WriteAttempt() failed: %v", err)
	}
	if err := s.WriteHookCall(ctx, createTestHookCall("hc-1", "att-1", "/heroes", route.HookOnActivate, route.PhaseActivation, route.DecisionOK, 9)); err != nil {
		t.Fatalf("WriteHookCall() failed: %v", err)
	}

	got, err = s.MaxSeq(ctx)
	if err != nil {
		t.Fatalf("MaxSeq() failed: %v", err)
	}
	if got != 9 {
		t.Errorf("MaxSeq() = %d, want 9", got)
	}
}
