package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waygate/waygate/internal/route"
	"github.com/waygate/waygate/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	NavToken string
	Limit    int
}

// TraceAttempt is one attempt in the trace output.
type TraceAttempt struct {
	ID         string          `json:"id"`
	NavToken   string          `json:"nav_token"`
	From       string          `json:"from"`
	To         string          `json:"to"`
	Outcome    string          `json:"outcome"`
	RedirectTo string          `json:"redirect_to,omitempty"`
	Fault      string          `json:"fault,omitempty"`
	Seq        int64           `json:"seq"`
	HookCalls  []TraceHookCall `json:"hook_calls,omitempty"`
}

// TraceHookCall is one hook invocation in the trace output.
type TraceHookCall struct {
	Node      string `json:"node"`
	Component string `json:"component"`
	Hook      string `json:"hook"`
	Phase     string `json:"phase"`
	Decision  string `json:"decision"`
	Detail    string `json:"detail,omitempty"`
	Seq       int64  `json:"seq"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	NavToken string         `json:"nav_token,omitempty"`
	Attempts []TraceAttempt `json:"attempts"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect a persisted journal",
		Long: `Inspect the navigation journal in a SQLite database.

With --nav, shows every attempt of that navigation (each redirect hop
is its own attempt) together with its hook calls, in phase order.
Without --nav, lists the most recent attempts.

Examples:
  waygate trace --db ./waygate.db
  waygate trace --db ./waygate.db --nav 0192ad3e-55f1-7cca-8f09-74e6b2a310c7
  waygate trace --db ./waygate.db --nav tok-2 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.NavToken, "nav", "", "navigation token to trace")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "number of recent attempts to list without --nav")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	ctx := context.Background()

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if opts.NavToken == "" {
		return traceRecent(ctx, st, formatter, opts.Limit)
	}
	return traceNavigation(ctx, st, formatter, opts.NavToken)
}

// traceNavigation shows the attempts and hook calls of one navigation.
func traceNavigation(ctx context.Context, st *store.Store, formatter *OutputFormatter, navToken string) error {
	attempts, calls, err := st.ReadNavigation(ctx, navToken)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read navigation", err)
	}

	if len(attempts) == 0 {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("no attempts for navigation %q", navToken), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("navigation not found: %s", navToken))
	}

	result := TraceResult{NavToken: navToken, Attempts: convertAttempts(attempts, calls)}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Navigation %s: %d attempt(s)\n", navToken, len(result.Attempts))
	for i, a := range result.Attempts {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Attempt %d (seq %d): %s -> %s: %s", i+1, a.Seq, a.From, a.To, a.Outcome)
		if a.RedirectTo != "" {
			fmt.Fprintf(w, " -> %s", a.RedirectTo)
		}
		fmt.Fprintln(w)
		if a.Fault != "" {
			fmt.Fprintf(w, "  fault: %s\n", a.Fault)
		}
		for _, hc := range a.HookCalls {
			fmt.Fprintf(w, "  [%d] %-24s %s@%s (%s): %s", hc.Seq, hc.Phase, hc.Hook, hc.Component, hc.Node, hc.Decision)
			if hc.Detail != "" {
				fmt.Fprintf(w, " (%s)", hc.Detail)
			}
			fmt.Fprintln(w)
		}
	}
	return nil
}

// traceRecent lists recent attempts across all navigations.
func traceRecent(ctx context.Context, st *store.Store, formatter *OutputFormatter, limit int) error {
	attempts, err := st.RecentAttempts(ctx, limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list attempts", err)
	}

	result := TraceResult{Attempts: convertAttempts(attempts, nil)}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	if len(result.Attempts) == 0 {
		fmt.Fprintln(w, "No attempts recorded.")
		return nil
	}

	fmt.Fprintf(w, "%d recent attempt(s):\n", len(result.Attempts))
	for _, a := range result.Attempts {
		fmt.Fprintf(w, "  [%d] %s  %s -> %s: %s\n", a.Seq, a.NavToken, a.From, a.To, a.Outcome)
	}
	return nil
}

func convertAttempts(attempts []route.Attempt, calls []route.HookCall) []TraceAttempt {
	byAttempt := make(map[string][]TraceHookCall)
	for _, hc := range calls {
		byAttempt[hc.AttemptID] = append(byAttempt[hc.AttemptID], TraceHookCall{
			Node:      hc.NodePath,
			Component: hc.Component,
			Hook:      hc.Hook,
			Phase:     hc.Phase,
			Decision:  hc.Decision,
			Detail:    hc.Detail,
			Seq:       hc.Seq,
		})
	}

	out := make([]TraceAttempt, len(attempts))
	for i, a := range attempts {
		out[i] = TraceAttempt{
			ID:         a.ID,
			NavToken:   a.NavToken,
			From:       a.From.String(),
			To:         a.To.String(),
			Outcome:    a.Outcome,
			RedirectTo: a.RedirectTo,
			Fault:      a.Fault,
			Seq:        a.Seq,
			HookCalls:  byAttempt[a.ID],
		}
	}
	return out
}
