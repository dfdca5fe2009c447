package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waygate/waygate/internal/harness"
	"github.com/waygate/waygate/internal/route"
	"github.com/waygate/waygate/internal/store"
)

// NavOptions holds flags for the nav command.
type NavOptions struct {
	*RootOptions
	Database string
}

// NavReport is the per-navigation summary emitted by the nav command.
type NavReport struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Outcome   string `json:"outcome"`
	Redirects int    `json:"redirects,omitempty"`
	Error     string `json:"error,omitempty"`
}

// NavRunResult holds the full nav command output.
type NavRunResult struct {
	Scenario    string      `json:"scenario"`
	Navigations []NavReport `json:"navigations"`
	Attempts    int         `json:"attempts"`
	HookCalls   int         `json:"hook_calls"`
	Database    string      `json:"database,omitempty"`
}

// NewNavCommand creates the nav command.
func NewNavCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NavOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "nav <scenario.yaml>",
		Short: "Run a scenario and persist its journal",
		Long: `Run one navigation scenario through the sequencer and write the
attempt journal to a SQLite database.

The persisted journal can be inspected afterwards with the trace
command. Without --db the journal is discarded after the run.

Examples:
  waygate nav ./scenarios/guarded-exit.yaml
  waygate nav ./scenarios/guarded-exit.yaml --db ./waygate.db
  waygate nav ./scenarios/guarded-exit.yaml --db ./waygate.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNav(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database for the journal")

	return cmd
}

func runNav(opts *NavOptions, scenarioFile string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	scenario, err := harness.LoadScenario(scenarioFile)
	if err != nil {
		_ = formatter.Error(ErrCodeScenario, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	result, journal, err := harness.RunRecorded(scenario)
	if err != nil {
		_ = formatter.Error(ErrCodeScenario, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to run scenario", err)
	}

	attempts := journal.Attempts()
	calls := journal.HookCalls()

	if opts.Database != "" {
		if err := persistJournal(opts.Database, attempts, calls); err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to persist journal", err)
		}
		formatter.VerboseLog("Wrote %d attempt(s), %d hook call(s) to %s",
			len(attempts), len(calls), opts.Database)
	}

	out := NavRunResult{
		Scenario:  scenario.Name,
		Attempts:  len(attempts),
		HookCalls: len(calls),
		Database:  opts.Database,
	}
	for _, nav := range result.Navigations {
		out.Navigations = append(out.Navigations, NavReport{
			From:      nav.From,
			To:        nav.To,
			Outcome:   nav.Outcome,
			Redirects: nav.Redirects,
			Error:     nav.Error,
		})
	}

	if formatter.Format == "json" {
		if err := formatter.Success(out); err != nil {
			return err
		}
	} else {
		w := formatter.Writer
		fmt.Fprintf(w, "Scenario: %s\n", scenario.Name)
		for _, nav := range out.Navigations {
			mark := "✓"
			if nav.Outcome != "proceed" {
				mark = "✗"
			}
			fmt.Fprintf(w, "%s %s -> %s: %s", mark, nav.From, nav.To, nav.Outcome)
			if nav.Redirects > 0 {
				fmt.Fprintf(w, " (%d redirect(s))", nav.Redirects)
			}
			if nav.Error != "" {
				fmt.Fprintf(w, " [%s]", nav.Error)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%d attempt(s), %d hook call(s) journaled\n", len(attempts), len(calls))
	}

	if !result.Pass {
		for _, e := range result.Errors {
			fmt.Fprintf(formatter.Writer, "  %s\n", e)
		}
		return NewExitError(ExitFailure, "scenario failed")
	}
	return nil
}

// persistJournal writes the recorded journal into a SQLite store, one
// transaction per attempt with its hook calls.
func persistJournal(path string, attempts []route.Attempt, calls []route.HookCall) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	byAttempt := make(map[string][]route.HookCall, len(attempts))
	for _, hc := range calls {
		byAttempt[hc.AttemptID] = append(byAttempt[hc.AttemptID], hc)
	}

	ctx := context.Background()
	for _, a := range attempts {
		if err := st.WriteNavigation(ctx, a, byAttempt[a.ID]); err != nil {
			return err
		}
	}
	return nil
}
