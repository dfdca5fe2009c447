package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/waygate/waygate/internal/route"
	"github.com/waygate/waygate/internal/routecfg"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid        bool   `json:"valid"`
	Nodes        int    `json:"nodes,omitempty"`
	MaxRedirects int    `json:"max_redirects,omitempty"`
	Field        string `json:"field,omitempty"`
	Message      string `json:"message,omitempty"`
	Line         int    `json:"line,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config.cue>",
		Short: "Validate a route configuration",
		Long: `Validate a CUE route configuration without running anything.

Checks syntax, required fields, duplicate sibling paths and the
redirect limit, then reports the compiled tree.

Examples:
  waygate validate ./routes.cue
  waygate validate ./routes.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	cfg, err := routecfg.LoadFile(path)
	if err != nil {
		return outputValidateFailure(formatter, err)
	}

	nodes := countNodes(cfg.Spec.Roots)
	formatter.VerboseLog("Compiled %d node(s) from %s", nodes, path)

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{
			Valid:        true,
			Nodes:        nodes,
			MaxRedirects: cfg.MaxRedirects,
		})
	}

	w := formatter.Writer
	fmt.Fprintln(w, "✓ Configuration valid")
	fmt.Fprintf(w, "  %d node(s), max %d redirect(s)\n", nodes, cfg.MaxRedirects)
	printTree(w, cfg.Spec.Roots, "  ")
	return nil
}

func outputValidateFailure(formatter *OutputFormatter, err error) error {
	result := ValidationResult{Valid: false, Message: err.Error()}

	var compileErr *routecfg.CompileError
	if errors.As(err, &compileErr) {
		result.Field = compileErr.Field
		result.Message = compileErr.Message
		if compileErr.Pos.IsValid() {
			result.Line = compileErr.Pos.Line()
		}
	}

	if formatter.Format == "json" {
		_ = formatter.Error(ErrCodeConfig, result.Message, result)
		return NewExitError(ExitFailure, "validation failed")
	}

	w := formatter.Writer
	fmt.Fprintln(w, "✗ Validation failed")
	if result.Line > 0 {
		fmt.Fprintf(w, "  line %d\n", result.Line)
	}
	if result.Field != "" {
		fmt.Fprintf(w, "  %s: %s\n", result.Field, result.Message)
	} else {
		fmt.Fprintf(w, "  %s\n", result.Message)
	}
	return NewExitError(ExitFailure, "validation failed")
}

func countNodes(specs []*route.NodeSpec) int {
	n := len(specs)
	for _, ns := range specs {
		n += countNodes(ns.Children)
	}
	return n
}

// printTree renders the compiled route tree, one node per line.
func printTree(w io.Writer, specs []*route.NodeSpec, indent string) {
	for _, ns := range specs {
		fmt.Fprintf(w, "%s/%s  (%s)\n", indent, ns.Path, ns.Component)
		printTree(w, ns.Children, indent+"  ")
	}
}
