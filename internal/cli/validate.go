package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/groqtype/internal/compiler"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// ValidationResult is the JSON payload of the validate command.
type ValidationResult struct {
	Valid     bool                       `json:"valid"`
	Documents int                        `json:"documents"`
	Types     int                        `json:"types"`
	Errors    []compiler.ValidationError `json:"errors"`
	Warnings  []compiler.CycleWarning    `json:"warnings"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <schema>",
		Short: "Check a schema for dangling and duplicate names",
		Long: `Validate a schema without inferring anything.

Reports names that resolve to nothing, names declared twice, and type
aliases that only refer to each other. Alias cycles are warnings; the
evaluator reads them as unknown.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	loaded, err := LoadSchema(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	result := ValidationResult{
		Documents: len(loaded.Schema.Documents),
		Types:     len(loaded.Schema.Declarations),
		Errors:    compiler.ValidateSchema(loaded.Schema),
		Warnings:  compiler.AnalyzeCycles(loaded.Schema),
	}
	if result.Errors == nil {
		result.Errors = []compiler.ValidationError{}
	}
	result.Valid = len(result.Errors) == 0

	if formatter.Format == "json" {
		if err := formatter.encode(CLIResponse{Status: statusOf(result.Valid), Data: result}); err != nil {
			return err
		}
	} else {
		outputValidateText(formatter, result)
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("schema has %d error(s)", len(result.Errors)))
	}
	return nil
}

func outputValidateText(formatter *OutputFormatter, result ValidationResult) {
	w := formatter.Writer
	if result.Valid {
		fmt.Fprintf(w, "✓ Schema valid: %d document(s), %d type(s)\n", result.Documents, result.Types)
	} else {
		fmt.Fprintf(w, "✗ Schema invalid: %d error(s)\n\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  %s\n", e.Error())
		}
	}
	for _, warn := range result.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warn.Message)
	}
}

func statusOf(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
