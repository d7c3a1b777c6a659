package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/groqtype/internal/conformance"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	RequireOptional bool
}

// CheckResult is the JSON payload of the check command.
type CheckResult struct {
	Conforms   bool     `json:"conforms"`
	Type       string   `json:"type"`
	Mismatches []string `json:"mismatches"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <schema> <query> <result>",
		Short: "Check an actual query result against the inferred type",
		Long: `Infer the type of a query and check that a concrete result value,
for example one returned by a GROQ engine, conforms to it.

Exit codes:
  0 - The value conforms
  1 - The value does not conform
  2 - Command error (invalid paths, malformed input, etc.)`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], args[1], args[2], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.RequireOptional, "require-optional", false, "optional attributes must be present")

	return cmd
}

func runCheck(opts *CheckOptions, schemaPath, queryPath, resultPath string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	loaded, err := LoadSchema(schemaPath)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	query, err := LoadQuery(queryPath)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	actual, err := LoadValue(resultPath)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	evalOpts := opts.Config.EvaluatorOptions()
	evalOpts.Logger = opts.Logger(cmd.ErrOrStderr())
	t, _, err := infer(cmd, "", loaded.Schema, query, evalOpts)
	if err != nil {
		return formatter.Fail(ExitCommandError, errorCode(err), err.Error(), nil)
	}

	checker := conformance.NewChecker(loaded.Schema)
	checker.RequireOptional = opts.RequireOptional || opts.Config.RequireOptional
	mismatches := checker.Check(t, actual)

	result := CheckResult{
		Conforms:   len(mismatches) == 0,
		Type:       t.String(),
		Mismatches: make([]string, len(mismatches)),
	}
	for i, m := range mismatches {
		result.Mismatches[i] = m.String()
	}

	if formatter.Format == "json" {
		response := CLIResponse{Status: statusOf(result.Conforms), Data: result}
		if !result.Conforms {
			response.Error = &CLIError{
				Code:    ErrCodeNoConform,
				Message: fmt.Sprintf("%d mismatch(es)", len(mismatches)),
			}
		}
		if err := formatter.encode(response); err != nil {
			return err
		}
	} else {
		w := formatter.Writer
		if result.Conforms {
			fmt.Fprintf(w, "✓ Value conforms to %s\n", result.Type)
		} else {
			fmt.Fprintf(w, "✗ Value does not conform to %s\n\n", result.Type)
			for _, m := range result.Mismatches {
				fmt.Fprintf(w, "  %s\n", m)
			}
		}
	}

	if !result.Conforms {
		return NewExitError(ExitFailure, fmt.Sprintf("value does not conform: %d mismatch(es)", len(mismatches)))
	}
	return nil
}
