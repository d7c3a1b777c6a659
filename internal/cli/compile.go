package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/groqtype/internal/typesys"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompilationResult is the JSON payload of a successful compile.
type CompilationResult struct {
	Hash   string          `json:"hash"`
	Schema json.RawMessage `json:"schema"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <schema>",
		Short: "Compile a CUE schema to the canonical schema document",
		Long: `Compile a CUE schema package or file into the canonical JSON schema
document read by infer and check. YAML and JSON schema documents are
normalized the same way.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	loaded, err := LoadSchema(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	formatter.VerboseLog("Loaded %d file(s) from %s", loaded.FileCount, path)

	data, err := typesys.MarshalSchemaJSON(loaded.Schema)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("encoding schema: %v", err), nil)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, append(data, '\n'), 0644); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(CompilationResult{Hash: loaded.Hash, Schema: data})
	}

	if opts.Output == "" {
		fmt.Fprintln(formatter.Writer, string(data))
		return nil
	}
	fmt.Fprintf(formatter.Writer, "✓ Compiled %d document(s), %d type(s)\n",
		len(loaded.Schema.Documents), len(loaded.Schema.Declarations))
	fmt.Fprintf(formatter.Writer, "Wrote schema %s to %s\n", shortHash(loaded.Hash), opts.Output)
	return nil
}

// outputLoadError reports a loader failure. Load failures are command-level
// errors (exit code 2).
func outputLoadError(formatter *OutputFormatter, err error) error {
	code, message := ErrCodeGeneric, err.Error()
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		code, message = loadErr.Code, loadErr.Message
		if loadErr.Pos.IsValid() && formatter.Format != "json" {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
				loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column())
		}
	}
	return formatter.Fail(ExitCommandError, code, message, nil)
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
