package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/groqtype/internal/ast"
	"github.com/roach88/groqtype/internal/evaluator"
	"github.com/roach88/groqtype/internal/store"
	"github.com/roach88/groqtype/internal/typesys"
)

// InferOptions holds flags for the infer command.
type InferOptions struct {
	*RootOptions
	Cache           string // SQLite cache path, overrides config
	NoCache         bool
	MaxDepth        int
	MaxCombinations int
}

// InferenceResult is the JSON payload of the infer command.
type InferenceResult struct {
	Type       json.RawMessage `json:"type"`
	Rendered   string          `json:"rendered"`
	Hash       string          `json:"hash"`
	SchemaHash string          `json:"schema_hash"`
	Cached     bool            `json:"cached"`
}

// NewInferCommand creates the infer command.
func NewInferCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InferOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "infer <schema> <query>",
		Short: "Infer the result type of a query",
		Long: `Infer the static result type of a query tree against a schema.

The query is a YAML or JSON syntax tree. With a cache configured, results
are stored keyed by schema, query and evaluator limits, and reused on the
next run.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfer(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Cache, "cache", "", "inference cache database (overrides config)")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "do not read or write the cache")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "evaluator recursion limit (0 = config or default)")
	cmd.Flags().IntVar(&opts.MaxCombinations, "max-combinations", 0, "object literal variant limit (0 = config or default)")

	return cmd
}

func runInfer(opts *InferOptions, schemaPath, queryPath string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.Logger(cmd.ErrOrStderr())

	loaded, err := LoadSchema(schemaPath)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	query, err := LoadQuery(queryPath)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	evalOpts := opts.Config.EvaluatorOptions()
	evalOpts.Logger = logger
	if opts.MaxDepth > 0 {
		evalOpts.MaxDepth = opts.MaxDepth
	}
	if opts.MaxCombinations > 0 {
		evalOpts.MaxCombinations = opts.MaxCombinations
	}

	cachePath := opts.Config.Cache
	if opts.Cache != "" {
		cachePath = opts.Cache
	}
	if opts.NoCache {
		cachePath = ""
	}

	result, cached, err := infer(cmd, cachePath, loaded.Schema, query, evalOpts)
	if err != nil {
		return formatter.Fail(ExitCommandError, errorCode(err), err.Error(), nil)
	}

	data, err := typesys.MarshalJSON(result)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("encoding type: %v", err), nil)
	}
	out := InferenceResult{
		Type:       data,
		Rendered:   result.String(),
		Hash:       typesys.Hash(result),
		SchemaHash: loaded.Hash,
		Cached:     cached,
	}

	if formatter.Format == "json" {
		return formatter.Success(out)
	}
	fmt.Fprintln(formatter.Writer, out.Rendered)
	formatter.VerboseLog("type %s (schema %s, cached=%t)", shortHash(out.Hash), shortHash(out.SchemaHash), out.Cached)
	return nil
}

// inferError carries the CLI error code of a failed inference.
type inferError struct {
	code string
	err  error
}

func (e *inferError) Error() string { return e.err.Error() }
func (e *inferError) Unwrap() error { return e.err }

func errorCode(err error) string {
	var ie *inferError
	if errors.As(err, &ie) {
		return ie.code
	}
	return ErrCodeGeneric
}

// infer evaluates query directly when cachePath is empty, and through the
// SQLite cache otherwise.
func infer(cmd *cobra.Command, cachePath string, schema typesys.Schema, query ast.Node, opts evaluator.Options) (typesys.Type, bool, error) {
	if cachePath == "" {
		t, err := evaluator.New(schema, opts).EvaluateChecked(query)
		if err != nil {
			return nil, false, &inferError{code: ErrCodeEvaluate, err: err}
		}
		return t, false, nil
	}

	st, err := store.Open(cachePath)
	if err != nil {
		return nil, false, &inferError{code: ErrCodeCache, err: fmt.Errorf("opening cache: %w", err)}
	}
	defer st.Close()

	cache := store.NewCache(st, nil, opts.Logger)
	inf, hit, err := cache.Infer(cmd.Context(), schema, query, opts)
	if err != nil {
		code := ErrCodeCache
		if evaluator.IsUnhandledNode(err) {
			code = ErrCodeEvaluate
		}
		return nil, false, &inferError{code: code, err: err}
	}
	return inf.Result, hit, nil
}
