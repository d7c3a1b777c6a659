package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/groqtype/internal/compiler"
	"github.com/roach88/groqtype/internal/conformance"
	"github.com/roach88/groqtype/internal/evaluator"
	"github.com/roach88/groqtype/internal/store"
	"github.com/roach88/groqtype/internal/testutil"
	"github.com/roach88/groqtype/internal/typesys"
)

// Harness executes one scenario.
type Harness struct {
	store   *store.Store
	cache   *store.Cache
	clock   *testutil.DeterministicClock
	logger  *slog.Logger
	schema  typesys.Schema
	checker *conformance.Checker
	opts    evaluator.Options
}

// Run executes a scenario with logging discarded.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario, nil)
}

// RunContext executes a test scenario and returns the result.
//
// Each scenario runs against a fresh in-memory store. Execution flow:
//  1. Load and validate the schema
//  2. Infer every query through the store
//  3. Evaluate assertions against the inferred types
//
// An error means the scenario could not run; failed assertions are
// reported in the Result.
func RunContext(ctx context.Context, scenario *Scenario, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	}
	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	schema, err := LoadSchema(scenario.Schema)
	if err != nil {
		return nil, err
	}
	if problems := compiler.ValidateSchema(schema); len(problems) > 0 {
		msgs := make([]string, len(problems))
		for i, p := range problems {
			msgs[i] = p.Error()
		}
		return nil, fmt.Errorf("schema %s is invalid: %s", scenario.Schema, strings.Join(msgs, "; "))
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	clock := testutil.NewDeterministicClock()
	checker := conformance.NewChecker(schema)
	checker.RequireOptional = scenario.Options.RequireOptional

	h := &Harness{
		store:   st,
		cache:   store.NewCache(st, clock, logger),
		clock:   clock,
		logger:  logger,
		schema:  schema,
		checker: checker,
		opts: evaluator.Options{
			Logger:          logger,
			MaxDepth:        scenario.Options.MaxDepth,
			MaxCombinations: scenario.Options.MaxCombinations,
		},
	}

	result := NewResult()
	for _, w := range compiler.AnalyzeCycles(schema) {
		result.Warnings = append(result.Warnings, w.Message)
	}

	types := make(map[string]typesys.Type, len(scenario.Queries))
	for _, q := range scenario.Queries {
		inf, _, err := h.cache.Infer(ctx, h.schema, q.Node, h.opts)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", q.Name, err)
		}
		types[q.Name] = inf.Result
		result.Types = append(result.Types, InferredType{
			Query: q.Name,
			Type:  inf.Result.String(),
			Hash:  inf.ResultHash,
			Seq:   inf.Seq,
		})
		h.logger.Debug("inferred", "scenario", scenario.Name, "query", q.Name, "type", inf.Result.String())
	}

	for _, msg := range EvaluateAssertions(types, scenario.Assertions, h.checker) {
		result.AddError(msg)
	}

	return result, nil
}

// LoadSchema reads a schema file. CUE sources go through the compiler; YAML
// and JSON use the schema document format.
func LoadSchema(path string) (typesys.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return typesys.Schema{}, fmt.Errorf("failed to read schema file: %w", err)
	}

	switch filepath.Ext(path) {
	case ".cue":
		return compiler.CompileSchemaSource(data, path)
	case ".yaml", ".yml", ".json":
		s, err := typesys.ParseSchema(data)
		if err != nil {
			return typesys.Schema{}, fmt.Errorf("%s: %w", path, err)
		}
		return s, nil
	default:
		return typesys.Schema{}, fmt.Errorf("unsupported schema file %s: want .cue, .yaml, .yml or .json", path)
	}
}
