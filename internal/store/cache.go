package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/groqtype/internal/ast"
	"github.com/roach88/groqtype/internal/evaluator"
	"github.com/roach88/groqtype/internal/typesys"
	"github.com/roach88/groqtype/internal/value"
)

// Clock hands out logical sequence numbers for new rows.
type Clock interface {
	Next() int64
}

// Cache infers result types through a Store.
type Cache struct {
	store  *Store
	clock  Clock
	logger *slog.Logger
}

// NewCache wraps st. A nil clock numbers rows after the highest seq already
// stored; a nil logger discards.
func NewCache(st *Store, clock Clock, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Cache{store: st, clock: clock, logger: logger}
}

// Infer returns the result type of query against schema, reusing a stored
// result when one exists. hit reports whether the result came from the store.
//
// Options carrying Overrides bypass the store: overrides are keyed by node
// identity, which has no content hash.
func (c *Cache) Infer(ctx context.Context, schema typesys.Schema, query ast.Node, opts evaluator.Options) (inf Inference, hit bool, err error) {
	if len(opts.Overrides) > 0 {
		result, err := evaluator.New(schema, opts).EvaluateChecked(query)
		if err != nil {
			return Inference{}, false, err
		}
		return Inference{Result: result, ResultHash: typesys.Hash(result)}, false, nil
	}

	schemaHash, err := typesys.SchemaHash(schema)
	if err != nil {
		return Inference{}, false, err
	}
	queryHash, err := ast.Hash(query)
	if err != nil {
		return Inference{}, false, fmt.Errorf("hash query: %w", err)
	}
	key := OptionsKey(opts)

	inf, found, err := c.store.LookupInference(ctx, schemaHash, queryHash, key)
	if err != nil {
		return Inference{}, false, err
	}
	if found {
		c.logger.Debug("inference cache hit", "id", inf.ID, "query", queryHash[:12])
		return inf, true, nil
	}

	result, err := evaluator.New(schema, opts).EvaluateChecked(query)
	if err != nil {
		return Inference{}, false, err
	}

	seq, err := c.nextSeq(ctx)
	if err != nil {
		return Inference{}, false, err
	}
	if err := c.store.WriteSchema(ctx, schemaHash, schema, seq); err != nil {
		return Inference{}, false, err
	}

	inf = Inference{
		SchemaHash: schemaHash,
		QueryHash:  queryHash,
		OptionsKey: key,
		Result:     result,
		ResultHash: typesys.Hash(result),
		Seq:        seq,
	}
	inf.ID, _, err = c.store.WriteInference(ctx, inf)
	if err != nil {
		return Inference{}, false, err
	}

	c.logger.Debug("inference cached", "id", inf.ID, "query", queryHash[:12], "seq", seq)
	return inf, false, nil
}

func (c *Cache) nextSeq(ctx context.Context) (int64, error) {
	if c.clock != nil {
		return c.clock.Next(), nil
	}
	return c.store.NextSeq(ctx)
}

// OptionsKey identifies the evaluator settings that change a result: the
// limits and the registered function signatures. Custom Eval bodies are not
// part of the key, so a registry that replaces a builtin's behavior under
// the same name and flags shares its cache entries.
func OptionsKey(opts evaluator.Options) string {
	registry := opts.Functions
	if registry == nil {
		registry = evaluator.DefaultRegistry()
	}
	maxDepth, maxCombinations := opts.MaxDepth, opts.MaxCombinations
	if maxDepth <= 0 {
		maxDepth = evaluator.DefaultMaxDepth
	}
	if maxCombinations <= 0 {
		maxCombinations = evaluator.DefaultMaxCombinations
	}

	functions := value.Array{}
	for _, b := range registry.Builtins() {
		functions = append(functions, value.Object{
			"name":          value.String(b.FullName()),
			"pipe":          value.Bool(b.Pipe),
			"forcesNonNull": value.Bool(b.ForcesNonNull),
			"distributes":   value.Bool(b.Distributes),
			"opaque":        value.Bool(b.Opaque || b.Eval == nil),
		})
	}

	return value.MustHash(value.DomainOptions, value.Object{
		"maxDepth":        value.Number(maxDepth),
		"maxCombinations": value.Number(maxCombinations),
		"functions":       functions,
	})
}
