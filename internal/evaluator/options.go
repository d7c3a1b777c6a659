package evaluator

import (
	"io"
	"log/slog"

	"github.com/roach88/groqtype/internal/ast"
	"github.com/roach88/groqtype/internal/typesys"
)

const (
	// DefaultMaxDepth bounds walk recursion.
	DefaultMaxDepth = 512

	// DefaultMaxCombinations bounds the number of object variants an object
	// literal may carry between conditional splats.
	DefaultMaxCombinations = 1024
)

// Options configures an evaluation. The zero value uses the defaults.
type Options struct {
	// Logger receives warnings when a limit is hit. Nil discards.
	Logger *slog.Logger

	// Functions resolves function calls. Nil uses DefaultRegistry().
	Functions *Registry

	// Overrides pins the type of specific nodes. The walker returns the
	// override instead of evaluating the node.
	Overrides map[ast.Node]typesys.Type

	// MaxDepth bounds recursion. Exceeding it yields unknown.
	MaxDepth int

	// MaxCombinations bounds object-literal variants. Exceeding it makes the
	// object literal unknown.
	MaxCombinations int
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.Functions == nil {
		o.Functions = DefaultRegistry()
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxCombinations <= 0 {
		o.MaxCombinations = DefaultMaxCombinations
	}
	return o
}
