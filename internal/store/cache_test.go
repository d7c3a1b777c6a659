package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/groqtype/internal/ast"
	"github.com/roach88/groqtype/internal/evaluator"
	"github.com/roach88/groqtype/internal/testutil"
	"github.com/roach88/groqtype/internal/typesys"
)

func authorsQuery() ast.Node {
	return testutil.Filter(testutil.Everything(), testutil.Eq(testutil.Path("_type"), testutil.Lit("author")))
}

func TestCache_MissThenHit(t *testing.T) {
	s := createTestStore(t)
	clock := testutil.NewDeterministicClock()
	cache := NewCache(s, clock, nil)
	ctx := context.Background()
	schema := testutil.BlogSchema()

	first, hit, err := cache.Infer(ctx, schema, authorsQuery(), evaluator.Options{})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, int64(1), first.Seq)

	want := evaluator.Evaluate(authorsQuery(), schema)
	assert.Equal(t, typesys.Hash(want), typesys.Hash(first.Result))

	second, hit, err := cache.Infer(ctx, schema, authorsQuery(), evaluator.Options{})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.ResultHash, second.ResultHash)
	assert.Equal(t, int64(1), clock.Current(), "a hit must not consume a seq")
}

func TestCache_KeysBySchemaQueryAndOptions(t *testing.T) {
	s := createTestStore(t)
	cache := NewCache(s, nil, nil)
	ctx := context.Background()
	schema := testutil.BlogSchema()

	_, _, err := cache.Infer(ctx, schema, authorsQuery(), evaluator.Options{})
	require.NoError(t, err)

	// Another query.
	_, hit, err := cache.Infer(ctx, schema, testutil.Everything(), evaluator.Options{})
	require.NoError(t, err)
	assert.False(t, hit)

	// Other limits.
	_, hit, err = cache.Infer(ctx, schema, authorsQuery(), evaluator.Options{MaxDepth: 3})
	require.NoError(t, err)
	assert.False(t, hit)

	// Another schema.
	smaller := typesys.Schema{Documents: schema.Documents[:1], Declarations: schema.Declarations}
	_, hit, err = cache.Infer(ctx, smaller, authorsQuery(), evaluator.Options{})
	require.NoError(t, err)
	assert.False(t, hit)

	schemaHash, err := typesys.SchemaHash(schema)
	require.NoError(t, err)
	listed, err := s.ListInferences(ctx, schemaHash)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	// Without a clock, seq continues after the highest stored row.
	assert.Equal(t, []int64{1, 2, 3}, []int64{listed[0].Seq, listed[1].Seq, listed[2].Seq})
}

func TestCache_OverridesBypassStore(t *testing.T) {
	s := createTestStore(t)
	cache := NewCache(s, testutil.NewDeterministicClock(), nil)
	ctx := context.Background()

	query := testutil.Path("title")
	opts := evaluator.Options{Overrides: map[ast.Node]typesys.Type{query: typesys.Num()}}

	inf, hit, err := cache.Infer(ctx, testutil.BlogSchema(), query, opts)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, typesys.Num(), inf.Result)
	assert.Empty(t, inf.ID)

	var count int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM inferences").Scan(&count))
	assert.Zero(t, count)
}

func TestCache_UnhandledNodeIsError(t *testing.T) {
	s := createTestStore(t)
	cache := NewCache(s, nil, nil)

	_, _, err := cache.Infer(context.Background(), testutil.BlogSchema(), &ast.Not{}, evaluator.Options{})
	require.Error(t, err)
}

func TestOptionsKey(t *testing.T) {
	defaults := OptionsKey(evaluator.Options{})
	assert.Equal(t, defaults, OptionsKey(evaluator.Options{
		MaxDepth:        evaluator.DefaultMaxDepth,
		MaxCombinations: evaluator.DefaultMaxCombinations,
		Functions:       evaluator.DefaultRegistry(),
	}))
	assert.NotEqual(t, defaults, OptionsKey(evaluator.Options{MaxCombinations: 8}))

	extended := evaluator.DefaultRegistry()
	extended.Register(evaluator.Builtin{Namespace: "custom", Name: "f", Opaque: true})
	assert.NotEqual(t, defaults, OptionsKey(evaluator.Options{Functions: extended}))

	assert.NotEqual(t, defaults, OptionsKey(evaluator.Options{Functions: evaluator.NewRegistry()}))
}
