package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/groqtype/internal/ast"
	"github.com/roach88/groqtype/internal/testutil"
	"github.com/roach88/groqtype/internal/typesys"
)

func newWalker(schema typesys.Schema) *walker {
	opts := Options{}.withDefaults()
	return &walker{ctx: NewContext(schema), opts: opts, log: opts.Logger}
}

func postScope() *Scope {
	post := testutil.BlogSchema().Documents[1].Object()
	return NewScope(typesys.ArrayOf(post)).Hidden(post)
}

func TestTristate(t *testing.T) {
	assert.Equal(t, "false", False.String())
	assert.Equal(t, "true", True.String())
	assert.Equal(t, "indeterminate", Indeterminate.String())

	assert.Equal(t, True, False.negate())
	assert.Equal(t, False, True.negate())
	assert.Equal(t, Indeterminate, Indeterminate.negate())
}

func TestResolve_FilterAndStrictFallbacks(t *testing.T) {
	param := &ast.Parameter{Name: "p"}
	tests := []struct {
		name   string
		node   ast.Node
		filter Tristate
		strict Tristate
	}{
		{"boolean literal", testutil.Lit(true), True, True},
		{"non-boolean literal", testutil.Lit(1), False, False},
		{"null literal", testutil.Lit(nil), False, False},
		{"grouped", &ast.Group{Base: testutil.Lit(false)}, False, False},
		{"unknown value", param, True, Indeterminate},
		{"boolean attribute", testutil.Path("published"), True, Indeterminate},
		{"string attribute", testutil.Path("title"), False, False},
		{"missing attribute", testutil.Path("nope"), False, False},
		{"decided comparison", testutil.Eq(testutil.Path("_type"), testutil.Lit("post")), True, True},
		{"undecided comparison", testutil.Eq(testutil.Path("title"), testutil.Lit("x")), Indeterminate, Indeterminate},
		{"negated literal", testutil.Not(testutil.Lit(true)), False, False},
		{"negated attribute", testutil.Not(testutil.Path("published")), True, Indeterminate},
		{"function call", testutil.Call("references", testutil.Lit("id")), True, Indeterminate},
	}

	w := newWalker(testutil.BlogSchema())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.filter, w.resolveFilter(tt.node, postScope()), "filter")
			assert.Equal(t, tt.strict, w.resolveStrict(tt.node, postScope()), "strict")
		})
	}
}

func TestResolve_BooleanOperators(t *testing.T) {
	lit := map[Tristate]ast.Node{
		True:          testutil.Lit(true),
		False:         testutil.Lit(false),
		Indeterminate: &ast.Parameter{Name: "p"},
	}
	tests := []struct {
		left, right Tristate
		and, or     Tristate
	}{
		{True, True, True, True},
		{True, False, False, True},
		{True, Indeterminate, Indeterminate, True},
		{False, True, False, True},
		{False, False, False, False},
		{False, Indeterminate, False, Indeterminate},
		{Indeterminate, True, Indeterminate, True},
		{Indeterminate, False, False, Indeterminate},
		{Indeterminate, Indeterminate, Indeterminate, Indeterminate},
	}

	w := newWalker(typesys.Schema{})
	s := NewScope(typesys.Null{})
	for _, tt := range tests {
		name := tt.left.String() + "/" + tt.right.String()
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.and, w.resolveStrict(testutil.And(lit[tt.left], lit[tt.right]), s), "and")
			assert.Equal(t, tt.or, w.resolveStrict(testutil.Or(lit[tt.left], lit[tt.right]), s), "or")
		})
	}
}

func TestCompare(t *testing.T) {
	ab := typesys.NewUnion(typesys.StrLit("a"), typesys.StrLit("b"))
	tests := []struct {
		name        string
		op          ast.Op
		left, right typesys.Type
		want        Tristate
	}{
		{"equal literals", ast.OpEq, typesys.StrLit("a"), typesys.StrLit("a"), True},
		{"different literals", ast.OpEq, typesys.StrLit("a"), typesys.StrLit("b"), False},
		{"different kinds", ast.OpEq, typesys.Str(), typesys.Num(), False},
		{"same kind", ast.OpEq, typesys.Str(), typesys.StrLit("a"), Indeterminate},
		{"member of union", ast.OpEq, ab, typesys.StrLit("a"), Indeterminate},
		{"outside union", ast.OpEq, ab, typesys.StrLit("c"), False},
		{"nullable vs null", ast.OpEq, typesys.Nullable(typesys.Str()), typesys.Null{}, Indeterminate},
		{"unknown", ast.OpEq, typesys.Unknown{}, typesys.Null{}, Indeterminate},
		{"never", ast.OpEq, typesys.Never(), typesys.Str(), False},
		{"not equal", ast.OpNeq, typesys.StrLit("a"), typesys.StrLit("b"), True},
		{"greater", ast.OpGt, typesys.NumLit(2), typesys.NumLit(1), True},
		{"greater or equal", ast.OpGte, typesys.NumLit(1), typesys.NumLit(1), True},
		{"less or equal", ast.OpLte, typesys.NumLit(2), typesys.NumLit(1), False},
		{"general number", ast.OpLt, typesys.Num(), typesys.NumLit(1), Indeterminate},
		{"booleans do not order", ast.OpLt, typesys.BoolLit(false), typesys.BoolLit(true), Indeterminate},
		{"some needles", ast.OpIn, ab, typesys.ArrayOf(typesys.StrLit("a")), Indeterminate},
		{"general haystack", ast.OpIn, typesys.StrLit("a"), typesys.ArrayOf(typesys.Str()), Indeterminate},
		{"not an array", ast.OpIn, typesys.StrLit("a"), typesys.StrLit("a"), Indeterminate},
		{"match array", ast.OpMatch, typesys.ArrayOf(ab), typesys.StrLit("b"), True},
		{"no match", ast.OpMatch, typesys.StrLit("alpha"), typesys.StrLit("beta"), False},
	}

	w := newWalker(typesys.Schema{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.compare(tt.op, tt.left, tt.right))
		})
	}
}

func TestCompare_ResolvesInlineDeclarations(t *testing.T) {
	schema := typesys.Schema{Declarations: []typesys.Declaration{
		{Name: "color", Value: typesys.NewUnion(typesys.StrLit("red"), typesys.StrLit("blue"))},
	}}
	w := newWalker(schema)

	assert.Equal(t, False, w.compare(ast.OpEq, typesys.Inline{Name: "color"}, typesys.StrLit("green")))
	assert.Equal(t, Indeterminate, w.compare(ast.OpEq, typesys.Inline{Name: "color"}, typesys.StrLit("red")))
}
