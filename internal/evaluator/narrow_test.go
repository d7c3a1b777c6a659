package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/groqtype/internal/ast"
	"github.com/roach88/groqtype/internal/testutil"
	"github.com/roach88/groqtype/internal/typesys"
)

func TestExtractAssertions(t *testing.T) {
	a, b := testutil.Path("a"), testutil.Path("b")
	tests := []struct {
		name string
		node ast.Node
		want []assertion
	}{
		{"defined", testutil.Call("defined", testutil.Path("a.b")), []assertion{{path: []string{"a", "b"}, action: assertDefined}}},
		{"not defined", testutil.Not(testutil.Call("defined", a)), []assertion{{path: []string{"a"}, action: assertNotDefined}}},
		{"equals null", testutil.Eq(a, testutil.Lit(nil)), []assertion{{path: []string{"a"}, action: assertNotDefined}}},
		{"not equals null", testutil.Op(ast.OpNeq, a, testutil.Lit(nil)), []assertion{{path: []string{"a"}, action: assertDefined}}},
		{"equals literal", testutil.Eq(a, testutil.Lit("x")), []assertion{{path: []string{"a"}, action: assertEquals, value: typesys.StrLit("x")}}},
		{"literal first", testutil.Eq(testutil.Lit(1), a), []assertion{{path: []string{"a"}, action: assertEquals, value: typesys.NumLit(1)}}},
		{"this rooted", testutil.Eq(testutil.Attr(&ast.This{}, "a"), testutil.Lit(true)), []assertion{{path: []string{"a"}, action: assertEquals, value: typesys.BoolLit(true)}}},
		{"conjunction", testutil.And(testutil.Call("defined", a), &ast.Group{Base: testutil.Eq(b, testutil.Lit(nil))}), []assertion{
			{path: []string{"a"}, action: assertDefined},
			{path: []string{"b"}, action: assertNotDefined},
		}},
		{"negated disjunction", testutil.Not(testutil.Or(testutil.Call("defined", a), testutil.Eq(b, testutil.Lit(nil)))), []assertion{
			{path: []string{"a"}, action: assertNotDefined},
			{path: []string{"b"}, action: assertDefined},
		}},
		{"not equals literal", testutil.Op(ast.OpNeq, a, testutil.Lit("x")), nil},
		{"disjunction", testutil.Or(testutil.Call("defined", a), testutil.Call("defined", b)), nil},
		{"negated conjunction", testutil.Not(testutil.And(testutil.Call("defined", a), testutil.Call("defined", b))), nil},
		{"parent rooted", testutil.Eq(testutil.Attr(&ast.Parent{N: 1}, "a"), testutil.Lit(1)), nil},
		{"two paths", testutil.Eq(a, b), nil},
		{"ordering", testutil.Op(ast.OpGt, a, testutil.Lit(1)), nil},
		{"other function", testutil.Call("count", a), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractAssertions(tt.node, false))
		})
	}
}

func TestNarrow(t *testing.T) {
	doc := typesys.NewObject(
		typesys.Attr("kind", typesys.NewUnion(typesys.StrLit("a"), typesys.StrLit("b"))),
		typesys.OptionalAttr("title", typesys.Str()),
		typesys.Attr("body", typesys.Nullable(typesys.Str())),
		typesys.Attr("id", typesys.Str()),
	)
	tests := []struct {
		name    string
		asserts []assertion
		want    typesys.Type
		ok      bool
	}{
		{
			"equals picks the literal",
			[]assertion{{path: []string{"kind"}, action: assertEquals, value: typesys.StrLit("a")}},
			doc.Set(typesys.Attr("kind", typesys.StrLit("a"))),
			true,
		},
		{
			"equals makes optional required",
			[]assertion{{path: []string{"title"}, action: assertEquals, value: typesys.StrLit("t")}},
			doc.Set(typesys.Attr("title", typesys.StrLit("t"))),
			true,
		},
		{
			"equals contradicts",
			[]assertion{{path: []string{"kind"}, action: assertEquals, value: typesys.StrLit("c")}},
			nil,
			false,
		},
		{
			"defined strips null",
			[]assertion{{path: []string{"body"}, action: assertDefined}},
			doc.Set(typesys.Attr("body", typesys.Str())),
			true,
		},
		{
			"not defined on nullable",
			[]assertion{{path: []string{"body"}, action: assertNotDefined}},
			doc.Set(typesys.Attr("body", typesys.Null{})),
			true,
		},
		{
			"not defined on optional",
			[]assertion{{path: []string{"title"}, action: assertNotDefined}},
			doc.Set(typesys.OptionalAttr("title", typesys.Null{})),
			true,
		},
		{
			"not defined on required",
			[]assertion{{path: []string{"id"}, action: assertNotDefined}},
			nil,
			false,
		},
		{
			"defined on missing",
			[]assertion{{path: []string{"nope"}, action: assertDefined}},
			nil,
			false,
		},
		{
			"not defined on missing",
			[]assertion{{path: []string{"nope"}, action: assertNotDefined}},
			doc,
			true,
		},
		{
			"deep path into a string",
			[]assertion{{path: []string{"id", "x"}, action: assertDefined}},
			nil,
			false,
		},
		{
			"no assertions",
			nil,
			doc,
			true,
		},
	}

	w := newWalker(typesys.Schema{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := w.narrow(doc, tt.asserts)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, typesys.Canonicalize(tt.want), typesys.Canonicalize(got))
			}
		})
	}
}

func TestNarrow_KeepsNonObjectMembers(t *testing.T) {
	w := newWalker(typesys.Schema{})
	obj := typesys.NewObject(typesys.OptionalAttr("a", typesys.Str()))

	got, ok := w.narrow(typesys.NewUnion(obj, typesys.Str()), []assertion{{path: []string{"a"}, action: assertDefined}})
	require.True(t, ok)
	assert.Equal(t, typesys.Union{Of: []typesys.Type{
		typesys.NewObject(typesys.Attr("a", typesys.Str())),
		typesys.Str(),
	}}, got)
}

func TestFilter_NarrowsDiscriminatedUnion(t *testing.T) {
	// *[_type == "post"] keeps only posts.
	got := eval(t, testutil.Filter(testutil.Everything(), testutil.Eq(testutil.Path("_type"), testutil.Lit("post"))))
	assert.Equal(t, typesys.Canonicalize(typesys.ArrayOf(testutil.BlogSchema().Documents[1].Object())), got)
}

func TestFilter_NotDefinedNarrowsToNull(t *testing.T) {
	// *[_type == "author" && !defined(name)]{name}
	query := testutil.Project(
		testutil.Filter(testutil.Everything(), testutil.And(
			testutil.Eq(testutil.Path("_type"), testutil.Lit("author")),
			testutil.Not(testutil.Call("defined", testutil.Path("name"))),
		)),
		testutil.Object(testutil.Field("name", testutil.Path("name"))),
	)

	got := eval(t, query)
	assert.Equal(t, typesys.Canonicalize(typesys.ArrayOf(typesys.NewObject(
		typesys.Attr("name", typesys.Null{}),
	))), got)
}

func TestFilter_DefinedOnRequiredAttributeKeepsEverything(t *testing.T) {
	got := eval(t, testutil.Filter(testutil.Everything(), testutil.Call("defined", testutil.Path("_id"))))
	assert.Equal(t, eval(t, testutil.Everything()), got)
}

func TestFilter_ContradictionDropsCandidate(t *testing.T) {
	// *[defined(name) && !defined(name)]: each half alone passes the filter
	// for authors, together they contradict.
	got := eval(t, testutil.Filter(testutil.Everything(), testutil.And(
		testutil.Call("defined", testutil.Path("name")),
		testutil.Not(testutil.Call("defined", testutil.Path("name"))),
	)))
	assert.Equal(t, typesys.ArrayOf(typesys.Never()), got)
}
