package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/groqtype/internal/conformance"
	"github.com/roach88/groqtype/internal/testutil"
	"github.com/roach88/groqtype/internal/typesys"
)

func TestEvaluateAssertions(t *testing.T) {
	checker := conformance.NewChecker(testutil.BlogSchema())
	types := map[string]typesys.Type{
		"authors": typesys.ArrayOf(testutil.AuthorType()),
		"opaque":  typesys.NewObject(typesys.Attr("x", typesys.Unknown{})),
		"title":   typesys.Nullable(typesys.Str()),
	}

	tests := []struct {
		name      string
		assertion Assertion
		wantFail  bool
	}{
		{"type equals", Assertion{Type: AssertTypeEquals, Query: "title", Expect: "string | null"}, false},
		{"type differs", Assertion{Type: AssertTypeEquals, Query: "title", Expect: "string"}, true},
		{"accepts", Assertion{Type: AssertAccepts, Query: "authors", Value: []any{map[string]any{"_id": "a", "_type": "author"}}}, false},
		{"accepts fails", Assertion{Type: AssertAccepts, Query: "authors", Value: []any{map[string]any{"_type": "author"}}}, true},
		{"rejects", Assertion{Type: AssertRejects, Query: "title", Value: 3}, false},
		{"rejects fails", Assertion{Type: AssertRejects, Query: "title", Value: nil}, true},
		{"no unknown", Assertion{Type: AssertNoUnknown, Query: "authors"}, false},
		{"nested unknown", Assertion{Type: AssertNoUnknown, Query: "opaque"}, true},
		{"unknown query", Assertion{Type: AssertNoUnknown, Query: "nope"}, true},
		{"unknown type", Assertion{Type: "frob", Query: "title"}, true},
		{"bad value", Assertion{Type: AssertAccepts, Query: "title", Value: struct{}{}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateAssertions(types, []Assertion{tt.assertion}, checker)
			if tt.wantFail {
				assert.Len(t, errs, 1)
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestAssertionError_ListsMismatches(t *testing.T) {
	checker := conformance.NewChecker(testutil.BlogSchema())
	types := map[string]typesys.Type{"authors": typesys.ArrayOf(testutil.AuthorType())}

	errs := EvaluateAssertions(types, []Assertion{{
		Type:  AssertAccepts,
		Query: "authors",
		Value: []any{map[string]any{"_type": "author"}},
	}}, checker)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Assertion failed: accepts (query authors)")
	assert.Contains(t, errs[0], "$[0]._id: missing attribute")
}

func TestContainsUnknown(t *testing.T) {
	assert.True(t, containsUnknown(typesys.Unknown{}))
	assert.True(t, containsUnknown(typesys.Array{}))
	assert.True(t, containsUnknown(typesys.NewUnion(typesys.Str(), typesys.ArrayOf(typesys.Unknown{}))))
	assert.True(t, containsUnknown(typesys.Object{Rest: typesys.Unknown{}}))
	assert.False(t, containsUnknown(typesys.Inline{Name: "slug"}))
	assert.False(t, containsUnknown(typesys.NewObject(typesys.Attr("a", typesys.Null{}))))
}
