package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/groqtype/internal/testutil"
	"github.com/roach88/groqtype/internal/typesys"
)

func TestValidateSchema_Valid(t *testing.T) {
	assert.Empty(t, ValidateSchema(testutil.BlogSchema()))
}

func TestValidateSchema_Errors(t *testing.T) {
	s := typesys.Schema{
		Documents: []typesys.Document{
			{Name: "a", Attributes: []typesys.Attribute{
				typesys.Attr("x", typesys.Inline{Name: "missing"}),
				typesys.Attr("x", typesys.Str()),
				typesys.Attr("r", typesys.ArrayOf(typesys.Reference{To: "nowhere"})),
			}},
			{Name: "a"},
			{Name: " "},
		},
		Declarations: []typesys.Declaration{
			{Name: "t", Value: typesys.Object{Rest: typesys.Inline{Name: "gone"}, DereferencesTo: "void"}},
			{Name: "t", Value: typesys.Str()},
		},
	}

	var codes []string
	for _, e := range ValidateSchema(s) {
		codes = append(codes, e.Code)
	}
	assert.ElementsMatch(t, []string{
		ErrUndefinedInline,      // a.x
		ErrDuplicateAttribute,   // a.x again
		ErrUndefinedReference,   // a.r[]
		ErrDuplicateDocument,    // second a
		ErrEmptyName,            // " "
		ErrUndefinedInline,      // t...
		ErrUndefinedReference,   // t dereferences
		ErrDuplicateDeclaration, // second t
	}, codes)
}

func TestValidationError_Error(t *testing.T) {
	e := ValidationError{Field: "documents.a.x", Message: "bad", Code: ErrUndefinedInline}
	assert.Equal(t, "[E105] documents.a.x: bad", e.Error())
}

func TestAnalyzeCycles(t *testing.T) {
	assert.Empty(t, AnalyzeCycles(testutil.BlogSchema()))

	s := compile(t, `
		types: {
			a: _ @inline(b)
			b: _ @inline(a)
			c: _ @inline(c)
			d: {next?: _ @inline(d)}
		}
	`)
	warnings := AnalyzeCycles(s)
	if assert.Len(t, warnings, 2) {
		assert.Equal(t, []string{"a", "b"}, warnings[0].Declarations)
		assert.Equal(t, "types a, b alias each other and read as unknown", warnings[0].Message)
		assert.Equal(t, []string{"c"}, warnings[1].Declarations)
		assert.Equal(t, "warning", warnings[1].Level)
	}
}
