package cli

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/groqtype/internal/testutil"
	"github.com/roach88/groqtype/internal/typesys"
	"github.com/roach88/groqtype/internal/value"
)

func TestLoadSchema_CUEPackage(t *testing.T) {
	result, err := LoadSchema(blogCUEDir)
	require.NoError(t, err)
	assert.Equal(t, 2, result.FileCount)
	assert.Len(t, result.Schema.Documents, 2)
	assert.Len(t, result.Schema.Declarations, 1)
	assert.Len(t, result.Hash, 64)
}

func TestLoadSchema_FormatsAgree(t *testing.T) {
	fromCUE, err := LoadSchema(blogCUEDir)
	require.NoError(t, err)
	fromYAML, err := LoadSchema(blogSchemaYAML)
	require.NoError(t, err)

	want, err := typesys.SchemaHash(testutil.BlogSchema())
	require.NoError(t, err)
	assert.Equal(t, want, fromYAML.Hash)
	assert.Equal(t, want, fromCUE.Hash)
}

func TestLoadSchema_SingleCUEFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "library.cue", `
documents: book: {
	"_id":   string
	"_type": "book"
	title:   string
}
`)
	// Other files in the directory are not read.
	writeFile(t, dir, "broken.cue", "documents: {")

	result, err := LoadSchema(path)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FileCount)
	require.Len(t, result.Schema.Documents, 1)
	assert.Equal(t, "book", result.Schema.Documents[0].Name)
}

func TestLoadSchema_Errors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		code  string
	}{
		{
			name:  "missing path",
			setup: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope") },
			code:  ErrCodeNotFound,
		},
		{
			name:  "empty directory",
			setup: func(t *testing.T) string { return t.TempDir() },
			code:  ErrCodeNoFiles,
		},
		{
			name: "unsupported extension",
			setup: func(t *testing.T) string {
				return writeFile(t, t.TempDir(), "schema.txt", "documents: {}")
			},
			code: ErrCodeUnsupported,
		},
		{
			name: "malformed yaml schema",
			setup: func(t *testing.T) string {
				return writeFile(t, t.TempDir(), "schema.yaml", "type: document\n")
			},
			code: ErrCodeInvalidInput,
		},
		{
			name: "cue without documents",
			setup: func(t *testing.T) string {
				return writeFile(t, t.TempDir(), "schema.cue", "package s\n\nother: 1\n")
			},
			code: ErrCodeNoDocuments,
		},
		{
			name: "document that is not a struct",
			setup: func(t *testing.T) string {
				return writeFile(t, t.TempDir(), "schema.cue", "package s\n\ndocuments: post: 5\n")
			},
			code: ErrCodeBadDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSchema(tt.setup(t))
			require.Error(t, err)
			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr), "want *LoadError, got %T", err)
			assert.Equal(t, tt.code, loadErr.Code, loadErr.Message)
		})
	}
}

func TestLoadQuery(t *testing.T) {
	n, err := LoadQuery(totalQ)
	require.NoError(t, err)
	assert.Equal(t, "FuncCall", n.Kind())

	_, err = LoadQuery(invalidQ)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeInvalidQuery)

	bad := writeFile(t, t.TempDir(), "q.yaml", "type: NoSuchNode\n")
	_, err = LoadQuery(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeInvalidInput)
}

func TestLoadValue(t *testing.T) {
	v, err := LoadValue(filepath.Join("testdata", "values", "author.json"))
	require.NoError(t, err)
	assert.True(t, value.Equal(value.NewObject(
		value.O("_id", value.String("a1")),
		value.O("_type", value.String("author")),
		value.O("name", value.String("Ada")),
	), v))

	v, err = LoadValue(filepath.Join("testdata", "values", "post.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "object", value.Kind(v))

	_, err = LoadValue(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeNotFound)
}

func TestMapFieldToErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeNoDocuments, MapFieldToErrorCode("documents"))
	assert.Equal(t, ErrCodeBadDocument, MapFieldToErrorCode("documents.post"))
	assert.Equal(t, ErrCodeBadDocument, MapFieldToErrorCode("documents.post.tags[]"))
	assert.Equal(t, ErrCodeBadType, MapFieldToErrorCode("types.slug"))
	assert.Equal(t, ErrCodeBuildFailed, MapFieldToErrorCode("cue"))
	assert.Equal(t, ErrCodeGeneric, MapFieldToErrorCode(""))
}

func TestLoadError_Error(t *testing.T) {
	err := &LoadError{Code: ErrCodeNotFound, Message: "schema not found: x"}
	assert.Equal(t, "E005: schema not found: x", err.Error())
}
