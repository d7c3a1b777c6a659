package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/groqtype/internal/store"
	"github.com/roach88/groqtype/internal/typesys"
)

type inferResponse struct {
	Status string          `json:"status"`
	Data   InferenceResult `json:"data"`
	Error  *CLIError       `json:"error"`
}

func inferJSON(t *testing.T, args ...string) inferResponse {
	t.Helper()
	out, err := execute(t, NewInferCommand, "json", args...)
	require.NoError(t, err)
	var resp inferResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	return resp
}

func TestInfer_Text(t *testing.T) {
	out, err := execute(t, NewInferCommand, "text", blogSchemaYAML, firstAuthorQ)
	require.NoError(t, err)
	assert.Equal(t, firstAuthorType+"\n", out)

	out, err = execute(t, NewInferCommand, "text", blogCUEDir, totalQ)
	require.NoError(t, err)
	assert.Equal(t, "number\n", out)
}

func TestInfer_JSON(t *testing.T) {
	resp := inferJSON(t, blogSchemaYAML, firstAuthorQ)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, firstAuthorType, resp.Data.Rendered)
	assert.False(t, resp.Data.Cached)
	assert.Len(t, resp.Data.SchemaHash, 64)

	parsed, err := typesys.ParseType(resp.Data.Type)
	require.NoError(t, err)
	assert.Equal(t, typesys.Hash(parsed), resp.Data.Hash)
}

func TestInfer_Cache(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")

	first := inferJSON(t, blogSchemaYAML, firstAuthorQ, "--cache", dbPath)
	assert.False(t, first.Data.Cached)

	second := inferJSON(t, blogSchemaYAML, firstAuthorQ, "--cache", dbPath)
	assert.True(t, second.Data.Cached)
	assert.Equal(t, first.Data.Hash, second.Data.Hash)

	// The CUE package compiles to the same schema, so it shares the entry.
	fromCUE := inferJSON(t, blogCUEDir, firstAuthorQ, "--cache", dbPath)
	assert.True(t, fromCUE.Data.Cached)

	// Different limits are a different entry.
	limited := inferJSON(t, blogSchemaYAML, firstAuthorQ, "--cache", dbPath, "--max-depth", "1")
	assert.False(t, limited.Data.Cached)
	assert.Equal(t, "unknown", limited.Data.Rendered)

	bypass := inferJSON(t, blogSchemaYAML, firstAuthorQ, "--cache", dbPath, "--no-cache")
	assert.False(t, bypass.Data.Cached)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()
	rows, err := st.ListInferences(context.Background(), first.Data.SchemaHash)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestInfer_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"missing schema", []string{"/nonexistent/schema.yaml", firstAuthorQ}, ErrCodeNotFound},
		{"missing query", []string{blogSchemaYAML, "/nonexistent/query.yaml"}, ErrCodeNotFound},
		{"invalid query", []string{blogSchemaYAML, invalidQ}, ErrCodeInvalidQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, NewInferCommand, "json", tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			var resp inferResponse
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestInfer_CacheOpenFails(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "missing-dir", "cache.db")

	_, err := execute(t, NewInferCommand, "text", blogSchemaYAML, firstAuthorQ, "--cache", dbPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeCache)
}
