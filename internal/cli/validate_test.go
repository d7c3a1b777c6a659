package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/groqtype/internal/compiler"
)

const danglingSchemaYAML = `
- type: document
  name: post
  attributes:
    author: {type: objectAttribute, value: {type: reference, to: ghost}}
`

const aliasLoopSchemaYAML = `
- type: document
  name: post
  attributes:
    title: {type: objectAttribute, value: {type: string}}
- type: type
  name: a
  value: {type: inline, name: b}
- type: type
  name: b
  value: {type: inline, name: a}
`

func TestValidate_Valid(t *testing.T) {
	out, err := execute(t, NewValidateCommand, "text", blogCUEDir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Schema valid: 2 document(s), 1 type(s)")
	assert.NotContains(t, out, "warning")
}

func TestValidate_DanglingReference(t *testing.T) {
	path := writeFile(t, t.TempDir(), "schema.yaml", danglingSchemaYAML)

	out, err := execute(t, NewValidateCommand, "text", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Schema invalid: 1 error(s)")
	assert.Contains(t, out, compiler.ErrUndefinedReference)
	assert.Contains(t, out, "ghost")
}

func TestValidate_DanglingReferenceJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "schema.yaml", danglingSchemaYAML)

	out, err := execute(t, NewValidateCommand, "json", path)
	require.Error(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	require.Len(t, resp.Data.Errors, 1)
	assert.Equal(t, compiler.ErrUndefinedReference, resp.Data.Errors[0].Code)
}

func TestValidate_AliasCycleIsWarning(t *testing.T) {
	path := writeFile(t, t.TempDir(), "schema.yaml", aliasLoopSchemaYAML)

	out, err := execute(t, NewValidateCommand, "text", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Schema valid")
	assert.Contains(t, out, "warning: types a, b alias each other")
}

func TestValidate_LoadError(t *testing.T) {
	_, err := execute(t, NewValidateCommand, "text", "/nonexistent/schema.cue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
