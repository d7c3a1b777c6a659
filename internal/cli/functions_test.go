package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunctions_Text(t *testing.T) {
	out, err := execute(t, NewFunctionsCommand, "text")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "global::count")
	assert.Contains(t, out, "length of an array")
}

func TestFunctions_JSON(t *testing.T) {
	out, err := execute(t, NewFunctionsCommand, "json")
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   []FunctionInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	byName := make(map[string]FunctionInfo)
	for _, f := range resp.Data {
		if !f.Pipe {
			byName[f.Name] = f
		}
	}
	require.Contains(t, byName, "global::defined")
	assert.True(t, byName["global::defined"].ForcesNonNull)
	require.Contains(t, byName, "global::count")
	assert.True(t, byName["global::count"].Distributes)
}

func TestFunctionFlags(t *testing.T) {
	assert.Equal(t, "---", functionFlags(FunctionInfo{}))
	assert.Equal(t, "n-o", functionFlags(FunctionInfo{ForcesNonNull: true, Opaque: true}))
}
