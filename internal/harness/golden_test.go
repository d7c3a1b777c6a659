package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_Blog(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/blog.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestSnapshot_Deterministic(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/blog.yaml")
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	a, err := Snapshot(scenario.Name, first)
	require.NoError(t, err)
	b, err := Snapshot(scenario.Name, second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.Equal(t, first.Types, second.Types)
}

func TestSnapshot_Format(t *testing.T) {
	result := NewResult()
	result.Types = append(result.Types, InferredType{Query: "q", Type: `"a" | null`, Hash: "h", Seq: 3})

	got, err := Snapshot("s", result)
	require.NoError(t, err)
	assert.Equal(t, `{"results":[{"query":"q","type":"\"a\" | null"}],"scenario":"s"}`, string(got))
}
