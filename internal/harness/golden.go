package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/groqtype/internal/value"
)

// Snapshot renders the inferred types of a result as canonical JSON. Hashes
// and seq values are left out so snapshots stay readable.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	types := make(value.Array, len(result.Types))
	for i, it := range result.Types {
		types[i] = value.Object{
			"query": value.String(it.Query),
			"type":  value.String(it.Type),
		}
	}
	return value.MarshalCanonical(value.Object{
		"scenario": value.String(scenarioName),
		"results":  types,
	})
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, snapshot)

	return nil
}
