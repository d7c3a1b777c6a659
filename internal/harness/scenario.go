package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/groqtype/internal/ast"
)

// Scenario is a set of queries inferred against one schema, with assertions
// on the results.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Schema is the path of the schema file (.yaml, .yml, .json or .cue).
	// LoadScenario resolves it relative to the scenario file.
	Schema string `yaml:"schema"`

	Options Options `yaml:"options,omitempty"`

	Queries []QueryCase `yaml:"queries"`

	// Assertions validate the inferred types.
	Assertions []Assertion `yaml:"assertions"`
}

// Options tunes the evaluator and the conformance checker.
type Options struct {
	MaxDepth        int  `yaml:"max_depth,omitempty"`
	MaxCombinations int  `yaml:"max_combinations,omitempty"`
	RequireOptional bool `yaml:"require_optional,omitempty"`
}

// QueryCase is one named query in the AST node format.
type QueryCase struct {
	Name  string    `yaml:"name"`
	Query yaml.Node `yaml:"query"`

	// Node is the decoded query. LoadScenario fills it from Query; scenarios
	// built in code may set it directly.
	Node ast.Node `yaml:"-"`
}

// Assertion validates one inferred type.
type Assertion struct {
	// Type specifies the assertion type:
	// - "type_equals": Rendered type equals Expect
	// - "accepts": Value conforms to the type
	// - "rejects": Value does not conform to the type
	// - "no_unknown": The type contains no unknown
	Type string `yaml:"type"`

	// Query names the QueryCase the assertion reads.
	Query string `yaml:"query"`

	// Expect is the rendered type (used by type_equals).
	Expect string `yaml:"expect,omitempty"`

	// Value is a sample result value (used by accepts and rejects).
	Value any `yaml:"value,omitempty"`
}

// Assertion type constants.
const (
	AssertTypeEquals = "type_equals"
	AssertAccepts    = "accepts"
	AssertRejects    = "rejects"
	AssertNoUnknown  = "no_unknown"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Schema != "" && !filepath.IsAbs(scenario.Schema) {
		scenario.Schema = filepath.Join(filepath.Dir(path), scenario.Schema)
	}
	if _, err := os.Stat(scenario.Schema); err != nil {
		return nil, fmt.Errorf("invalid scenario: schema file not found: %s", scenario.Schema)
	}

	return scenario, nil
}

// ParseScenario parses scenario YAML. The schema path is left as written.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i := range scenario.Queries {
		q := &scenario.Queries[i]
		if q.Query.Kind == 0 {
			continue
		}
		node, err := ast.Decode(&q.Query)
		if err != nil {
			return nil, fmt.Errorf("invalid scenario: queries[%d] (%s): %w", i, q.Name, err)
		}
		q.Node = node
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Schema == "" {
		return fmt.Errorf("schema is required")
	}

	if len(s.Queries) == 0 {
		return fmt.Errorf("queries list is required and must be non-empty")
	}

	names := make(map[string]bool, len(s.Queries))
	for i, q := range s.Queries {
		if q.Name == "" {
			return fmt.Errorf("queries[%d]: name is required", i)
		}
		if names[q.Name] {
			return fmt.Errorf("queries[%d]: duplicate name %q", i, q.Name)
		}
		names[q.Name] = true
		if q.Node == nil {
			return fmt.Errorf("queries[%d]: query is required", i)
		}
		if res := ast.Validate(q.Node); !res.Valid {
			return fmt.Errorf("queries[%d]: %s", i, res.Problems[0])
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a, names); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion, queries map[string]bool) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if !queries[a.Query] {
		return fmt.Errorf("assertions[%d]: unknown query %q", index, a.Query)
	}

	switch a.Type {
	case AssertTypeEquals:
		if a.Expect == "" {
			return fmt.Errorf("assertions[%d]: expect is required for type_equals", index)
		}
	case AssertAccepts, AssertRejects, AssertNoUnknown:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
