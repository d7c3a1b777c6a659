// Package harness runs query scenarios against a schema and checks the
// inferred result types.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	schema: blog.schema.yaml        # .yaml, .json or .cue, relative to the scenario
//	options:
//	  max_depth: 64
//	  require_optional: false
//	queries:
//	  - name: authors
//	    query:
//	      type: Filter
//	      base: {type: Everything}
//	      expr: {type: OpCall, op: "==", left: {type: AccessAttribute, name: _type}, right: {type: Value, value: author}}
//	assertions:
//	  - type: type_equals
//	    query: authors
//	    expect: 'array<{...}>'
//	  - type: accepts
//	    query: authors
//	    value: [{_id: a1, _type: author}]
//
// # Assertion Types
//
//   - type_equals: the rendered result type equals expect
//   - accepts: the conformance checker accepts value for the result type
//   - rejects: the conformance checker rejects value
//   - no_unknown: unknown appears nowhere in the result type
//
// # Deterministic Testing
//
// Every run uses a fresh in-memory store and a testutil.DeterministicClock,
// so inference records and golden snapshots are identical across runs.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/blog.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
package harness
