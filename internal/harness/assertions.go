package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/groqtype/internal/conformance"
	"github.com/roach88/groqtype/internal/typesys"
	"github.com/roach88/groqtype/internal/value"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Query    string
	Expected string
	Actual   string

	// Mismatches lists conformance failures for accepts assertions.
	Mismatches []conformance.Mismatch
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s (query %s)\n", e.Type, e.Query)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	for _, m := range e.Mismatches {
		fmt.Fprintf(&buf, "\n    %s", m)
	}

	return buf.String()
}

func assertTypeEquals(t typesys.Type, a Assertion) error {
	if got := t.String(); got != a.Expect {
		return &AssertionError{Type: a.Type, Query: a.Query, Expected: a.Expect, Actual: got}
	}
	return nil
}

func assertConforms(t typesys.Type, a Assertion, checker *conformance.Checker) error {
	v, err := value.FromAny(a.Value)
	if err != nil {
		return fmt.Errorf("assertion %s (query %s): bad value: %w", a.Type, a.Query, err)
	}

	mismatches := checker.Check(t, v)
	accepted := len(mismatches) == 0

	switch {
	case a.Type == AssertAccepts && !accepted:
		return &AssertionError{
			Type:       a.Type,
			Query:      a.Query,
			Expected:   "value conforms to " + t.String(),
			Actual:     fmt.Sprintf("%d mismatches", len(mismatches)),
			Mismatches: mismatches,
		}
	case a.Type == AssertRejects && accepted:
		return &AssertionError{
			Type:     a.Type,
			Query:    a.Query,
			Expected: "value does not conform to " + t.String(),
			Actual:   "value conforms",
		}
	}
	return nil
}

func assertNoUnknown(t typesys.Type, a Assertion) error {
	if containsUnknown(t) {
		return &AssertionError{Type: a.Type, Query: a.Query, Expected: "no unknown", Actual: t.String()}
	}
	return nil
}

// containsUnknown reports whether unknown appears anywhere in t. Inline and
// Reference names are not followed.
func containsUnknown(t typesys.Type) bool {
	switch v := t.(type) {
	case typesys.Unknown:
		return true
	case typesys.Array:
		return v.Of == nil || containsUnknown(v.Of)
	case typesys.Object:
		for _, attr := range v.Attributes {
			if containsUnknown(attr.Value) {
				return true
			}
		}
		return v.Rest != nil && containsUnknown(v.Rest)
	case typesys.Union:
		for _, m := range v.Of {
			if containsUnknown(m) {
				return true
			}
		}
	}
	return false
}

// EvaluateAssertions evaluates all assertions against the inferred types.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(types map[string]typesys.Type, assertions []Assertion, checker *conformance.Checker) []string {
	var errors []string

	for i, assertion := range assertions {
		t, ok := types[assertion.Query]
		if !ok {
			errors = append(errors, fmt.Sprintf("assertion[%d]: unknown query %q", i, assertion.Query))
			continue
		}

		var err error
		switch assertion.Type {
		case AssertTypeEquals:
			err = assertTypeEquals(t, assertion)
		case AssertAccepts, AssertRejects:
			err = assertConforms(t, assertion, checker)
		case AssertNoUnknown:
			err = assertNoUnknown(t, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
