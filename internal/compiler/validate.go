package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/groqtype/internal/typesys"
)

// Validation error codes (E100-E199)
const (
	ErrEmptyName            = "E101" // document, declaration or attribute without a name
	ErrDuplicateDocument    = "E102" // document name declared twice
	ErrDuplicateDeclaration = "E103" // type name declared twice
	ErrDuplicateAttribute   = "E104" // attribute declared twice on one object
	ErrUndefinedInline      = "E105" // inline names no declaration
	ErrUndefinedReference   = "E106" // reference names no document
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidateSchema checks a compiled schema for names that do not resolve and
// names declared twice. The evaluator tolerates both (a dangling name reads
// as null, the first of two declarations wins) so these are reported to
// the author rather than enforced.
// Returns all errors found (does not fail-fast).
func ValidateSchema(s typesys.Schema) []ValidationError {
	v := &schemaValidator{
		documents:    make(map[string]bool),
		declarations: make(map[string]bool),
	}

	for _, d := range s.Documents {
		v.documents[d.Name] = true
	}
	for _, d := range s.Declarations {
		v.declarations[d.Name] = true
	}

	seen := make(map[string]bool)
	for i, d := range s.Documents {
		field := fmt.Sprintf("documents[%d]", i)
		if strings.TrimSpace(d.Name) == "" {
			v.add(field, ErrEmptyName, "document name is required")
		} else if seen[d.Name] {
			v.add(field, ErrDuplicateDocument, "duplicate document name: %q", d.Name)
		}
		seen[d.Name] = true
		v.validateAttributes("documents."+d.Name, d.Attributes)
	}

	seen = make(map[string]bool)
	for i, d := range s.Declarations {
		field := fmt.Sprintf("types[%d]", i)
		if strings.TrimSpace(d.Name) == "" {
			v.add(field, ErrEmptyName, "type name is required")
		} else if seen[d.Name] {
			v.add(field, ErrDuplicateDeclaration, "duplicate type name: %q", d.Name)
		}
		seen[d.Name] = true
		v.validateType("types."+d.Name, d.Value)
	}

	return v.errs
}

// schemaValidator accumulates errors during traversal.
type schemaValidator struct {
	documents    map[string]bool
	declarations map[string]bool
	errs         []ValidationError
}

func (v *schemaValidator) add(field, code, format string, args ...any) {
	v.errs = append(v.errs, ValidationError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
		Code:    code,
	})
}

func (v *schemaValidator) validateAttributes(field string, attrs []typesys.Attribute) {
	seen := make(map[string]bool)
	for _, a := range attrs {
		if a.Name == "" {
			v.add(field, ErrEmptyName, "attribute name is required")
			continue
		}
		if seen[a.Name] {
			v.add(field+"."+a.Name, ErrDuplicateAttribute, "duplicate attribute: %q", a.Name)
		}
		seen[a.Name] = true
		v.validateType(field+"."+a.Name, a.Value)
	}
}

func (v *schemaValidator) validateType(field string, t typesys.Type) {
	switch tt := t.(type) {
	case typesys.Inline:
		if !v.declarations[tt.Name] {
			v.add(field, ErrUndefinedInline, "inline names undefined type %q", tt.Name)
		}
	case typesys.Reference:
		if !v.documents[tt.To] {
			v.add(field, ErrUndefinedReference, "reference names undefined document %q", tt.To)
		}
	case typesys.Array:
		v.validateType(field+"[]", tt.Of)
	case typesys.Union:
		for _, m := range tt.Of {
			v.validateType(field, m)
		}
	case typesys.Object:
		v.validateAttributes(field, tt.Attributes)
		if tt.Rest != nil {
			v.validateType(field+"...", tt.Rest)
		}
		if tt.DereferencesTo != "" && !v.documents[tt.DereferencesTo] {
			v.add(field, ErrUndefinedReference, "dereferences to undefined document %q", tt.DereferencesTo)
		}
	}
}
