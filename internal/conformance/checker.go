package conformance

import (
	"fmt"

	"github.com/roach88/groqtype/internal/evaluator"
	"github.com/roach88/groqtype/internal/typesys"
	"github.com/roach88/groqtype/internal/value"
)

// Mismatch is one place where a value does not conform to a type.
type Mismatch struct {
	// Path locates the offending value, "$" being the root.
	Path    string
	Message string
}

func (m Mismatch) String() string {
	return m.Path + ": " + m.Message
}

// Checker checks values against types declared in one schema.
type Checker struct {
	ctx *evaluator.Context

	// RequireOptional makes optional attributes required to be present.
	RequireOptional bool
}

// NewChecker returns a Checker that resolves inline declarations in schema.
func NewChecker(schema typesys.Schema) *Checker {
	return &Checker{ctx: evaluator.NewContext(schema)}
}

// Satisfies reports whether v conforms to t.
func (c *Checker) Satisfies(t typesys.Type, v value.Value) bool {
	return len(c.Check(t, v)) == 0
}

// Check returns every mismatch between v and t. A union member that fails
// contributes no detail; only the union itself is reported.
func (c *Checker) Check(t typesys.Type, v value.Value) []Mismatch {
	ch := &checker{Checker: c}
	ch.check("$", t, v)
	return ch.mismatches
}

// checker accumulates mismatches during traversal.
type checker struct {
	*Checker
	mismatches []Mismatch
}

func (ch *checker) addMismatch(path, format string, args ...any) {
	ch.mismatches = append(ch.mismatches, Mismatch{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (ch *checker) check(path string, t typesys.Type, v value.Value) {
	if v == nil {
		v = value.Null{}
	}

	switch tt := t.(type) {
	case nil, typesys.Unknown:
	case typesys.Null:
		if _, ok := v.(value.Null); !ok {
			ch.addMismatch(path, "expected null, got %s", value.Kind(v))
		}
	case typesys.Boolean, typesys.Number, typesys.String:
		ch.checkPrimitive(path, t, v)
	case typesys.Array:
		arr, ok := v.(value.Array)
		if !ok {
			ch.addMismatch(path, "expected array, got %s", value.Kind(v))
			return
		}
		for i, elem := range arr {
			ch.check(fmt.Sprintf("%s[%d]", path, i), tt.Of, elem)
		}
	case typesys.Object:
		ch.checkObject(path, tt, v)
	case typesys.Reference:
		ch.checkObject(path, typesys.ReferenceObject(tt.To), v)
	case typesys.Inline:
		ch.check(path, ch.ctx.DeclarationType(tt.Name), v)
	case typesys.Union:
		for _, m := range tt.Of {
			if ch.Satisfies(m, v) {
				return
			}
		}
		ch.addMismatch(path, "%s does not match %s", value.Kind(v), tt)
	default:
		ch.addMismatch(path, "unsupported type %T", t)
	}
}

func (ch *checker) checkPrimitive(path string, t typesys.Type, v value.Value) {
	kind := typesys.Kind(t)
	if value.Kind(v) != kind {
		ch.addMismatch(path, "expected %s, got %s", kind, value.Kind(v))
		return
	}
	if lit, ok := typesys.Literal(t); ok && !value.Equal(lit, v) {
		ch.addMismatch(path, "expected %s", t)
	}
}

func (ch *checker) checkObject(path string, t typesys.Object, v value.Value) {
	obj, ok := v.(value.Object)
	if !ok {
		ch.addMismatch(path, "expected object, got %s", value.Kind(v))
		return
	}

	attrs, ok := ch.attributes(t)
	if !ok {
		return
	}
	for _, a := range attrs {
		field, present := obj[a.Name]
		attrPath := path + "." + a.Name
		if !present {
			if !a.Optional || ch.RequireOptional {
				ch.addMismatch(attrPath, "missing attribute")
			}
			continue
		}
		ch.check(attrPath, a.Value, field)
	}
}

// attributes returns t's attributes followed by those its Rest chain adds.
// It returns false when the chain reaches unknown, which accepts any value.
func (ch *checker) attributes(t typesys.Object) ([]typesys.Attribute, bool) {
	merged := typesys.Object{}.WithAttributes(t.Attributes)
	seen := make(map[string]bool)
	for rest := t.Rest; rest != nil; {
		switch r := rest.(type) {
		case typesys.Inline:
			if seen[r.Name] {
				return merged.Attributes, true
			}
			seen[r.Name] = true
			rest = ch.ctx.DeclarationType(r.Name)
		case typesys.Object:
			for _, a := range r.Attributes {
				if _, exists := merged.Attribute(a.Name); !exists {
					merged.Attributes = append(merged.Attributes, a)
				}
			}
			rest = r.Rest
		case typesys.Unknown:
			return nil, false
		default:
			rest = nil
		}
	}
	return merged.Attributes, true
}
