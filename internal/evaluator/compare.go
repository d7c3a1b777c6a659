package evaluator

import (
	"github.com/roach88/groqtype/internal/ast"
	"github.com/roach88/groqtype/internal/typesys"
	"github.com/roach88/groqtype/internal/value"
)

// compare resolves a comparison between operands of type left and right.
func (w *walker) compare(op ast.Op, left, right typesys.Type) Tristate {
	switch op {
	case ast.OpEq:
		return w.equality(left, right)
	case ast.OpNeq:
		return w.equality(left, right).negate()
	case ast.OpGt, ast.OpGte, ast.OpLt, ast.OpLte:
		return w.ordering(op, left, right)
	case ast.OpIn:
		return w.membership(left, right)
	case ast.OpMatch:
		return w.match(left, right)
	default:
		return Indeterminate
	}
}

func (w *walker) equality(left, right typesys.Type) Tristate {
	lm, rm := w.expand(left), w.expand(right)
	if hasUnknown(lm) || hasUnknown(rm) {
		return Indeterminate
	}

	allFalse, allTrue := true, true
	for _, l := range lm {
		for _, r := range rm {
			res := equalMembers(l, r)
			if res != False {
				allFalse = false
			}
			if res != True {
				allTrue = false
			}
		}
	}

	switch {
	case allFalse:
		return False
	case allTrue:
		return True
	default:
		return Indeterminate
	}
}

// equalMembers compares two concrete, non-union members.
func equalMembers(l, r typesys.Type) Tristate {
	if typesys.Kind(l) != typesys.Kind(r) {
		return False
	}
	lv, lok := typesys.Literal(l)
	rv, rok := typesys.Literal(r)
	if lok && rok {
		return fromBool(value.Equal(lv, rv))
	}
	return Indeterminate
}

func hasUnknown(members []typesys.Type) bool {
	for _, m := range members {
		if _, ok := m.(typesys.Unknown); ok {
			return true
		}
	}
	return false
}

// ordering needs both sides to be literals of the same orderable kind.
func (w *walker) ordering(op ast.Op, left, right typesys.Type) Tristate {
	lm, rm := w.expand(left), w.expand(right)
	if len(lm) != 1 || len(rm) != 1 {
		return Indeterminate
	}
	lv, lok := typesys.Literal(lm[0])
	rv, rok := typesys.Literal(rm[0])
	if !lok || !rok {
		return Indeterminate
	}

	var cmp int
	switch a := lv.(type) {
	case value.Number:
		b, ok := rv.(value.Number)
		if !ok {
			return Indeterminate
		}
		cmp = compareOrdered(a, b)
	case value.String:
		b, ok := rv.(value.String)
		if !ok {
			return Indeterminate
		}
		cmp = compareOrdered(a, b)
	default:
		return Indeterminate
	}

	switch op {
	case ast.OpGt:
		return fromBool(cmp > 0)
	case ast.OpGte:
		return fromBool(cmp >= 0)
	case ast.OpLt:
		return fromBool(cmp < 0)
	default:
		return fromBool(cmp <= 0)
	}
}

func compareOrdered[T value.Number | value.String](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// membership resolves `left in right` where right is an array whose
// elements are all literals.
func (w *walker) membership(left, right typesys.Type) Tristate {
	needles, ok := w.literals(left)
	if !ok {
		return Indeterminate
	}
	rm := w.expand(right)
	if len(rm) != 1 {
		return Indeterminate
	}
	arr, isArray := rm[0].(typesys.Array)
	if !isArray {
		return Indeterminate
	}
	haystack, ok := w.literals(arr.Of)
	if !ok {
		return Indeterminate
	}

	found := 0
	for _, n := range needles {
		for _, h := range haystack {
			if value.Equal(n, h) {
				found++
				break
			}
		}
	}
	switch found {
	case len(needles):
		return True
	case 0:
		return False
	default:
		return Indeterminate
	}
}

// literals returns the literal values of every member of t, or false when
// some member is not a literal.
func (w *walker) literals(t typesys.Type) ([]value.Value, bool) {
	members := w.expand(t)
	out := make([]value.Value, 0, len(members))
	for _, m := range members {
		v, ok := typesys.Literal(m)
		if !ok {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

// match resolves `text match pattern` when both sides are literal strings
// or arrays of literal strings.
func (w *walker) match(left, right typesys.Type) Tristate {
	texts, ok := w.literalStrings(left)
	if !ok {
		return Indeterminate
	}
	patterns, ok := w.literalStrings(right)
	if !ok {
		return Indeterminate
	}
	return fromBool(MatchText(texts, patterns))
}

func (w *walker) literalStrings(t typesys.Type) ([]string, bool) {
	members := w.expand(t)
	if len(members) != 1 {
		return nil, false
	}
	switch v := members[0].(type) {
	case typesys.String:
		if v.Value == nil {
			return nil, false
		}
		return []string{*v.Value}, true
	case typesys.Array:
		vals, ok := w.literals(v.Of)
		if !ok {
			return nil, false
		}
		out := make([]string, 0, len(vals))
		for _, val := range vals {
			s, isString := val.(value.String)
			if !isString {
				return nil, false
			}
			out = append(out, string(s))
		}
		return out, true
	default:
		return nil, false
	}
}
