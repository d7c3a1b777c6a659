package evaluator

import (
	"math"

	"github.com/roach88/groqtype/internal/ast"
	"github.com/roach88/groqtype/internal/typesys"
)

func (w *walker) opCall(n *ast.OpCall, s *Scope) typesys.Type {
	left := w.walk(n.Left, s)
	right := w.walk(n.Right, s)
	if n.Op.IsComparison() {
		return booleanType(w.compare(n.Op, left, right))
	}
	if !n.Op.IsArithmetic() {
		return typesys.Unknown{}
	}

	lm, rm := w.expand(left), w.expand(right)
	results := make([]typesys.Type, 0, len(lm)*len(rm))
	for _, l := range lm {
		for _, r := range rm {
			results = append(results, arithmetic(n.Op, l, r))
		}
	}
	return typesys.UnionOf(results...)
}

// arithmetic combines two concrete members. Mismatched kinds give null.
func arithmetic(op ast.Op, l, r typesys.Type) typesys.Type {
	if _, ok := l.(typesys.Unknown); ok {
		return typesys.Unknown{}
	}
	if _, ok := r.(typesys.Unknown); ok {
		return typesys.Unknown{}
	}

	switch lv := l.(type) {
	case typesys.Number:
		rv, ok := r.(typesys.Number)
		if !ok {
			return typesys.Null{}
		}
		if lv.Value == nil || rv.Value == nil {
			return typesys.Num()
		}
		return numberResult(applyNumeric(op, *lv.Value, *rv.Value))
	case typesys.String:
		rv, ok := r.(typesys.String)
		if !ok || op != ast.OpAdd {
			return typesys.Null{}
		}
		if lv.Value == nil || rv.Value == nil {
			return typesys.Str()
		}
		return typesys.StrLit(*lv.Value + *rv.Value)
	case typesys.Array:
		rv, ok := r.(typesys.Array)
		if !ok || op != ast.OpAdd {
			return typesys.Null{}
		}
		return typesys.ArrayOf(typesys.UnionOf(lv.Of, rv.Of))
	case typesys.Object:
		rv, ok := r.(typesys.Object)
		if !ok || op != ast.OpAdd {
			return typesys.Null{}
		}
		return typesys.Object{}.WithAttributes(lv.Attributes).Merge(rv)
	default:
		return typesys.Null{}
	}
}

func applyNumeric(op ast.Op, a, b float64) float64 {
	switch op {
	case ast.OpAdd:
		return a + b
	case ast.OpSub:
		return a - b
	case ast.OpMul:
		return a * b
	case ast.OpDiv:
		return a / b
	case ast.OpMod:
		return math.Mod(a, b)
	default:
		return math.Pow(a, b)
	}
}

// numberResult keeps f as a literal only when it is finite.
func numberResult(f float64) typesys.Type {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return typesys.Num()
	}
	return typesys.NumLit(f)
}

// not flips a boolean literal.
func not(t typesys.Type) typesys.Type {
	if b, ok := t.(typesys.Boolean); ok && b.Value != nil {
		return typesys.BoolLit(!*b.Value)
	}
	return typesys.Bool()
}

// fold applies f to a number literal. Anything else is unknown.
func fold(t typesys.Type, f func(float64) float64) typesys.Type {
	if n, ok := t.(typesys.Number); ok && n.Value != nil {
		return numberResult(f(*n.Value))
	}
	return typesys.Unknown{}
}
