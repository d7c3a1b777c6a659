package evaluator

import (
	"github.com/roach88/groqtype/internal/ast"
	"github.com/roach88/groqtype/internal/typesys"
)

// Tristate is the outcome of resolving a condition statically.
type Tristate int

const (
	// False means the condition is false for every possible value.
	False Tristate = iota
	// True means the condition is true for every possible value.
	True
	// Indeterminate means the outcome depends on runtime data.
	Indeterminate
)

func (t Tristate) String() string {
	switch t {
	case False:
		return "false"
	case True:
		return "true"
	default:
		return "indeterminate"
	}
}

func (t Tristate) negate() Tristate {
	switch t {
	case False:
		return True
	case True:
		return False
	default:
		return Indeterminate
	}
}

func fromBool(b bool) Tristate {
	if b {
		return True
	}
	return False
}

// booleanType is the boolean type carrying t as a literal when decided.
func booleanType(t Tristate) typesys.Type {
	switch t {
	case False:
		return typesys.BoolLit(false)
	case True:
		return typesys.BoolLit(true)
	default:
		return typesys.Bool()
	}
}

// resolveFilter resolves a filter predicate. Conditions the resolver has no
// rule for count as true unless their type proves otherwise, so a filter
// only drops what it can show never matches.
func (w *walker) resolveFilter(n ast.Node, s *Scope) Tristate {
	return w.resolve(n, s, True)
}

// resolveStrict resolves a condition whose outcome selects a branch (select
// alternatives, conditional splats, boolean operators). Conditions without a
// rule are indeterminate unless their type decides them.
func (w *walker) resolveStrict(n ast.Node, s *Scope) Tristate {
	return w.resolve(n, s, Indeterminate)
}

func (w *walker) resolve(n ast.Node, s *Scope, fallback Tristate) Tristate {
	if _, pinned := w.opts.Overrides[n]; pinned {
		return w.resolveByType(n, s, fallback)
	}
	switch node := n.(type) {
	case *ast.Value:
		if b, ok := typesys.FromValue(node.Value).(typesys.Boolean); ok && b.Value != nil {
			return fromBool(*b.Value)
		}
		return False
	case *ast.Group:
		return w.resolve(node.Base, s, fallback)
	case *ast.And:
		left := w.resolve(node.Left, s, fallback)
		if left == False {
			return False
		}
		right := w.resolve(node.Right, s, fallback)
		switch {
		case right == False:
			return False
		case left == True && right == True:
			return True
		default:
			return Indeterminate
		}
	case *ast.Or:
		left := w.resolve(node.Left, s, fallback)
		if left == True {
			return True
		}
		right := w.resolve(node.Right, s, fallback)
		switch {
		case right == True:
			return True
		case left == False && right == False:
			return False
		default:
			return Indeterminate
		}
	case *ast.OpCall:
		if node.Op.IsComparison() {
			return w.compare(node.Op, w.walk(node.Left, s), w.walk(node.Right, s))
		}
	}
	return w.resolveByType(n, s, fallback)
}

// resolveByType decides a condition from the type of its value: a boolean
// literal decides it, a value that can never be a boolean is false (only
// true passes a condition) and anything else gives fallback.
func (w *walker) resolveByType(n ast.Node, s *Scope, fallback Tristate) Tristate {
	t := w.walk(n, s)
	if b, ok := t.(typesys.Boolean); ok && b.Value != nil {
		return fromBool(*b.Value)
	}
	for _, m := range w.expand(t) {
		switch m.(type) {
		case typesys.Boolean, typesys.Unknown:
			return fallback
		}
	}
	return False
}
