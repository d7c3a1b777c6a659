package evaluator

import (
	"github.com/roach88/groqtype/internal/ast"
	"github.com/roach88/groqtype/internal/typesys"
)

type assertionAction int

const (
	assertDefined assertionAction = iota
	assertNotDefined
	assertEquals
)

// assertion is a fact a true condition establishes about an attribute path
// of the current value.
type assertion struct {
	path   []string
	action assertionAction
	value  typesys.Type // literal, for assertEquals
}

// extractAssertions collects the facts that hold whenever n is true (or,
// with negated set, whenever n is false).
func extractAssertions(n ast.Node, negated bool) []assertion {
	switch node := n.(type) {
	case *ast.Group:
		return extractAssertions(node.Base, negated)
	case *ast.Not:
		return extractAssertions(node.Base, !negated)
	case *ast.And:
		if negated {
			return nil
		}
		return append(extractAssertions(node.Left, false), extractAssertions(node.Right, false)...)
	case *ast.Or:
		if !negated {
			return nil
		}
		return append(extractAssertions(node.Left, true), extractAssertions(node.Right, true)...)
	case *ast.FuncCall:
		if ast.FullName(node.Namespace, node.Name) != "global::defined" || len(node.Args) != 1 {
			return nil
		}
		path, ok := attributePath(node.Args[0])
		if !ok {
			return nil
		}
		if negated {
			return []assertion{{path: path, action: assertNotDefined}}
		}
		return []assertion{{path: path, action: assertDefined}}
	case *ast.OpCall:
		if node.Op != ast.OpEq && node.Op != ast.OpNeq {
			return nil
		}
		path, lit, ok := pathAndLiteral(node.Left, node.Right)
		if !ok {
			return nil
		}
		equal := (node.Op == ast.OpEq) != negated
		if _, isNull := lit.(typesys.Null); isNull {
			if equal {
				return []assertion{{path: path, action: assertNotDefined}}
			}
			return []assertion{{path: path, action: assertDefined}}
		}
		if !equal {
			return nil
		}
		return []assertion{{path: path, action: assertEquals, value: lit}}
	default:
		return nil
	}
}

// pathAndLiteral matches `path == literal` in either order.
func pathAndLiteral(a, b ast.Node) ([]string, typesys.Type, bool) {
	if path, ok := attributePath(a); ok {
		if lit, ok := literalNode(b); ok {
			return path, lit, true
		}
	}
	if path, ok := attributePath(b); ok {
		if lit, ok := literalNode(a); ok {
			return path, lit, true
		}
	}
	return nil, nil, false
}

func literalNode(n ast.Node) (typesys.Type, bool) {
	if g, ok := n.(*ast.Group); ok {
		return literalNode(g.Base)
	}
	v, ok := n.(*ast.Value)
	if !ok {
		return nil, false
	}
	t := typesys.FromValue(v.Value)
	if _, isNull := t.(typesys.Null); isNull || typesys.IsLiteral(t) {
		return t, true
	}
	return nil, false
}

// attributePath turns `a.b.c` (rooted at the current value) into its names.
func attributePath(n ast.Node) ([]string, bool) {
	switch node := n.(type) {
	case *ast.Group:
		return attributePath(node.Base)
	case *ast.AccessAttribute:
		if node.Base == nil {
			return []string{node.Name}, true
		}
		if _, ok := node.Base.(*ast.This); ok {
			return []string{node.Name}, true
		}
		prefix, ok := attributePath(node.Base)
		if !ok {
			return nil, false
		}
		return append(append([]string(nil), prefix...), node.Name), true
	default:
		return nil, false
	}
}

// narrow applies assertions to every member of t. It returns false when
// the assertions contradict every member.
func (w *walker) narrow(t typesys.Type, asserts []assertion) (typesys.Type, bool) {
	if len(asserts) == 0 {
		return t, true
	}
	var kept []typesys.Type
	for _, m := range w.expand(t) {
		obj, ok := m.(typesys.Object)
		if !ok {
			kept = append(kept, m)
			continue
		}
		if narrowed, ok := w.applyAssertions(obj, asserts); ok {
			kept = append(kept, narrowed)
		}
	}
	if len(kept) == 0 {
		return nil, false
	}
	return typesys.UnionOf(kept...), true
}

// applyAssertions narrows the attributes of obj. Facts whose path ends at an
// attribute rewrite that attribute; longer paths force the attribute to
// exist (for positive facts) and recurse into its value.
func (w *walker) applyAssertions(obj typesys.Object, asserts []assertion) (typesys.Object, bool) {
	var order []string
	byName := make(map[string][]assertion)
	for _, a := range asserts {
		name := a.path[0]
		if _, seen := byName[name]; !seen {
			order = append(order, name)
		}
		byName[name] = append(byName[name], a)
	}

	for _, name := range order {
		var terminal, deeper []assertion
		positiveDeep := false
		for _, a := range byName[name] {
			if len(a.path) == 1 {
				terminal = append(terminal, a)
				continue
			}
			deeper = append(deeper, assertion{path: a.path[1:], action: a.action, value: a.value})
			if a.action != assertNotDefined {
				positiveDeep = true
			}
		}

		attr, present := obj.Attribute(name)
		if !present {
			// Reads as null.
			for _, a := range terminal {
				if a.action != assertNotDefined {
					return typesys.Object{}, false
				}
			}
			if positiveDeep {
				return typesys.Object{}, false
			}
			continue
		}

		v, optional := attr.Value, attr.Optional
		for _, a := range terminal {
			switch a.action {
			case assertDefined:
				optional = false
				v = typesys.RemoveNull(v)
				if isNever(v) {
					return typesys.Object{}, false
				}
			case assertNotDefined:
				if !optional && !w.admitsNull(v) {
					return typesys.Object{}, false
				}
				v = typesys.Null{}
			case assertEquals:
				if w.equality(v, a.value) == False {
					return typesys.Object{}, false
				}
				optional = false
				v = a.value
			}
		}

		if len(deeper) > 0 {
			if positiveDeep {
				optional = false
			}
			var kept []typesys.Type
			for _, m := range w.expand(v) {
				switch mv := m.(type) {
				case typesys.Object:
					if narrowed, ok := w.applyAssertions(mv, deeper); ok {
						kept = append(kept, narrowed)
					}
				case typesys.Unknown:
					kept = append(kept, m)
				default:
					// Nothing below a non-object: only negative facts hold.
					if !positiveDeep {
						kept = append(kept, m)
					}
				}
			}
			if len(kept) == 0 {
				return typesys.Object{}, false
			}
			v = typesys.UnionOf(kept...)
		}

		obj = obj.Set(typesys.Attribute{Name: name, Value: v, Optional: optional})
	}
	return obj, true
}

func (w *walker) admitsNull(t typesys.Type) bool {
	for _, m := range w.expand(t) {
		switch m.(type) {
		case typesys.Null, typesys.Unknown:
			return true
		}
	}
	return false
}

func isNever(t typesys.Type) bool {
	u, ok := t.(typesys.Union)
	return ok && len(u.Of) == 0
}
