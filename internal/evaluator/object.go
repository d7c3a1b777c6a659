package evaluator

import (
	"github.com/roach88/groqtype/internal/ast"
	"github.com/roach88/groqtype/internal/typesys"
)

// objectLiteral evaluates `{...}`.
//
// The literal is built as a list of rows, one per combination of splat
// outcomes seen so far. Plain attributes are written into every row. A splat
// of a union multiplies the rows by its object members. A conditional splat
// that cannot be decided multiplies them by {not merged, merged}. Rows are
// de-duplicated after every attribute so growth stays bounded by the number
// of distinct shapes.
func (w *walker) objectLiteral(n *ast.Object, s *Scope) typesys.Type {
	rows := []typesys.Object{{}}

	for _, a := range n.Attributes {
		switch attr := a.(type) {
		case *ast.ObjectAttributeValue:
			v := w.walk(attr.Value, s)
			for i := range rows {
				rows[i] = rows[i].Set(typesys.Attr(attr.Name, v))
			}
		case *ast.ObjectSplat:
			variants, unknown := w.splatVariants(w.walk(attr.Value, s))
			if unknown {
				return typesys.Unknown{}
			}
			rows = product(rows, variants)
		case *ast.ObjectConditionalSplat:
			switch w.resolveStrict(attr.Condition, s) {
			case False:
				continue
			case True:
				narrowed, ok := w.narrow(s.Value, extractAssertions(attr.Condition, false))
				if !ok {
					continue
				}
				variants, unknown := w.splatVariants(w.walk(attr.Value, s.Hidden(narrowed)))
				if unknown {
					return typesys.Unknown{}
				}
				rows = product(rows, variants)
			default:
				variants, unknown := w.splatVariants(w.walk(attr.Value, s))
				if unknown {
					return typesys.Unknown{}
				}
				rows = product(rows, append([]typesys.Object{{}}, variants...))
			}
		default:
			panic(&UnhandledNodeError{Attribute: a})
		}

		rows = dedupRows(rows)
		if len(rows) > w.opts.MaxCombinations {
			w.log.Warn("object literal combinations exceeded",
				"rows", len(rows),
				"max_combinations", w.opts.MaxCombinations,
			)
			return typesys.Unknown{}
		}
	}

	members := make([]typesys.Type, len(rows))
	for i, r := range rows {
		members[i] = r
	}
	return typesys.UnionOf(members...)
}

// splatVariants lists the attribute sets a splat of t may contribute.
// Members that are not objects contribute nothing. The second result is true
// when some member is unknown.
func (w *walker) splatVariants(t typesys.Type) ([]typesys.Object, bool) {
	var variants []typesys.Object
	for _, m := range w.expand(t) {
		switch v := m.(type) {
		case typesys.Unknown:
			return nil, true
		case typesys.Object:
			variants = append(variants, typesys.Object{}.WithAttributes(v.Attributes))
		default:
			variants = append(variants, typesys.Object{})
		}
	}
	if len(variants) == 0 {
		variants = append(variants, typesys.Object{})
	}
	return variants, false
}

// product merges every variant into every row, row-major.
func product(rows, variants []typesys.Object) []typesys.Object {
	out := make([]typesys.Object, 0, len(rows)*len(variants))
	for _, r := range rows {
		for _, v := range variants {
			out = append(out, r.Merge(v))
		}
	}
	return out
}

func dedupRows(rows []typesys.Object) []typesys.Object {
	seen := make(map[string]struct{}, len(rows))
	out := rows[:0:0]
	for _, r := range rows {
		h := typesys.Hash(typesys.Canonicalize(r))
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, r)
	}
	return out
}
