package evaluator

import (
	"fmt"
	"log/slog"

	"github.com/roach88/groqtype/internal/ast"
	"github.com/roach88/groqtype/internal/typesys"
)

// Evaluator infers query result types against one schema.
//
// An Evaluator holds no per-query state and may be shared between
// goroutines.
type Evaluator struct {
	ctx  *Context
	opts Options
}

// New creates an Evaluator for schema.
func New(schema typesys.Schema, opts Options) *Evaluator {
	return &Evaluator{ctx: NewContext(schema), opts: opts.withDefaults()}
}

// Context returns the schema context.
func (ev *Evaluator) Context() *Context {
	return ev.ctx
}

// Evaluate returns the canonical result type of n.
//
// Evaluate panics with *UnhandledNodeError if n contains a node kind this
// package does not know.
func (ev *Evaluator) Evaluate(n ast.Node) typesys.Type {
	w := &walker{ctx: ev.ctx, opts: ev.opts, log: ev.opts.Logger}
	root := NewScope(typesys.ArrayOf(ev.ctx.AllDocuments()))
	result := typesys.Canonicalize(w.walk(n, root))

	w.log.Debug("evaluated query",
		"kind", n.Kind(),
		"result", result.String(),
	)
	return result
}

// Evaluate infers the result type of n against schema with default options.
func Evaluate(n ast.Node, schema typesys.Schema) typesys.Type {
	return New(schema, Options{}).Evaluate(n)
}

// EvaluateWithOptions is Evaluate with explicit options.
func EvaluateWithOptions(n ast.Node, schema typesys.Schema, opts Options) typesys.Type {
	return New(schema, opts).Evaluate(n)
}

// EvaluateChecked is Evaluate returning an UnhandledNodeError as an error
// instead of panicking.
func (ev *Evaluator) EvaluateChecked(n ast.Node) (t typesys.Type, err error) {
	defer func() {
		if r := recover(); r != nil {
			ue, ok := r.(*UnhandledNodeError)
			if !ok {
				panic(r)
			}
			t, err = nil, fmt.Errorf("evaluate: %w", ue)
		}
	}()
	return ev.Evaluate(n), nil
}

// walker carries the state of one evaluation.
type walker struct {
	ctx  *Context
	opts Options
	log  *slog.Logger

	depth       int
	depthWarned bool
}

func (w *walker) walk(n ast.Node, s *Scope) typesys.Type {
	if n == nil {
		panic(&UnhandledNodeError{})
	}
	if t, ok := w.opts.Overrides[n]; ok {
		return t
	}

	w.depth++
	defer func() { w.depth-- }()
	if w.depth > w.opts.MaxDepth {
		if !w.depthWarned {
			w.depthWarned = true
			w.log.Warn("max evaluation depth exceeded",
				"max_depth", w.opts.MaxDepth,
				"kind", n.Kind(),
			)
		}
		return typesys.Unknown{}
	}

	switch node := n.(type) {
	case *ast.Everything:
		return typesys.ArrayOf(w.ctx.AllDocuments())
	case *ast.This:
		return s.Value
	case *ast.Parent:
		if p := s.Parent(node.N); p != nil {
			return p.Value
		}
		return typesys.Null{}
	case *ast.Value:
		return typesys.FromValue(node.Value)
	case *ast.AccessAttribute:
		base := s.Value
		if node.Base != nil {
			base = w.walk(node.Base, s)
		}
		return w.readAttribute(base, node.Name)
	case *ast.AccessElement:
		return w.accessElement(w.walk(node.Base, s))
	case *ast.ArrayCoerce:
		return w.arrayCoerce(w.walk(node.Base, s))
	case *ast.Array:
		return w.arrayLiteral(node, s)
	case *ast.Object:
		return w.objectLiteral(node, s)
	case *ast.Filter:
		return w.filter(node, s)
	case *ast.Projection:
		return w.projection(node, s)
	case *ast.Map:
		return w.mapElements(node.Base, node.Expr, s, false)
	case *ast.FlatMap:
		return w.mapElements(node.Base, node.Expr, s, true)
	case *ast.OpCall:
		return w.opCall(node, s)
	case *ast.And, *ast.Or:
		return booleanType(w.resolveStrict(n, s))
	case *ast.Not:
		return not(w.walk(node.Base, s))
	case *ast.Neg:
		return fold(w.walk(node.Base, s), func(f float64) float64 { return -f })
	case *ast.Pos:
		return fold(w.walk(node.Base, s), func(f float64) float64 { return f })
	case *ast.Group:
		return w.walk(node.Base, s)
	case *ast.Select:
		return w.selectAlternatives(node, s)
	case *ast.Deref:
		return w.deref(w.walk(node.Base, s))
	case *ast.FuncCall:
		return w.call(node.Namespace, node.Name, node.Args, nil, false, s)
	case *ast.PipeFuncCall:
		base := w.walk(node.Base, s)
		return w.call(node.Namespace, node.Name, node.Args, base, true, s)
	case *ast.Parameter, *ast.Context, *ast.Slice, *ast.Asc, *ast.Desc, *ast.Tuple, *ast.InRange:
		// Carry no static type information.
		return typesys.Unknown{}
	default:
		panic(&UnhandledNodeError{Node: n})
	}
}

// expand resolves t into its concrete members: unions are flattened, inline
// declarations and references resolved, and object Rest chains merged in.
// The result never contains Union, Inline or Reference.
func (w *walker) expand(t typesys.Type) []typesys.Type {
	var out []typesys.Type
	w.expandInto(t, 0, &out)
	return out
}

func (w *walker) expandInto(t typesys.Type, depth int, out *[]typesys.Type) {
	if depth > w.opts.MaxDepth {
		*out = append(*out, typesys.Unknown{})
		return
	}

	switch v := t.(type) {
	case nil:
		*out = append(*out, typesys.Unknown{})
	case typesys.Union:
		for _, m := range v.Of {
			w.expandInto(m, depth, out)
		}
	case typesys.Inline:
		w.expandInto(w.ctx.DeclarationType(v.Name), depth+1, out)
	case typesys.Reference:
		*out = append(*out, typesys.ReferenceObject(v.To))
	case typesys.Object:
		if v.Rest == nil {
			*out = append(*out, v)
			return
		}
		var rest []typesys.Type
		w.expandInto(v.Rest, depth+1, &rest)
		own := typesys.Object{Attributes: v.Attributes, DereferencesTo: v.DereferencesTo}
		// A rest that reaches unknown may hold any attribute, so the whole
		// member is unknown.
		merged := false
		for _, r := range rest {
			switch rv := r.(type) {
			case typesys.Object:
				*out = append(*out, mergeUnder(own, rv))
			case typesys.Unknown:
				*out = append(*out, typesys.Unknown{})
			default:
				continue
			}
			merged = true
		}
		if !merged {
			*out = append(*out, own)
		}
	default:
		*out = append(*out, t)
	}
}

// mergeUnder adds base's attributes that own does not declare, after own's.
func mergeUnder(own, base typesys.Object) typesys.Object {
	out := own.WithAttributes(own.Attributes)
	for _, a := range base.Attributes {
		if _, exists := own.Attribute(a.Name); !exists {
			out.Attributes = append(out.Attributes, a)
		}
	}
	if out.DereferencesTo == "" {
		out.DereferencesTo = base.DereferencesTo
	}
	return out
}

// distribute applies f to every concrete member of t and unions the results.
func (w *walker) distribute(t typesys.Type, f func(typesys.Type) typesys.Type) typesys.Type {
	members := w.expand(t)
	results := make([]typesys.Type, 0, len(members))
	for _, m := range members {
		results = append(results, f(m))
	}
	return typesys.UnionOf(results...)
}

// readAttribute reads name from every object member of base. An optional
// attribute reads as its value or null.
func (w *walker) readAttribute(base typesys.Type, name string) typesys.Type {
	return w.distribute(base, func(m typesys.Type) typesys.Type {
		switch v := m.(type) {
		case typesys.Unknown:
			return typesys.Unknown{}
		case typesys.Object:
			a, ok := v.Attribute(name)
			if !ok {
				return typesys.Null{}
			}
			if a.Optional {
				return typesys.Nullable(a.Value)
			}
			return a.Value
		default:
			return typesys.Null{}
		}
	})
}

func (w *walker) accessElement(base typesys.Type) typesys.Type {
	return w.distribute(base, func(m typesys.Type) typesys.Type {
		switch v := m.(type) {
		case typesys.Unknown:
			return typesys.Unknown{}
		case typesys.Array:
			return typesys.Nullable(v.Of)
		default:
			return typesys.Null{}
		}
	})
}

func (w *walker) arrayCoerce(base typesys.Type) typesys.Type {
	return w.distribute(base, func(m typesys.Type) typesys.Type {
		switch m.(type) {
		case typesys.Unknown, typesys.Array:
			return m
		default:
			return typesys.Null{}
		}
	})
}

func (w *walker) arrayLiteral(n *ast.Array, s *Scope) typesys.Type {
	var elems []typesys.Type
	for _, e := range n.Elements {
		t := w.walk(e.Value, s)
		if !e.IsSplat {
			elems = append(elems, t)
			continue
		}
		for _, m := range w.expand(t) {
			if arr, ok := m.(typesys.Array); ok {
				elems = append(elems, arr.Of)
				continue
			}
			elems = append(elems, m)
		}
	}
	return typesys.ArrayOf(typesys.UnionOf(elems...))
}

// filter keeps every candidate whose condition is not provably false.
// Candidates whose condition is provably true are narrowed by it.
func (w *walker) filter(n *ast.Filter, s *Scope) typesys.Type {
	base := w.walk(n.Base, s)
	return w.distribute(base, func(m typesys.Type) typesys.Type {
		switch v := m.(type) {
		case typesys.Unknown:
			return typesys.Unknown{}
		case typesys.Array:
			arrayScope := s.Nested(v)
			var survivors []typesys.Type
			for _, candidate := range w.expand(v.Of) {
				cs := arrayScope.Hidden(candidate)
				switch w.resolveFilter(n.Expr, cs) {
				case False:
					continue
				case True:
					narrowed, ok := w.narrow(candidate, extractAssertions(n.Expr, false))
					if !ok {
						continue
					}
					survivors = append(survivors, narrowed)
				default:
					survivors = append(survivors, candidate)
				}
			}
			return typesys.ArrayOf(typesys.UnionOf(survivors...))
		default:
			return typesys.Null{}
		}
	})
}

func (w *walker) projection(n *ast.Projection, s *Scope) typesys.Type {
	project := func(m typesys.Type) typesys.Type {
		switch v := m.(type) {
		case typesys.Unknown:
			return typesys.Unknown{}
		case typesys.Object:
			return w.walk(n.Expr, s.Nested(v))
		default:
			return typesys.Null{}
		}
	}

	base := w.walk(n.Base, s)
	return w.distribute(base, func(m typesys.Type) typesys.Type {
		switch v := m.(type) {
		case typesys.Array:
			return typesys.ArrayOf(w.distribute(v.Of, project))
		case typesys.Unknown:
			return typesys.Null{}
		default:
			return project(m)
		}
	})
}

// mapElements evaluates expr once per element of base. With flat set, array
// results are spliced instead of nested.
func (w *walker) mapElements(baseNode, expr ast.Node, s *Scope, flat bool) typesys.Type {
	base := w.walk(baseNode, s)
	return w.distribute(base, func(m typesys.Type) typesys.Type {
		switch v := m.(type) {
		case typesys.Unknown:
			return typesys.Unknown{}
		case typesys.Array:
			arrayScope := s.Nested(v)
			var results []typesys.Type
			for _, elem := range w.expand(v.Of) {
				r := w.walk(expr, arrayScope.Hidden(elem))
				if !flat {
					results = append(results, r)
					continue
				}
				for _, rm := range w.expand(r) {
					if arr, ok := rm.(typesys.Array); ok {
						results = append(results, arr.Of)
						continue
					}
					results = append(results, rm)
				}
			}
			return typesys.ArrayOf(typesys.UnionOf(results...))
		default:
			return typesys.Null{}
		}
	})
}

func (w *walker) deref(base typesys.Type) typesys.Type {
	var resolve func(m typesys.Type) typesys.Type
	resolve = func(m typesys.Type) typesys.Type {
		switch v := m.(type) {
		case typesys.Array:
			return typesys.ArrayOf(w.distribute(v.Of, resolve))
		case typesys.Object:
			if v.DereferencesTo == "" {
				return typesys.Null{}
			}
			return w.ctx.DocumentType(v.DereferencesTo)
		default:
			return typesys.Null{}
		}
	}
	return w.distribute(base, resolve)
}

// selectAlternatives evaluates `select(...)`. Alternatives after one that
// is provably true are never reached.
func (w *walker) selectAlternatives(n *ast.Select, s *Scope) typesys.Type {
	var parts []typesys.Type
	guaranteed := false
	for _, alt := range n.Alternatives {
		switch w.resolveStrict(alt.Condition, s) {
		case False:
			continue
		case True:
			narrowed, ok := w.narrow(s.Value, extractAssertions(alt.Condition, false))
			if !ok {
				continue
			}
			parts = append(parts, w.walk(alt.Value, s.Hidden(narrowed)))
			guaranteed = true
		default:
			parts = append(parts, w.walk(alt.Value, s))
		}
		if guaranteed {
			break
		}
	}

	if !guaranteed {
		if n.Fallback != nil {
			parts = append(parts, w.walk(n.Fallback, s))
		} else if len(parts) > 0 {
			// No alternative is certain to match.
			parts = append(parts, typesys.Null{})
		}
	}
	if len(parts) == 0 {
		return typesys.Null{}
	}
	return typesys.UnionOf(parts...)
}
