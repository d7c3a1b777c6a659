package testutil

import (
	"strings"

	"github.com/roach88/groqtype/internal/ast"
	"github.com/roach88/groqtype/internal/value"
)

// Builders for query trees. They keep tests close to the query text they
// stand for.

// Path builds `a.b.c` rooted at the current value.
func Path(dotted string) ast.Node {
	var n ast.Node
	for _, name := range strings.Split(dotted, ".") {
		n = &ast.AccessAttribute{Base: n, Name: name}
	}
	return n
}

// Attr builds `base.name`.
func Attr(base ast.Node, name string) ast.Node {
	return &ast.AccessAttribute{Base: base, Name: name}
}

// Lit builds a literal from a Go value (string, float64, int, bool, nil).
func Lit(v any) ast.Node {
	val, err := value.FromAny(v)
	if err != nil {
		panic(err)
	}
	return &ast.Value{Value: val}
}

// Op builds a binary operator call.
func Op(op ast.Op, left, right ast.Node) ast.Node {
	return &ast.OpCall{Op: op, Left: left, Right: right}
}

// Eq builds `left == right`.
func Eq(left, right ast.Node) ast.Node { return Op(ast.OpEq, left, right) }

// And builds `left && right`.
func And(left, right ast.Node) ast.Node { return &ast.And{Left: left, Right: right} }

// Or builds `left || right`.
func Or(left, right ast.Node) ast.Node { return &ast.Or{Left: left, Right: right} }

// Not builds `!base`.
func Not(base ast.Node) ast.Node { return &ast.Not{Base: base} }

// Everything builds `*`.
func Everything() ast.Node { return &ast.Everything{} }

// Filter builds `base[expr]`.
func Filter(base, expr ast.Node) ast.Node { return &ast.Filter{Base: base, Expr: expr} }

// Project builds `base{expr}`.
func Project(base, expr ast.Node) ast.Node { return &ast.Projection{Base: base, Expr: expr} }

// Elem builds `base[i]`.
func Elem(base ast.Node, i int) ast.Node { return &ast.AccessElement{Base: base, Index: i} }

// Deref builds `base->`.
func Deref(base ast.Node) ast.Node { return &ast.Deref{Base: base} }

// Call builds `name(args...)` in the global namespace, or `ns::name(...)`
// when name contains "::".
func Call(name string, args ...ast.Node) ast.Node {
	ns := "global"
	if i := strings.Index(name, "::"); i >= 0 {
		ns, name = name[:i], name[i+2:]
	}
	return &ast.FuncCall{Namespace: ns, Name: name, Args: args}
}

// Object builds an object literal.
func Object(attrs ...ast.ObjectAttribute) ast.Node {
	return &ast.Object{Attributes: attrs}
}

// Field builds `"name": value`.
func Field(name string, v ast.Node) ast.ObjectAttribute {
	return &ast.ObjectAttributeValue{Name: name, Value: v}
}

// Splat builds `...value`.
func Splat(v ast.Node) ast.ObjectAttribute {
	return &ast.ObjectSplat{Value: v}
}

// CondSplat builds `cond => value`.
func CondSplat(cond, v ast.Node) ast.ObjectAttribute {
	return &ast.ObjectConditionalSplat{Condition: cond, Value: v}
}

// Array builds an array literal of plain elements.
func Array(elems ...ast.Node) ast.Node {
	arr := &ast.Array{}
	for _, e := range elems {
		arr.Elements = append(arr.Elements, &ast.ArrayElement{Value: e})
	}
	return arr
}
