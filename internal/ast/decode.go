package ast

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/roach88/groqtype/internal/value"
)

// DecodeError reports a malformed node with its source position.
type DecodeError struct {
	Line    int
	Column  int
	Message string
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
	}
	return e.Message
}

func errorAt(n *yaml.Node, format string, args ...any) error {
	e := &DecodeError{Message: fmt.Sprintf(format, args...)}
	if n != nil {
		e.Line, e.Column = n.Line, n.Column
	}
	return e
}

// Parse decodes a query tree from the JSON node format. YAML is accepted too.
func Parse(data []byte) (Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &DecodeError{Message: err.Error()}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &DecodeError{Message: "empty document"}
	}
	return Decode(doc.Content[0])
}

// Decode decodes a query tree from a YAML node.
func Decode(n *yaml.Node) (Node, error) {
	d := decoder{}
	return d.node(n)
}

// decoder walks yaml nodes. It carries no state; methods exist to keep the
// per-kind helpers grouped.
type decoder struct{}

type fields struct {
	node *yaml.Node
	m    map[string]*yaml.Node
}

func (d decoder) fields(n *yaml.Node) (fields, error) {
	n = resolve(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return fields{}, errorAt(n, "expected a node mapping")
	}
	m := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		m[n.Content[i].Value] = resolve(n.Content[i+1])
	}
	return fields{node: n, m: m}, nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func (f fields) has(key string) bool {
	n, ok := f.m[key]
	return ok && !(n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

func (f fields) str(key string, required bool) (string, error) {
	n, ok := f.m[key]
	if !ok {
		if required {
			return "", errorAt(f.node, "missing %s", key)
		}
		return "", nil
	}
	if n.Kind != yaml.ScalarNode {
		return "", errorAt(n, "%s must be a string", key)
	}
	return n.Value, nil
}

func (f fields) integer(key string, required bool) (int, error) {
	n, ok := f.m[key]
	if !ok {
		if required {
			return 0, errorAt(f.node, "missing %s", key)
		}
		return 0, nil
	}
	var i int
	if err := n.Decode(&i); err != nil {
		return 0, errorAt(n, "%s must be an integer", key)
	}
	return i, nil
}

func (f fields) boolean(key string) (bool, error) {
	n, ok := f.m[key]
	if !ok {
		return false, nil
	}
	var b bool
	if err := n.Decode(&b); err != nil {
		return false, errorAt(n, "%s must be a boolean", key)
	}
	return b, nil
}

func (d decoder) child(f fields, key string) (Node, error) {
	n, ok := f.m[key]
	if !ok {
		return nil, errorAt(f.node, "missing %s", key)
	}
	child, err := d.node(n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return child, nil
}

func (d decoder) optionalChild(f fields, key string) (Node, error) {
	if !f.has(key) {
		return nil, nil
	}
	return d.child(f, key)
}

func (d decoder) list(f fields, key string) ([]*yaml.Node, error) {
	n, ok := f.m[key]
	if !ok {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, errorAt(n, "%s must be a list", key)
	}
	return n.Content, nil
}

func (d decoder) nodes(f fields, key string) ([]Node, error) {
	items, err := d.list(f, key)
	if err != nil {
		return nil, err
	}
	out := make([]Node, 0, len(items))
	for i, item := range items {
		child, err := d.node(item)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", key, i, err)
		}
		out = append(out, child)
	}
	return out, nil
}

// baseAndExpr decodes the common {base, expr} pair.
func (d decoder) baseAndExpr(f fields) (Node, Node, error) {
	base, err := d.child(f, "base")
	if err != nil {
		return nil, nil, err
	}
	expr, err := d.child(f, "expr")
	if err != nil {
		return nil, nil, err
	}
	return base, expr, nil
}

func (d decoder) node(n *yaml.Node) (Node, error) {
	f, err := d.fields(n)
	if err != nil {
		return nil, err
	}
	kind, err := f.str("type", true)
	if err != nil {
		return nil, err
	}

	switch kind {
	case "Everything":
		return &Everything{}, nil
	case "This":
		return &This{}, nil
	case "Parent":
		if !f.has("n") {
			return &Parent{N: 1}, nil
		}
		count, err := f.integer("n", true)
		if err != nil {
			return nil, err
		}
		return &Parent{N: count}, nil
	case "Parameter":
		name, err := f.str("name", true)
		if err != nil {
			return nil, err
		}
		return &Parameter{Name: name}, nil
	case "Context":
		key, err := f.str("key", true)
		if err != nil {
			return nil, err
		}
		return &Context{Key: key}, nil
	case "Value":
		v, err := d.literal(f)
		if err != nil {
			return nil, err
		}
		return &Value{Value: v}, nil
	case "AccessAttribute":
		base, err := d.optionalChild(f, "base")
		if err != nil {
			return nil, err
		}
		name, err := f.str("name", true)
		if err != nil {
			return nil, err
		}
		return &AccessAttribute{Base: base, Name: name}, nil
	case "AccessElement":
		base, err := d.child(f, "base")
		if err != nil {
			return nil, err
		}
		index, err := f.integer("index", true)
		if err != nil {
			return nil, err
		}
		return &AccessElement{Base: base, Index: index}, nil
	case "Slice":
		base, err := d.child(f, "base")
		if err != nil {
			return nil, err
		}
		s := &Slice{Base: base}
		if s.Left, err = f.integer("left", true); err != nil {
			return nil, err
		}
		if s.Right, err = f.integer("right", true); err != nil {
			return nil, err
		}
		if s.IsInclusive, err = f.boolean("isInclusive"); err != nil {
			return nil, err
		}
		return s, nil
	case "ArrayCoerce":
		base, err := d.child(f, "base")
		if err != nil {
			return nil, err
		}
		return &ArrayCoerce{Base: base}, nil
	case "Array":
		return d.array(f)
	case "Object":
		return d.object(f)
	case "Filter":
		base, expr, err := d.baseAndExpr(f)
		if err != nil {
			return nil, err
		}
		return &Filter{Base: base, Expr: expr}, nil
	case "Projection":
		base, expr, err := d.baseAndExpr(f)
		if err != nil {
			return nil, err
		}
		return &Projection{Base: base, Expr: expr}, nil
	case "Map":
		base, expr, err := d.baseAndExpr(f)
		if err != nil {
			return nil, err
		}
		return &Map{Base: base, Expr: expr}, nil
	case "FlatMap":
		base, expr, err := d.baseAndExpr(f)
		if err != nil {
			return nil, err
		}
		return &FlatMap{Base: base, Expr: expr}, nil
	case "OpCall":
		op, err := f.str("op", true)
		if err != nil {
			return nil, err
		}
		if !validOp(Op(op)) {
			return nil, errorAt(f.m["op"], "unknown operator %q", op)
		}
		left, right, err := d.leftRight(f)
		if err != nil {
			return nil, err
		}
		return &OpCall{Op: Op(op), Left: left, Right: right}, nil
	case "And":
		left, right, err := d.leftRight(f)
		if err != nil {
			return nil, err
		}
		return &And{Left: left, Right: right}, nil
	case "Or":
		left, right, err := d.leftRight(f)
		if err != nil {
			return nil, err
		}
		return &Or{Left: left, Right: right}, nil
	case "Not", "Neg", "Pos", "Group", "Deref", "Asc", "Desc":
		base, err := d.child(f, "base")
		if err != nil {
			return nil, err
		}
		return unary(kind, base), nil
	case "Select":
		return d.selectNode(f)
	case "FuncCall":
		namespace, name, args, err := d.call(f)
		if err != nil {
			return nil, err
		}
		return &FuncCall{Namespace: namespace, Name: name, Args: args}, nil
	case "PipeFuncCall":
		base, err := d.child(f, "base")
		if err != nil {
			return nil, err
		}
		namespace, name, args, err := d.call(f)
		if err != nil {
			return nil, err
		}
		return &PipeFuncCall{Base: base, Namespace: namespace, Name: name, Args: args}, nil
	case "Tuple":
		members, err := d.nodes(f, "members")
		if err != nil {
			return nil, err
		}
		return &Tuple{Members: members}, nil
	case "InRange":
		base, err := d.child(f, "base")
		if err != nil {
			return nil, err
		}
		left, right, err := d.leftRight(f)
		if err != nil {
			return nil, err
		}
		inclusive, err := f.boolean("isInclusive")
		if err != nil {
			return nil, err
		}
		return &InRange{Base: base, Left: left, Right: right, IsInclusive: inclusive}, nil
	default:
		return nil, errorAt(f.node, "unknown node type %q", kind)
	}
}

func unary(kind string, base Node) Node {
	switch kind {
	case "Not":
		return &Not{Base: base}
	case "Neg":
		return &Neg{Base: base}
	case "Pos":
		return &Pos{Base: base}
	case "Group":
		return &Group{Base: base}
	case "Deref":
		return &Deref{Base: base}
	case "Asc":
		return &Asc{Base: base}
	default:
		return &Desc{Base: base}
	}
}

func validOp(op Op) bool {
	for _, known := range Ops {
		if op == known {
			return true
		}
	}
	return false
}

func (d decoder) leftRight(f fields) (Node, Node, error) {
	left, err := d.child(f, "left")
	if err != nil {
		return nil, nil, err
	}
	right, err := d.child(f, "right")
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func (d decoder) literal(f fields) (value.Value, error) {
	n, ok := f.m["value"]
	if !ok {
		return nil, errorAt(f.node, "missing value")
	}
	var raw any
	if err := n.Decode(&raw); err != nil {
		return nil, errorAt(n, "value: %v", err)
	}
	v, err := value.FromAny(raw)
	if err != nil {
		return nil, errorAt(n, "value: %v", err)
	}
	return v, nil
}

func (d decoder) array(f fields) (Node, error) {
	items, err := d.list(f, "elements")
	if err != nil {
		return nil, err
	}
	arr := &Array{Elements: make([]*ArrayElement, 0, len(items))}
	for i, item := range items {
		ef, err := d.fields(item)
		if err != nil {
			return nil, fmt.Errorf("elements[%d]: %w", i, err)
		}
		if kind, _ := ef.str("type", false); kind != "ArrayElement" {
			return nil, errorAt(ef.node, "elements[%d]: expected ArrayElement, got %q", i, kind)
		}
		v, err := d.child(ef, "value")
		if err != nil {
			return nil, fmt.Errorf("elements[%d]: %w", i, err)
		}
		splat, err := ef.boolean("isSplat")
		if err != nil {
			return nil, err
		}
		arr.Elements = append(arr.Elements, &ArrayElement{Value: v, IsSplat: splat})
	}
	return arr, nil
}

func (d decoder) object(f fields) (Node, error) {
	items, err := d.list(f, "attributes")
	if err != nil {
		return nil, err
	}
	obj := &Object{Attributes: make([]ObjectAttribute, 0, len(items))}
	for i, item := range items {
		af, err := d.fields(item)
		if err != nil {
			return nil, fmt.Errorf("attributes[%d]: %w", i, err)
		}
		attr, err := d.objectAttribute(af)
		if err != nil {
			return nil, fmt.Errorf("attributes[%d]: %w", i, err)
		}
		obj.Attributes = append(obj.Attributes, attr)
	}
	return obj, nil
}

func (d decoder) objectAttribute(f fields) (ObjectAttribute, error) {
	kind, err := f.str("type", true)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "ObjectAttributeValue":
		name, err := f.str("name", true)
		if err != nil {
			return nil, err
		}
		v, err := d.child(f, "value")
		if err != nil {
			return nil, err
		}
		return &ObjectAttributeValue{Name: name, Value: v}, nil
	case "ObjectSplat":
		v, err := d.child(f, "value")
		if err != nil {
			return nil, err
		}
		return &ObjectSplat{Value: v}, nil
	case "ObjectConditionalSplat":
		cond, err := d.child(f, "condition")
		if err != nil {
			return nil, err
		}
		v, err := d.child(f, "value")
		if err != nil {
			return nil, err
		}
		return &ObjectConditionalSplat{Condition: cond, Value: v}, nil
	default:
		return nil, errorAt(f.node, "unknown object attribute type %q", kind)
	}
}

func (d decoder) selectNode(f fields) (Node, error) {
	items, err := d.list(f, "alternatives")
	if err != nil {
		return nil, err
	}
	sel := &Select{Alternatives: make([]*SelectAlternative, 0, len(items))}
	for i, item := range items {
		af, err := d.fields(item)
		if err != nil {
			return nil, fmt.Errorf("alternatives[%d]: %w", i, err)
		}
		cond, err := d.child(af, "condition")
		if err != nil {
			return nil, fmt.Errorf("alternatives[%d]: %w", i, err)
		}
		v, err := d.child(af, "value")
		if err != nil {
			return nil, fmt.Errorf("alternatives[%d]: %w", i, err)
		}
		sel.Alternatives = append(sel.Alternatives, &SelectAlternative{Condition: cond, Value: v})
	}
	if sel.Fallback, err = d.optionalChild(f, "fallback"); err != nil {
		return nil, err
	}
	return sel, nil
}

func (d decoder) call(f fields) (string, string, []Node, error) {
	namespace, err := f.str("namespace", false)
	if err != nil {
		return "", "", nil, err
	}
	if namespace == "" {
		namespace = "global"
	}
	name, err := f.str("name", true)
	if err != nil {
		return "", "", nil, err
	}
	args, err := d.nodes(f, "args")
	if err != nil {
		return "", "", nil, err
	}
	return namespace, name, args, nil
}
