package ast

import (
	"fmt"

	"github.com/roach88/groqtype/internal/value"
)

// Marshal encodes a query tree in the JSON node format Parse reads. Keys are
// written in canonical order, so equal trees encode to equal bytes.
func Marshal(n Node) ([]byte, error) {
	v, err := ToValue(n)
	if err != nil {
		return nil, err
	}
	return value.MarshalExact(v)
}

// Hash returns the content hash of a query tree.
func Hash(n Node) (string, error) {
	v, err := ToValue(n)
	if err != nil {
		return "", err
	}
	return value.Hash(value.DomainQuery, v)
}

// ToValue converts a query tree to its JSON node form.
func ToValue(n Node) (value.Value, error) {
	if n == nil {
		return nil, fmt.Errorf("nil node")
	}
	obj := value.Object{"type": value.String(n.Kind())}
	set := func(key string, child Node) error {
		if child == nil {
			return nil
		}
		v, err := ToValue(child)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		obj[key] = v
		return nil
	}
	list := func(key string, children []Node) error {
		arr := make(value.Array, len(children))
		for i, c := range children {
			v, err := ToValue(c)
			if err != nil {
				return fmt.Errorf("%s[%d]: %w", key, i, err)
			}
			arr[i] = v
		}
		obj[key] = arr
		return nil
	}

	var err error
	switch node := n.(type) {
	case *Everything, *This:
	case *Parent:
		obj["n"] = value.Number(node.N)
	case *Parameter:
		obj["name"] = value.String(node.Name)
	case *Context:
		obj["key"] = value.String(node.Key)
	case *Value:
		if node.Value == nil {
			obj["value"] = value.Null{}
		} else {
			obj["value"] = node.Value
		}
	case *AccessAttribute:
		obj["name"] = value.String(node.Name)
		err = set("base", node.Base)
	case *AccessElement:
		obj["index"] = value.Number(node.Index)
		err = set("base", node.Base)
	case *Slice:
		obj["left"] = value.Number(node.Left)
		obj["right"] = value.Number(node.Right)
		obj["isInclusive"] = value.Bool(node.IsInclusive)
		err = set("base", node.Base)
	case *ArrayCoerce:
		err = set("base", node.Base)
	case *Array:
		elems := make(value.Array, len(node.Elements))
		for i, e := range node.Elements {
			v, verr := ToValue(e.Value)
			if verr != nil {
				return nil, fmt.Errorf("elements[%d]: %w", i, verr)
			}
			elems[i] = value.Object{
				"type":    value.String("ArrayElement"),
				"value":   v,
				"isSplat": value.Bool(e.IsSplat),
			}
		}
		obj["elements"] = elems
	case *Object:
		attrs := make(value.Array, len(node.Attributes))
		for i, a := range node.Attributes {
			v, aerr := attributeValue(a)
			if aerr != nil {
				return nil, fmt.Errorf("attributes[%d]: %w", i, aerr)
			}
			attrs[i] = v
		}
		obj["attributes"] = attrs
	case *Filter:
		err = pair(set, node.Base, node.Expr)
	case *Projection:
		err = pair(set, node.Base, node.Expr)
	case *Map:
		err = pair(set, node.Base, node.Expr)
	case *FlatMap:
		err = pair(set, node.Base, node.Expr)
	case *OpCall:
		obj["op"] = value.String(string(node.Op))
		err = leftRight(set, node.Left, node.Right)
	case *And:
		err = leftRight(set, node.Left, node.Right)
	case *Or:
		err = leftRight(set, node.Left, node.Right)
	case *Not:
		err = set("base", node.Base)
	case *Neg:
		err = set("base", node.Base)
	case *Pos:
		err = set("base", node.Base)
	case *Group:
		err = set("base", node.Base)
	case *Deref:
		err = set("base", node.Base)
	case *Asc:
		err = set("base", node.Base)
	case *Desc:
		err = set("base", node.Base)
	case *Select:
		alts := make(value.Array, len(node.Alternatives))
		for i, a := range node.Alternatives {
			cond, cerr := ToValue(a.Condition)
			if cerr != nil {
				return nil, fmt.Errorf("alternatives[%d]: %w", i, cerr)
			}
			v, verr := ToValue(a.Value)
			if verr != nil {
				return nil, fmt.Errorf("alternatives[%d]: %w", i, verr)
			}
			alts[i] = value.Object{
				"type":      value.String("SelectAlternative"),
				"condition": cond,
				"value":     v,
			}
		}
		obj["alternatives"] = alts
		err = set("fallback", node.Fallback)
	case *FuncCall:
		obj["namespace"] = value.String(namespaceOrGlobal(node.Namespace))
		obj["name"] = value.String(node.Name)
		err = list("args", node.Args)
	case *PipeFuncCall:
		obj["namespace"] = value.String(namespaceOrGlobal(node.Namespace))
		obj["name"] = value.String(node.Name)
		if err = set("base", node.Base); err == nil {
			err = list("args", node.Args)
		}
	case *Tuple:
		err = list("members", node.Members)
	case *InRange:
		obj["isInclusive"] = value.Bool(node.IsInclusive)
		if err = set("base", node.Base); err == nil {
			err = leftRight(set, node.Left, node.Right)
		}
	default:
		return nil, fmt.Errorf("unknown node %T", n)
	}
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func pair(set func(string, Node) error, base, expr Node) error {
	if err := set("base", base); err != nil {
		return err
	}
	return set("expr", expr)
}

func leftRight(set func(string, Node) error, left, right Node) error {
	if err := set("left", left); err != nil {
		return err
	}
	return set("right", right)
}

func attributeValue(a ObjectAttribute) (value.Value, error) {
	switch attr := a.(type) {
	case *ObjectAttributeValue:
		v, err := ToValue(attr.Value)
		if err != nil {
			return nil, err
		}
		return value.Object{"type": value.String(attr.Kind()), "name": value.String(attr.Name), "value": v}, nil
	case *ObjectSplat:
		v, err := ToValue(attr.Value)
		if err != nil {
			return nil, err
		}
		return value.Object{"type": value.String(attr.Kind()), "value": v}, nil
	case *ObjectConditionalSplat:
		cond, err := ToValue(attr.Condition)
		if err != nil {
			return nil, err
		}
		v, err := ToValue(attr.Value)
		if err != nil {
			return nil, err
		}
		return value.Object{"type": value.String(attr.Kind()), "condition": cond, "value": v}, nil
	default:
		return nil, fmt.Errorf("unknown object attribute %T", a)
	}
}

func namespaceOrGlobal(ns string) string {
	if ns == "" {
		return "global"
	}
	return ns
}
