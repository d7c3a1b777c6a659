package ast

import "fmt"

// ValidationResult lists the structural problems found in a query tree.
type ValidationResult struct {
	// Valid is true when Problems is empty.
	Valid bool

	// Problems describes each defect with the path to the offending node.
	Problems []string
}

// Validate checks that a tree is well formed: required children are present,
// parent references climb at least one scope, operators are known and names
// are not empty. Trees decoded by Parse are always complete, so this mostly
// guards trees built by hand.
//
// Validate is a pure function with no side effects.
func Validate(n Node) ValidationResult {
	v := &validator{problems: []string{}}
	v.validateNode("$", n)

	return ValidationResult{
		Valid:    len(v.problems) == 0,
		Problems: v.problems,
	}
}

// validator accumulates problems during traversal.
type validator struct {
	problems []string
}

func (v *validator) addProblem(path, format string, args ...any) {
	v.problems = append(v.problems, path+": "+fmt.Sprintf(format, args...))
}

func (v *validator) required(path string, n Node) {
	if n == nil {
		v.addProblem(path, "missing node")
		return
	}
	v.validateNode(path, n)
}

func (v *validator) optional(path string, n Node) {
	if n != nil {
		v.validateNode(path, n)
	}
}

func (v *validator) validateNode(path string, n Node) {
	if n == nil {
		v.addProblem(path, "nil node")
		return
	}

	switch node := n.(type) {
	case *Everything, *This, *Context:
	case *Parent:
		if node.N < 1 {
			v.addProblem(path, "parent must climb at least one scope, got %d", node.N)
		}
	case *Parameter:
		if node.Name == "" {
			v.addProblem(path, "parameter without a name")
		}
	case *Value:
		if node.Value == nil {
			v.addProblem(path, "literal without a value")
		}
	case *AccessAttribute:
		if node.Name == "" {
			v.addProblem(path, "attribute access without a name")
		}
		v.optional(path+".base", node.Base)
	case *AccessElement:
		v.required(path+".base", node.Base)
	case *Slice:
		v.required(path+".base", node.Base)
	case *ArrayCoerce:
		v.required(path+".base", node.Base)
	case *Array:
		for i, e := range node.Elements {
			if e == nil {
				v.addProblem(fmt.Sprintf("%s.elements[%d]", path, i), "nil element")
				continue
			}
			v.required(fmt.Sprintf("%s.elements[%d]", path, i), e.Value)
		}
	case *Object:
		for i, a := range node.Attributes {
			v.validateAttribute(fmt.Sprintf("%s.attributes[%d]", path, i), a)
		}
	case *Filter:
		v.required(path+".base", node.Base)
		v.required(path+".expr", node.Expr)
	case *Projection:
		v.required(path+".base", node.Base)
		v.required(path+".expr", node.Expr)
	case *Map:
		v.required(path+".base", node.Base)
		v.required(path+".expr", node.Expr)
	case *FlatMap:
		v.required(path+".base", node.Base)
		v.required(path+".expr", node.Expr)
	case *OpCall:
		if !validOp(node.Op) {
			v.addProblem(path, "unknown operator %q", node.Op)
		}
		v.required(path+".left", node.Left)
		v.required(path+".right", node.Right)
	case *And:
		v.required(path+".left", node.Left)
		v.required(path+".right", node.Right)
	case *Or:
		v.required(path+".left", node.Left)
		v.required(path+".right", node.Right)
	case *Not:
		v.required(path+".base", node.Base)
	case *Neg:
		v.required(path+".base", node.Base)
	case *Pos:
		v.required(path+".base", node.Base)
	case *Group:
		v.required(path+".base", node.Base)
	case *Deref:
		v.required(path+".base", node.Base)
	case *Asc:
		v.required(path+".base", node.Base)
	case *Desc:
		v.required(path+".base", node.Base)
	case *Select:
		for i, a := range node.Alternatives {
			p := fmt.Sprintf("%s.alternatives[%d]", path, i)
			if a == nil {
				v.addProblem(p, "nil alternative")
				continue
			}
			v.required(p+".condition", a.Condition)
			v.required(p+".value", a.Value)
		}
		v.optional(path+".fallback", node.Fallback)
	case *FuncCall:
		if node.Name == "" {
			v.addProblem(path, "function call without a name")
		}
		for i, arg := range node.Args {
			v.required(fmt.Sprintf("%s.args[%d]", path, i), arg)
		}
	case *PipeFuncCall:
		if node.Name == "" {
			v.addProblem(path, "pipe function call without a name")
		}
		v.required(path+".base", node.Base)
		for i, arg := range node.Args {
			v.required(fmt.Sprintf("%s.args[%d]", path, i), arg)
		}
	case *Tuple:
		for i, m := range node.Members {
			v.required(fmt.Sprintf("%s.members[%d]", path, i), m)
		}
	case *InRange:
		v.required(path+".base", node.Base)
		v.required(path+".left", node.Left)
		v.required(path+".right", node.Right)
	default:
		v.addProblem(path, "unknown node type %T", n)
	}
}

func (v *validator) validateAttribute(path string, a ObjectAttribute) {
	switch attr := a.(type) {
	case *ObjectAttributeValue:
		if attr.Name == "" {
			v.addProblem(path, "object attribute without a name")
		}
		v.required(path+".value", attr.Value)
	case *ObjectSplat:
		v.required(path+".value", attr.Value)
	case *ObjectConditionalSplat:
		v.required(path+".condition", attr.Condition)
		v.required(path+".value", attr.Value)
	default:
		v.addProblem(path, "unknown object attribute type %T", a)
	}
}
