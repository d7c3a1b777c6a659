package ast

import "github.com/roach88/groqtype/internal/value"

// Node is one expression in a query tree.
//
// This is a sealed interface - only types in this package implement it.
type Node interface {
	queryNode() // Marker method - seals interface to this package

	// Kind returns the node's name in the JSON node format.
	Kind() string
}

// ObjectAttribute is one entry of an object literal.
//
// This is a sealed interface - only types in this package implement it.
type ObjectAttribute interface {
	objectAttribute() // Marker method - seals interface to this package

	Kind() string
}

// Op is a binary operator of an OpCall.
type Op string

// Binary operators.
const (
	OpEq    Op = "=="
	OpNeq   Op = "!="
	OpGt    Op = ">"
	OpGte   Op = ">="
	OpLt    Op = "<"
	OpLte   Op = "<="
	OpAdd   Op = "+"
	OpSub   Op = "-"
	OpMul   Op = "*"
	OpDiv   Op = "/"
	OpMod   Op = "%"
	OpPow   Op = "**"
	OpIn    Op = "in"
	OpMatch Op = "match"
)

// Ops lists every operator in the grammar.
var Ops = []Op{OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte, OpAdd, OpSub, OpMul, OpDiv, OpMod, OpPow, OpIn, OpMatch}

// IsComparison reports whether op produces a boolean.
func (op Op) IsComparison() bool {
	switch op {
	case OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte, OpIn, OpMatch:
		return true
	default:
		return false
	}
}

// IsArithmetic reports whether op combines two operands into a new value.
func (op Op) IsArithmetic() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod, OpPow:
		return true
	default:
		return false
	}
}

// Everything is `*`, every document in the dataset.
type Everything struct{}

// This is `@`, the current scope value.
type This struct{}

// Parent is `^`, `^.^` and so on: N scopes up.
type Parent struct {
	N int
}

// Parameter is `$name`.
type Parameter struct {
	Name string
}

// Context is a query context lookup such as `before()` or `after()`.
type Context struct {
	Key string
}

// Value is a literal.
type Value struct {
	Value value.Value
}

// AccessAttribute is `base.name`. A nil Base reads from the current scope.
type AccessAttribute struct {
	Base Node
	Name string
}

// AccessElement is `base[index]` with a constant index.
type AccessElement struct {
	Base  Node
	Index int
}

// Slice is `base[left..right]` or `base[left...right]`.
type Slice struct {
	Base        Node
	Left        int
	Right       int
	IsInclusive bool
}

// ArrayCoerce is `base[]`.
type ArrayCoerce struct {
	Base Node
}

// Array is an array literal.
type Array struct {
	Elements []*ArrayElement
}

// ArrayElement is one entry of an array literal. A splat element (`...x`)
// spreads an array operand.
type ArrayElement struct {
	Value   Node
	IsSplat bool
}

// Object is an object literal.
type Object struct {
	Attributes []ObjectAttribute
}

// ObjectAttributeValue is `"name": value`.
type ObjectAttributeValue struct {
	Name  string
	Value Node
}

// ObjectSplat is `...value`.
type ObjectSplat struct {
	Value Node
}

// ObjectConditionalSplat is `condition => {...}`.
type ObjectConditionalSplat struct {
	Condition Node
	Value     Node
}

// Filter is `base[expr]` with a non-constant expression.
type Filter struct {
	Base Node
	Expr Node
}

// Projection is `base{...}`.
type Projection struct {
	Base Node
	Expr Node
}

// Map applies Expr to every element of an array Base.
type Map struct {
	Base Node
	Expr Node
}

// FlatMap applies Expr to every element of an array Base and splices the
// resulting arrays together.
type FlatMap struct {
	Base Node
	Expr Node
}

// OpCall is a binary operator application.
type OpCall struct {
	Op    Op
	Left  Node
	Right Node
}

// And is `left && right`.
type And struct {
	Left  Node
	Right Node
}

// Or is `left || right`.
type Or struct {
	Left  Node
	Right Node
}

// Not is `!base`.
type Not struct {
	Base Node
}

// Neg is `-base`.
type Neg struct {
	Base Node
}

// Pos is `+base`.
type Pos struct {
	Base Node
}

// Group is a parenthesized expression.
type Group struct {
	Base Node
}

// Select is `select(cond => value, ..., fallback)`.
type Select struct {
	Alternatives []*SelectAlternative
	Fallback     Node
}

// SelectAlternative is one `condition => value` arm of a Select.
type SelectAlternative struct {
	Condition Node
	Value     Node
}

// Deref is `base->`.
type Deref struct {
	Base Node
}

// FuncCall is `namespace::name(args...)`. Namespace defaults to "global".
type FuncCall struct {
	Namespace string
	Name      string
	Args      []Node
}

// PipeFuncCall is `base | name(args...)`.
type PipeFuncCall struct {
	Base      Node
	Namespace string
	Name      string
	Args      []Node
}

// Asc is an `asc` ordering marker.
type Asc struct {
	Base Node
}

// Desc is a `desc` ordering marker.
type Desc struct {
	Base Node
}

// Tuple is `(a, b, ...)`.
type Tuple struct {
	Members []Node
}

// InRange is `base in left..right`.
type InRange struct {
	Base        Node
	Left        Node
	Right       Node
	IsInclusive bool
}

func (*Everything) queryNode()      {}
func (*This) queryNode()            {}
func (*Parent) queryNode()          {}
func (*Parameter) queryNode()       {}
func (*Context) queryNode()         {}
func (*Value) queryNode()           {}
func (*AccessAttribute) queryNode() {}
func (*AccessElement) queryNode()   {}
func (*Slice) queryNode()           {}
func (*ArrayCoerce) queryNode()     {}
func (*Array) queryNode()           {}
func (*Object) queryNode()          {}
func (*Filter) queryNode()          {}
func (*Projection) queryNode()      {}
func (*Map) queryNode()             {}
func (*FlatMap) queryNode()         {}
func (*OpCall) queryNode()          {}
func (*And) queryNode()             {}
func (*Or) queryNode()              {}
func (*Not) queryNode()             {}
func (*Neg) queryNode()             {}
func (*Pos) queryNode()             {}
func (*Group) queryNode()           {}
func (*Select) queryNode()          {}
func (*Deref) queryNode()           {}
func (*FuncCall) queryNode()        {}
func (*PipeFuncCall) queryNode()    {}
func (*Asc) queryNode()             {}
func (*Desc) queryNode()            {}
func (*Tuple) queryNode()           {}
func (*InRange) queryNode()         {}

func (*ObjectAttributeValue) objectAttribute()   {}
func (*ObjectSplat) objectAttribute()            {}
func (*ObjectConditionalSplat) objectAttribute() {}

func (*Everything) Kind() string      { return "Everything" }
func (*This) Kind() string            { return "This" }
func (*Parent) Kind() string          { return "Parent" }
func (*Parameter) Kind() string       { return "Parameter" }
func (*Context) Kind() string         { return "Context" }
func (*Value) Kind() string           { return "Value" }
func (*AccessAttribute) Kind() string { return "AccessAttribute" }
func (*AccessElement) Kind() string   { return "AccessElement" }
func (*Slice) Kind() string           { return "Slice" }
func (*ArrayCoerce) Kind() string     { return "ArrayCoerce" }
func (*Array) Kind() string           { return "Array" }
func (*Object) Kind() string          { return "Object" }
func (*Filter) Kind() string          { return "Filter" }
func (*Projection) Kind() string      { return "Projection" }
func (*Map) Kind() string             { return "Map" }
func (*FlatMap) Kind() string         { return "FlatMap" }
func (*OpCall) Kind() string          { return "OpCall" }
func (*And) Kind() string             { return "And" }
func (*Or) Kind() string              { return "Or" }
func (*Not) Kind() string             { return "Not" }
func (*Neg) Kind() string             { return "Neg" }
func (*Pos) Kind() string             { return "Pos" }
func (*Group) Kind() string           { return "Group" }
func (*Select) Kind() string          { return "Select" }
func (*Deref) Kind() string           { return "Deref" }
func (*FuncCall) Kind() string        { return "FuncCall" }
func (*PipeFuncCall) Kind() string    { return "PipeFuncCall" }
func (*Asc) Kind() string             { return "Asc" }
func (*Desc) Kind() string            { return "Desc" }
func (*Tuple) Kind() string           { return "Tuple" }
func (*InRange) Kind() string         { return "InRange" }

func (*ObjectAttributeValue) Kind() string   { return "ObjectAttributeValue" }
func (*ObjectSplat) Kind() string            { return "ObjectSplat" }
func (*ObjectConditionalSplat) Kind() string { return "ObjectConditionalSplat" }

// Kinds lists the name of every Node kind in the grammar.
var Kinds = []string{
	"Everything", "This", "Parent", "Parameter", "Context", "Value",
	"AccessAttribute", "AccessElement", "Slice", "ArrayCoerce", "Array", "Object",
	"Filter", "Projection", "Map", "FlatMap", "OpCall", "And", "Or", "Not",
	"Neg", "Pos", "Group", "Select", "Deref", "FuncCall", "PipeFuncCall",
	"Asc", "Desc", "Tuple", "InRange",
}

// FullName returns "namespace::name" for a function call.
func FullName(namespace, name string) string {
	if namespace == "" {
		namespace = "global"
	}
	return namespace + "::" + name
}
