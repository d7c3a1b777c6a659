package typesys

import (
	"github.com/roach88/groqtype/internal/value"
)

// Type describes the set of runtime shapes an expression may produce.
//
// This is a sealed interface - only types in this package implement it.
type Type interface {
	typeNode() // Marker method - seals interface to this package
	String() string
}

// Null is the type of the null value. It is also the soft-failure result of
// every lookup that misses.
type Null struct{}

func (Null) typeNode() {}

// Unknown is the type of a value nothing can be said about statically.
type Unknown struct{}

func (Unknown) typeNode() {}

// Boolean is any boolean, or exactly *Value when Value is set.
type Boolean struct {
	Value *bool
}

func (Boolean) typeNode() {}

// Number is any number, or exactly *Value when Value is set.
type Number struct {
	Value *float64
}

func (Number) typeNode() {}

// String is any string, or exactly *Value when Value is set.
type String struct {
	Value *string
}

func (String) typeNode() {}

// Array is a list whose elements all have type Of.
type Array struct {
	Of Type
}

func (Array) typeNode() {}

// Attribute is one named entry of an Object shape.
type Attribute struct {
	Name     string
	Value    Type
	Optional bool
}

// Object is a keyed shape.
//
// Attributes is an ordered map: names are unique and order follows
// construction. Rest, when set, is resolved at read time and its attributes
// are merged underneath Attributes. DereferencesTo names the document a
// reference-shaped object points at.
type Object struct {
	Attributes     []Attribute
	Rest           Type
	DereferencesTo string
}

func (Object) typeNode() {}

// Union is "one of" its members. Union{} (no members) is the empty type: no
// value can have it.
type Union struct {
	Of []Type
}

func (Union) typeNode() {}

// Reference is a reference to a document of type To. It reads as the
// reference stub object returned by ReferenceObject.
type Reference struct {
	To string
}

func (Reference) typeNode() {}

// Inline is a lazy use of the named type declaration.
type Inline struct {
	Name string
}

func (Inline) typeNode() {}

// Bool returns the general boolean type.
func Bool() Boolean { return Boolean{} }

// BoolLit returns the boolean literal type for b.
func BoolLit(b bool) Boolean { return Boolean{Value: &b} }

// Num returns the general number type.
func Num() Number { return Number{} }

// NumLit returns the number literal type for f.
func NumLit(f float64) Number { return Number{Value: &f} }

// Str returns the general string type.
func Str() String { return String{} }

// StrLit returns the string literal type for s.
func StrLit(s string) String { return String{Value: &s} }

// ArrayOf returns an array type with element type of.
func ArrayOf(of Type) Array { return Array{Of: of} }

// NewUnion returns a union of the given members, without canonicalizing.
// The member slice is copied.
func NewUnion(members ...Type) Union {
	return Union{Of: append([]Type(nil), members...)}
}

// Never returns the empty union.
func Never() Union { return Union{} }

// Nullable returns t | null.
func Nullable(t Type) Type {
	return NewUnion(t, Null{})
}

// Attr returns a required attribute.
func Attr(name string, t Type) Attribute {
	return Attribute{Name: name, Value: t}
}

// OptionalAttr returns an optional attribute.
func OptionalAttr(name string, t Type) Attribute {
	return Attribute{Name: name, Value: t, Optional: true}
}

// NewObject creates an object from attributes. Later attributes overwrite
// earlier ones with the same name.
func NewObject(attrs ...Attribute) Object {
	var obj Object
	for _, a := range attrs {
		obj = obj.Set(a)
	}
	return obj
}

// Attribute returns the attribute called name declared directly on the
// object. Rest is not consulted.
func (o Object) Attribute(name string) (Attribute, bool) {
	for _, a := range o.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// Set returns a copy of o with attr written. An existing attribute with the
// same name is replaced in place, so its position is kept.
func (o Object) Set(attr Attribute) Object {
	attrs := make([]Attribute, 0, len(o.Attributes)+1)
	replaced := false
	for _, a := range o.Attributes {
		if a.Name == attr.Name {
			attrs = append(attrs, attr)
			replaced = true
			continue
		}
		attrs = append(attrs, a)
	}
	if !replaced {
		attrs = append(attrs, attr)
	}
	o.Attributes = attrs
	return o
}

// Merge returns a copy of o with every attribute of other written on top.
// An optional attribute of other may be absent, so over an existing
// attribute it widens the value to the union of both and keeps the existing
// optionality.
func (o Object) Merge(other Object) Object {
	for _, a := range other.Attributes {
		if old, exists := o.Attribute(a.Name); exists && a.Optional {
			a = Attribute{Name: a.Name, Value: UnionOf(old.Value, a.Value), Optional: old.Optional}
		}
		o = o.Set(a)
	}
	return o
}

// WithAttributes returns a copy of o whose attribute list is attrs.
func (o Object) WithAttributes(attrs []Attribute) Object {
	o.Attributes = append([]Attribute(nil), attrs...)
	return o
}

// ReferenceObject returns the stub object a reference reads as.
func ReferenceObject(to string) Object {
	obj := NewObject(
		Attr("_ref", Str()),
		Attr("_type", StrLit("reference")),
		OptionalAttr("_weak", Bool()),
		OptionalAttr("_key", Str()),
	)
	obj.DereferencesTo = to
	return obj
}

// IsLiteral reports whether t is a primitive with a known value.
func IsLiteral(t Type) bool {
	switch p := t.(type) {
	case Boolean:
		return p.Value != nil
	case Number:
		return p.Value != nil
	case String:
		return p.Value != nil
	default:
		return false
	}
}

// Literal returns the runtime value of a literal type, or nil and false when
// t is not a literal. Null counts as a literal here.
func Literal(t Type) (value.Value, bool) {
	switch p := t.(type) {
	case Null:
		return value.Null{}, true
	case Boolean:
		if p.Value != nil {
			return value.Bool(*p.Value), true
		}
	case Number:
		if p.Value != nil {
			return value.Number(*p.Value), true
		}
	case String:
		if p.Value != nil {
			return value.String(*p.Value), true
		}
	}
	return nil, false
}

// FromValue returns the most precise type of a runtime value: literals for
// primitives, element unions for arrays and required attributes for objects.
func FromValue(v value.Value) Type {
	switch val := v.(type) {
	case nil, value.Null:
		return Null{}
	case value.Bool:
		return BoolLit(bool(val))
	case value.Number:
		return NumLit(float64(val))
	case value.String:
		return StrLit(string(val))
	case value.Array:
		members := make([]Type, len(val))
		for i, elem := range val {
			members[i] = FromValue(elem)
		}
		return ArrayOf(Canonicalize(Union{Of: members}))
	case value.Object:
		var obj Object
		for _, k := range val.SortedKeys() {
			obj = obj.Set(Attr(k, FromValue(val[k])))
		}
		return obj
	default:
		return Unknown{}
	}
}

// Kind returns the name of t's variant.
func Kind(t Type) string {
	switch t.(type) {
	case Null:
		return "null"
	case Boolean:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	case Union:
		return "union"
	case Reference:
		return "reference"
	case Inline:
		return "inline"
	case Unknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// Members returns the members of a union, or t itself as a single member.
func Members(t Type) []Type {
	if u, ok := t.(Union); ok {
		return u.Of
	}
	return []Type{t}
}

// RemoveNull returns t with every null member removed. A bare Null becomes
// the empty union.
func RemoveNull(t Type) Type {
	switch v := t.(type) {
	case Null:
		return Never()
	case Union:
		kept := make([]Type, 0, len(v.Of))
		for _, m := range v.Of {
			if _, isNull := m.(Null); isNull {
				continue
			}
			if nested, ok := m.(Union); ok {
				kept = append(kept, RemoveNull(nested))
				continue
			}
			kept = append(kept, m)
		}
		return Canonicalize(Union{Of: kept})
	default:
		return t
	}
}

// AdmitsNull reports whether null is one of the shapes t allows. Unknown,
// Inline and Object.Rest are not resolved, so the answer is syntactic.
func AdmitsNull(t Type) bool {
	switch v := t.(type) {
	case Null, Unknown:
		return true
	case Union:
		for _, m := range v.Of {
			if AdmitsNull(m) {
				return true
			}
		}
	}
	return false
}
