package typesys

import (
	"strconv"
	"strings"
)

func (Null) String() string    { return "null" }
func (Unknown) String() string { return "unknown" }

func (b Boolean) String() string {
	if b.Value == nil {
		return "boolean"
	}
	return strconv.FormatBool(*b.Value)
}

func (n Number) String() string {
	if n.Value == nil {
		return "number"
	}
	return strconv.FormatFloat(*n.Value, 'g', -1, 64)
}

func (s String) String() string {
	if s.Value == nil {
		return "string"
	}
	return strconv.Quote(*s.Value)
}

func (a Array) String() string {
	if a.Of == nil {
		return "array<unknown>"
	}
	return "array<" + a.Of.String() + ">"
}

func (o Object) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, a := range o.Attributes {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.Name)
		if a.Optional {
			b.WriteByte('?')
		}
		b.WriteString(": ")
		b.WriteString(a.Value.String())
	}
	if o.Rest != nil {
		if len(o.Attributes) > 0 {
			b.WriteString(", ")
		}
		b.WriteString("...")
		b.WriteString(o.Rest.String())
	}
	b.WriteByte('}')
	if o.DereferencesTo != "" {
		b.WriteString(" -> ")
		b.WriteString(o.DereferencesTo)
	}
	return b.String()
}

func (u Union) String() string {
	if len(u.Of) == 0 {
		return "never"
	}
	parts := make([]string, len(u.Of))
	for i, m := range u.Of {
		parts[i] = m.String()
		if _, nested := m.(Union); nested {
			parts[i] = "(" + parts[i] + ")"
		}
	}
	return strings.Join(parts, " | ")
}

func (r Reference) String() string { return "ref<" + r.To + ">" }
func (i Inline) String() string    { return "inline<" + i.Name + ">" }
