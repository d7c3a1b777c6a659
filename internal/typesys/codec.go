package typesys

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DecodeError reports a malformed schema or type document with its source
// position.
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

func decodeErrorf(n *yaml.Node, format string, args ...any) error {
	e := &DecodeError{Message: fmt.Sprintf(format, args...)}
	if n != nil {
		e.Line, e.Column = n.Line, n.Column
	}
	return e
}

// ParseSchema decodes a schema document. JSON and YAML are both accepted.
//
// The format is a list of entries:
//
//	[
//	  {"type": "document", "name": "author", "attributes": {
//	    "name": {"type": "objectAttribute", "value": {"type": "string"}, "optional": true}
//	  }},
//	  {"type": "type", "name": "slug", "value": {"type": "object", "attributes": {...}}}
//	]
//
// Attribute order is preserved.
func ParseSchema(data []byte) (Schema, error) {
	root, err := parseRoot(data)
	if err != nil {
		return Schema{}, err
	}
	if root.Kind != yaml.SequenceNode {
		return Schema{}, decodeErrorf(root, "schema must be a list of documents and types")
	}

	var schema Schema
	for i, entry := range root.Content {
		fields, err := mappingFields(entry)
		if err != nil {
			return Schema{}, fmt.Errorf("schema[%d]: %w", i, err)
		}
		kind, err := scalarField(entry, fields, "type", true)
		if err != nil {
			return Schema{}, fmt.Errorf("schema[%d]: %w", i, err)
		}
		name, err := scalarField(entry, fields, "name", true)
		if err != nil {
			return Schema{}, fmt.Errorf("schema[%d]: %w", i, err)
		}

		switch kind {
		case "document":
			attrs, err := decodeAttributes(fields["attributes"])
			if err != nil {
				return Schema{}, fmt.Errorf("document %q: %w", name, err)
			}
			schema.Documents = append(schema.Documents, Document{Name: name, Attributes: attrs})
		case "type":
			valueNode, ok := fields["value"]
			if !ok {
				return Schema{}, decodeErrorf(entry, "type %q: missing value", name)
			}
			t, err := DecodeType(valueNode)
			if err != nil {
				return Schema{}, fmt.Errorf("type %q: %w", name, err)
			}
			schema.Declarations = append(schema.Declarations, Declaration{Name: name, Value: t})
		default:
			return Schema{}, decodeErrorf(entry, "unknown schema entry type %q", kind)
		}
	}
	return schema, nil
}

// ParseType decodes a single type document.
func ParseType(data []byte) (Type, error) {
	root, err := parseRoot(data)
	if err != nil {
		return nil, err
	}
	return DecodeType(root)
}

// DecodeType decodes a type from a YAML node.
func DecodeType(n *yaml.Node) (Type, error) {
	n = deref(n)
	fields, err := mappingFields(n)
	if err != nil {
		return nil, err
	}
	kind, err := scalarField(n, fields, "type", true)
	if err != nil {
		return nil, err
	}

	switch kind {
	case "null":
		return Null{}, nil
	case "unknown":
		return Unknown{}, nil
	case "boolean":
		v, ok := fields["value"]
		if !ok {
			return Bool(), nil
		}
		var b bool
		if err := v.Decode(&b); err != nil {
			return nil, decodeErrorf(v, "boolean value: %v", err)
		}
		return BoolLit(b), nil
	case "number":
		v, ok := fields["value"]
		if !ok {
			return Num(), nil
		}
		var f float64
		if err := v.Decode(&f); err != nil {
			return nil, decodeErrorf(v, "number value: %v", err)
		}
		return NumLit(f), nil
	case "string":
		v, ok := fields["value"]
		if !ok {
			return Str(), nil
		}
		var s string
		if err := v.Decode(&s); err != nil {
			return nil, decodeErrorf(v, "string value: %v", err)
		}
		return StrLit(s), nil
	case "array":
		of, ok := fields["of"]
		if !ok {
			return nil, decodeErrorf(n, "array: missing of")
		}
		elem, err := DecodeType(of)
		if err != nil {
			return nil, fmt.Errorf("array: %w", err)
		}
		return ArrayOf(elem), nil
	case "object":
		attrs, err := decodeAttributes(fields["attributes"])
		if err != nil {
			return nil, err
		}
		obj := Object{Attributes: attrs}
		if rest, ok := fields["rest"]; ok {
			if obj.Rest, err = DecodeType(rest); err != nil {
				return nil, fmt.Errorf("rest: %w", err)
			}
		}
		if obj.DereferencesTo, err = scalarField(n, fields, "dereferencesTo", false); err != nil {
			return nil, err
		}
		return obj, nil
	case "union":
		of, ok := fields["of"]
		if !ok {
			return Union{}, nil
		}
		of = deref(of)
		if of.Kind != yaml.SequenceNode {
			return nil, decodeErrorf(of, "union: of must be a list")
		}
		members := make([]Type, 0, len(of.Content))
		for i, m := range of.Content {
			t, err := DecodeType(m)
			if err != nil {
				return nil, fmt.Errorf("union[%d]: %w", i, err)
			}
			members = append(members, t)
		}
		return Union{Of: members}, nil
	case "inline":
		name, err := scalarField(n, fields, "name", true)
		if err != nil {
			return nil, err
		}
		return Inline{Name: name}, nil
	case "reference":
		to, err := scalarField(n, fields, "to", true)
		if err != nil {
			return nil, err
		}
		return Reference{To: to}, nil
	default:
		return nil, decodeErrorf(n, "unknown type %q", kind)
	}
}

func decodeAttributes(n *yaml.Node) ([]Attribute, error) {
	if n == nil {
		return nil, nil
	}
	n = deref(n)
	if n.Kind != yaml.MappingNode {
		return nil, decodeErrorf(n, "attributes must be a mapping")
	}

	attrs := make([]Attribute, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		name := n.Content[i].Value
		attrNode := deref(n.Content[i+1])
		fields, err := mappingFields(attrNode)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		valueNode, ok := fields["value"]
		if !ok {
			return nil, decodeErrorf(attrNode, "attribute %q: missing value", name)
		}
		t, err := DecodeType(valueNode)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		attr := Attribute{Name: name, Value: t}
		if opt, ok := fields["optional"]; ok {
			if err := opt.Decode(&attr.Optional); err != nil {
				return nil, decodeErrorf(opt, "attribute %q: optional: %v", name, err)
			}
		}
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

func parseRoot(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &DecodeError{Message: err.Error()}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &DecodeError{Message: "empty document"}
	}
	return deref(doc.Content[0]), nil
}

func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func mappingFields(n *yaml.Node) (map[string]*yaml.Node, error) {
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, decodeErrorf(n, "expected a mapping")
	}
	fields := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		fields[n.Content[i].Value] = deref(n.Content[i+1])
	}
	return fields, nil
}

func scalarField(parent *yaml.Node, fields map[string]*yaml.Node, key string, required bool) (string, error) {
	n, ok := fields[key]
	if !ok {
		if required {
			return "", decodeErrorf(parent, "missing %s", key)
		}
		return "", nil
	}
	if n.Kind != yaml.ScalarNode {
		return "", decodeErrorf(n, "%s must be a scalar", key)
	}
	return n.Value, nil
}

// MarshalJSON encodes t in the schema type format. Object attributes keep
// their order.
func MarshalJSON(t Type) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeType(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalSchemaJSON encodes a schema in the format ParseSchema reads.
func MarshalSchemaJSON(s Schema) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	first := true
	for _, d := range s.Documents {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.WriteString(`{"type":"document","name":`)
		writeString(&buf, d.Name)
		buf.WriteString(`,"attributes":`)
		if err := writeAttributes(&buf, d.Attributes); err != nil {
			return nil, fmt.Errorf("document %q: %w", d.Name, err)
		}
		buf.WriteByte('}')
	}
	for _, d := range s.Declarations {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.WriteString(`{"type":"type","name":`)
		writeString(&buf, d.Name)
		buf.WriteString(`,"value":`)
		if err := writeType(&buf, d.Value); err != nil {
			return nil, fmt.Errorf("type %q: %w", d.Name, err)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func writeType(buf *bytes.Buffer, t Type) error {
	switch v := t.(type) {
	case Null:
		buf.WriteString(`{"type":"null"}`)
	case Unknown:
		buf.WriteString(`{"type":"unknown"}`)
	case Boolean:
		buf.WriteString(`{"type":"boolean"`)
		if v.Value != nil {
			buf.WriteString(`,"value":` + strconv.FormatBool(*v.Value))
		}
		buf.WriteByte('}')
	case Number:
		buf.WriteString(`{"type":"number"`)
		if v.Value != nil {
			if math.IsNaN(*v.Value) || math.IsInf(*v.Value, 0) {
				return fmt.Errorf("non-finite number literal %v", *v.Value)
			}
			buf.WriteString(`,"value":` + strconv.FormatFloat(*v.Value, 'g', -1, 64))
		}
		buf.WriteByte('}')
	case String:
		buf.WriteString(`{"type":"string"`)
		if v.Value != nil {
			buf.WriteString(`,"value":`)
			writeString(buf, *v.Value)
		}
		buf.WriteByte('}')
	case Array:
		buf.WriteString(`{"type":"array","of":`)
		if err := writeType(buf, v.Of); err != nil {
			return err
		}
		buf.WriteByte('}')
	case Object:
		buf.WriteString(`{"type":"object","attributes":`)
		if err := writeAttributes(buf, v.Attributes); err != nil {
			return err
		}
		if v.Rest != nil {
			buf.WriteString(`,"rest":`)
			if err := writeType(buf, v.Rest); err != nil {
				return err
			}
		}
		if v.DereferencesTo != "" {
			buf.WriteString(`,"dereferencesTo":`)
			writeString(buf, v.DereferencesTo)
		}
		buf.WriteByte('}')
	case Union:
		buf.WriteString(`{"type":"union","of":[`)
		for i, m := range v.Of {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeType(buf, m); err != nil {
				return err
			}
		}
		buf.WriteString(`]}`)
	case Reference:
		buf.WriteString(`{"type":"reference","to":`)
		writeString(buf, v.To)
		buf.WriteByte('}')
	case Inline:
		buf.WriteString(`{"type":"inline","name":`)
		writeString(buf, v.Name)
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unknown type %T", t)
	}
	return nil
}

func writeAttributes(buf *bytes.Buffer, attrs []Attribute) error {
	buf.WriteByte('{')
	for i, a := range attrs {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeString(buf, a.Name)
		buf.WriteString(`:{"type":"objectAttribute","value":`)
		if err := writeType(buf, a.Value); err != nil {
			return fmt.Errorf("attribute %q: %w", a.Name, err)
		}
		if a.Optional {
			buf.WriteString(`,"optional":true`)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return nil
}

func writeString(buf *bytes.Buffer, s string) {
	encoded, _ := json.Marshal(s)
	buf.Write(encoded)
}
