package typesys

import (
	"fmt"
	"slices"

	"github.com/roach88/groqtype/internal/value"
)

// Hash returns a structural fingerprint of t, used solely for de-duplication.
//
// The fingerprint is the domain-separated SHA-256 of the RFC 8785 encoding of
// a descriptor value. Canonical JSON sorts object keys, so attribute order
// never matters; union members are sorted by their canonical encoding, so
// member order never matters either. Optionality, literal values, Rest and
// DereferencesTo all appear in the descriptor and change the hash.
func Hash(t Type) string {
	canonical, err := value.MarshalExact(descriptor(t))
	if err != nil {
		// Only non-finite number literals fail to encode.
		canonical = []byte(t.String())
	}
	return value.HashWithDomain(value.DomainType, canonical)
}

// descriptor builds the order-independent value describing t.
func descriptor(t Type) value.Value {
	switch v := t.(type) {
	case Null:
		return value.Object{"type": value.String("null")}
	case Unknown:
		return value.Object{"type": value.String("unknown")}
	case Boolean:
		d := value.Object{"type": value.String("boolean")}
		if v.Value != nil {
			d["value"] = value.Bool(*v.Value)
		}
		return d
	case Number:
		d := value.Object{"type": value.String("number")}
		if v.Value != nil {
			d["value"] = value.Number(*v.Value)
		}
		return d
	case String:
		d := value.Object{"type": value.String("string")}
		if v.Value != nil {
			d["value"] = value.String(*v.Value)
		}
		return d
	case Array:
		return value.Object{"type": value.String("array"), "of": descriptor(v.Of)}
	case Object:
		attrs := make(value.Object, len(v.Attributes))
		for _, a := range v.Attributes {
			attrs[a.Name] = value.Object{
				"value":    descriptor(a.Value),
				"optional": value.Bool(a.Optional),
			}
		}
		d := value.Object{"type": value.String("object"), "attributes": attrs}
		if v.Rest != nil {
			d["rest"] = descriptor(v.Rest)
		}
		if v.DereferencesTo != "" {
			d["dereferencesTo"] = value.String(v.DereferencesTo)
		}
		return d
	case Union:
		members := make([]value.Value, len(v.Of))
		keys := make([]string, len(v.Of))
		for i, m := range v.Of {
			members[i] = descriptor(m)
			encoded, err := value.MarshalExact(members[i])
			if err != nil {
				encoded = []byte(m.String())
			}
			keys[i] = string(encoded)
		}
		order := make([]int, len(members))
		for i := range order {
			order[i] = i
		}
		slices.SortStableFunc(order, func(a, b int) int {
			switch {
			case keys[a] < keys[b]:
				return -1
			case keys[a] > keys[b]:
				return 1
			default:
				return 0
			}
		})
		sorted := make(value.Array, len(order))
		for i, idx := range order {
			sorted[i] = members[idx]
		}
		return value.Object{"type": value.String("union"), "of": sorted}
	case Reference:
		return value.Object{"type": value.String("reference"), "to": value.String(v.To)}
	case Inline:
		return value.Object{"type": value.String("inline"), "name": value.String(v.Name)}
	default:
		return value.Object{"type": value.String("invalid")}
	}
}

// SchemaHash returns the content hash of a schema. Attribute order inside an
// object does not change it; document and declaration order does.
func SchemaHash(s Schema) (string, error) {
	encoded, err := MarshalSchemaJSON(s)
	if err != nil {
		return "", fmt.Errorf("hash schema: %w", err)
	}
	v, err := value.Parse(encoded)
	if err != nil {
		return "", fmt.Errorf("hash schema: %w", err)
	}
	return value.Hash(value.DomainSchema, v)
}
