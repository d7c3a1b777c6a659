package typesys

// Canonicalize normalizes t so structurally equal shapes compare equal:
//   - nested unions are flattened into their parent
//   - members with an equal Hash are removed (first occurrence wins, the
//     survivors keep their encounter order)
//   - a single-member union collapses to that member
//   - array elements, object attributes and Rest are canonicalized too
//
// Canonicalize is idempotent and always returns fresh slices, so the result
// never shares a member list with its input.
func Canonicalize(t Type) Type {
	switch v := t.(type) {
	case Union:
		return canonicalUnion(v.Of)
	case Array:
		return Array{Of: Canonicalize(v.Of)}
	case Object:
		attrs := make([]Attribute, len(v.Attributes))
		for i, a := range v.Attributes {
			attrs[i] = Attribute{Name: a.Name, Value: Canonicalize(a.Value), Optional: a.Optional}
		}
		out := Object{Attributes: attrs, DereferencesTo: v.DereferencesTo}
		if v.Rest != nil {
			out.Rest = Canonicalize(v.Rest)
		}
		return out
	default:
		return t
	}
}

// UnionOf builds the canonical union of members.
func UnionOf(members ...Type) Type {
	return canonicalUnion(members)
}

func canonicalUnion(members []Type) Type {
	var flat []Type
	var flatten func([]Type)
	flatten = func(ms []Type) {
		for _, m := range ms {
			if nested, ok := m.(Union); ok {
				flatten(nested.Of)
				continue
			}
			flat = append(flat, Canonicalize(m))
		}
	}
	flatten(members)

	seen := make(map[string]struct{}, len(flat))
	unique := make([]Type, 0, len(flat))
	for _, m := range flat {
		h := Hash(m)
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		unique = append(unique, m)
	}

	if len(unique) == 1 {
		return unique[0]
	}
	if len(unique) == 0 {
		return Union{}
	}
	return Union{Of: unique}
}
