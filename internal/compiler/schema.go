package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/groqtype/internal/typesys"
)

// CompileSchema converts a CUE value into a Schema.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// Documents are the fields of `documents`, reusable declarations the fields
// of `types`. Attribute names starting with an underscore must be quoted,
// since CUE hides `_x` identifiers:
//
//	documents: author: {
//		"_type": "author"
//		name?:   string
//		slug?:   _ @inline(slug)
//		bio?:    string | null
//	}
//	documents: post: {
//		"_type": "post"
//		author:  _ @ref(author)
//		tags?:   [...string]
//	}
//	types: slug: {current: string}
func CompileSchema(v cue.Value) (typesys.Schema, error) {
	if err := v.Err(); err != nil {
		return typesys.Schema{}, formatCUEError(err)
	}

	var s typesys.Schema
	docsVal := v.LookupPath(cue.ParsePath("documents"))
	typesVal := v.LookupPath(cue.ParsePath("types"))
	if !docsVal.Exists() && !typesVal.Exists() {
		return s, &CompileError{
			Field:   "documents",
			Message: "schema defines no documents or types",
			Pos:     v.Pos(),
		}
	}

	if docsVal.Exists() {
		iter, err := docsVal.Fields()
		if err != nil {
			return s, formatCUEError(err)
		}
		for iter.Next() {
			name := iter.Selector().Unquoted()
			docVal := iter.Value()
			if docVal.IncompleteKind() != cue.StructKind {
				return s, &CompileError{
					Field:   "documents." + name,
					Message: "document must be a struct",
					Pos:     docVal.Pos(),
				}
			}
			obj, err := compileObject("documents."+name, docVal)
			if err != nil {
				return s, err
			}
			s.Documents = append(s.Documents, typesys.Document{Name: name, Attributes: obj.Attributes})
		}
	}

	if typesVal.Exists() {
		iter, err := typesVal.Fields()
		if err != nil {
			return s, formatCUEError(err)
		}
		for iter.Next() {
			name := iter.Selector().Unquoted()
			t, err := CompileType("types."+name, iter.Value())
			if err != nil {
				return s, err
			}
			s.Declarations = append(s.Declarations, typesys.Declaration{Name: name, Value: t})
		}
	}

	return s, nil
}

// CompileSchemaSource compiles CUE source text. filename is only used in
// error positions.
func CompileSchemaSource(src []byte, filename string) (typesys.Schema, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	return CompileSchema(v)
}

// CompileType converts one CUE value into a Type. field names the value in
// error messages.
func CompileType(field string, v cue.Value) (typesys.Type, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	if t, ok, err := attributeType(field, v); ok || err != nil {
		return t, err
	}

	if op, args := v.Expr(); op == cue.OrOp {
		members := make([]typesys.Type, 0, len(args))
		for _, arg := range args {
			t, err := CompileType(field, arg)
			if err != nil {
				return nil, err
			}
			members = append(members, t)
		}
		return typesys.UnionOf(members...), nil
	}

	switch kind := v.IncompleteKind(); kind {
	case cue.NullKind:
		return typesys.Null{}, nil
	case cue.BoolKind:
		if v.IsConcrete() {
			b, err := v.Bool()
			if err != nil {
				return nil, formatCUEError(err)
			}
			return typesys.BoolLit(b), nil
		}
		return typesys.Bool(), nil
	case cue.IntKind, cue.FloatKind, cue.NumberKind:
		if v.IsConcrete() {
			f, err := v.Float64()
			if err != nil {
				return nil, formatCUEError(err)
			}
			return typesys.NumLit(f), nil
		}
		return typesys.Num(), nil
	case cue.StringKind:
		if v.IsConcrete() {
			str, err := v.String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			return typesys.StrLit(str), nil
		}
		return typesys.Str(), nil
	case cue.ListKind:
		return compileList(field, v)
	case cue.StructKind:
		return compileObject(field, v)
	case cue.TopKind:
		return typesys.Unknown{}, nil
	default:
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("unsupported type kind: %v", kind),
			Pos:     v.Pos(),
		}
	}
}

// attributeType reads the @inline(name) and @ref(name) field attributes.
func attributeType(field string, v cue.Value) (typesys.Type, bool, error) {
	for _, key := range []string{"inline", "ref"} {
		attr := v.Attribute(key)
		if attr.Err() != nil {
			continue
		}
		name, err := attr.String(0)
		if err != nil || name == "" {
			return nil, true, &CompileError{
				Field:   field,
				Message: fmt.Sprintf("@%s needs a name", key),
				Pos:     v.Pos(),
			}
		}
		if key == "inline" {
			return typesys.Inline{Name: name}, true, nil
		}
		return typesys.Reference{To: name}, true, nil
	}
	return nil, false, nil
}

func compileObject(field string, v cue.Value) (typesys.Object, error) {
	var obj typesys.Object
	iter, err := v.Fields(cue.Optional(true))
	if err != nil {
		return obj, formatCUEError(err)
	}
	for iter.Next() {
		sel := iter.Selector()
		name := sel.Unquoted()
		t, err := CompileType(field+"."+name, iter.Value())
		if err != nil {
			return obj, err
		}
		obj = obj.Set(typesys.Attribute{
			Name:     name,
			Value:    t,
			Optional: sel.ConstraintType() == cue.OptionalConstraint,
		})
	}
	return obj, nil
}

// compileList types a list as an array of the union of its fixed elements
// and its element constraint: `[...string]` is array<string> and `[1, 2]` is
// array<1 | 2>.
func compileList(field string, v cue.Value) (typesys.Type, error) {
	var members []typesys.Type

	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for i := 0; iter.Next(); i++ {
		t, err := CompileType(fmt.Sprintf("%s[%d]", field, i), iter.Value())
		if err != nil {
			return nil, err
		}
		members = append(members, t)
	}

	if elem := v.LookupPath(cue.MakePath(cue.AnyIndex)); elem.Exists() && elem.Err() == nil {
		t, err := CompileType(field+"[]", elem)
		if err != nil {
			return nil, err
		}
		members = append(members, t)
	}

	return typesys.ArrayOf(typesys.UnionOf(members...)), nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
