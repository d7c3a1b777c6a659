// Package typesys provides the closed set of type values that describe the
// possible shapes of a query result, and the schema they are checked against.
//
// SEALED INTERFACE:
//
// Type is a sealed interface using the marker method pattern. Only the ten
// variants declared in types.go implement it:
//
//	Null, Boolean, Number, String, Array, Object, Union, Reference, Inline, Unknown
//
// Every consumer switches over them exhaustively:
//
//	switch t := typ.(type) {
//	case Null:
//	case Object:
//	    // ...
//	default:
//	    // Impossible - all Type variants are declared here
//	}
//
// LAZY NAMES:
//
// Inline and Object.Rest are resolved on demand against the schema, never
// eagerly expanded. This is what makes self-referential and mutually
// recursive declarations safe to evaluate.
//
// CANONICAL UNIONS:
//
// Construction never normalizes unions. Canonicalize flattens nested unions,
// removes structural duplicates (by Hash) and collapses single-member unions.
// Hash is order independent for union members and object attributes, so two
// shapes built in a different order still deduplicate.
//
// Type values are immutable once built. Helpers that "modify" an Object or a
// Union return a copy with fresh slices.
package typesys
