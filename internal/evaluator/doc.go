// Package evaluator infers the result type of a query without running it.
//
// Evaluate walks an ast.Node tree against a typesys.Schema and returns a
// canonical typesys.Type describing every shape the query could produce:
//
//	schema -> Context (documents, declarations)
//	          Scope (current value + parent chain)
//	ast    -> walk (one case per node kind)
//	            -> condition resolver (true / false / indeterminate)
//	            -> narrowing (defined / notDefined / equals facts)
//	            -> function registry
//	       -> typesys.Canonicalize
//
// The evaluation is conservative. When nothing precise can be said the
// answer is unknown, and lookups that miss (documents, declarations,
// attributes) give null rather than an error. Filters keep a candidate unless
// its condition is provably false.
//
// PARENT SCOPES:
//
// Scopes form a chain used by `^`. Nested scopes (projection bodies, the
// array a filter or map iterates) point at the scope they were created from.
// Hidden scopes (filter candidates, map elements, narrowed select and
// conditional-splat scopes) stand in for their creator and point at its
// parent, so a `^` inside them skips the synthetic level:
//
//	*[_type == "author"]{"books": *[author._ref == ^._id]}
//	                                              ^ is the projected author
//
// The only failure that is not a return value is an AST node kind this
// package does not know. That is a grammar mismatch and panics with an
// *UnhandledNodeError; EvaluateChecked turns it into an error.
package evaluator
