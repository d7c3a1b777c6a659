// Package ast defines the expression tree a parsed GROQ query is made of.
//
// Parsing query text is not done here. Trees arrive already built, either
// constructed in Go or decoded from the JSON node format GROQ parsers emit:
//
//	{"type": "Filter",
//	 "base": {"type": "Everything"},
//	 "expr": {"type": "OpCall", "op": "==",
//	          "left": {"type": "AccessAttribute", "name": "_type"},
//	          "right": {"type": "Value", "value": "author"}}}
//
// SEALED INTERFACES:
//
// Node and ObjectAttribute are sealed using the marker method pattern. Only
// types in this package implement them, so a switch over the node kinds can
// be checked for exhaustiveness and a consumer built against this grammar
// can fail loudly on anything it does not recognize.
//
// Every node is used through a pointer. Pointers give each node an identity,
// which lets callers attach side-tables keyed by node (see the evaluator's
// type overrides).
//
// Example:
//
//	switch n := node.(type) {
//	case *ast.Filter:
//	    // Handle filter
//	case *ast.Projection:
//	    // Handle projection
//	default:
//	    // Grammar mismatch
//	}
package ast
