package evaluator

import (
	"errors"
	"fmt"

	"github.com/roach88/groqtype/internal/ast"
)

// UnhandledNodeError reports an AST node kind the walker does not know.
//
// It signals that this package is out of sync with the grammar, never a
// property of the query, and is the one condition raised with panic.
type UnhandledNodeError struct {
	Node ast.Node
	// Attribute is set instead of Node when the unknown kind is an object
	// literal entry.
	Attribute ast.ObjectAttribute
}

// Error implements the error interface.
func (e *UnhandledNodeError) Error() string {
	if e.Attribute != nil {
		return fmt.Sprintf("unhandled object attribute kind %q (%T)", e.Attribute.Kind(), e.Attribute)
	}
	if e.Node == nil {
		return "unhandled node: <nil>"
	}
	return fmt.Sprintf("unhandled node kind %q (%T)", e.Node.Kind(), e.Node)
}

// IsUnhandledNode returns true if err is or wraps an UnhandledNodeError.
func IsUnhandledNode(err error) bool {
	var ue *UnhandledNodeError
	return errors.As(err, &ue)
}
