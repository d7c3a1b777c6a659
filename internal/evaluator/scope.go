package evaluator

import "github.com/roach88/groqtype/internal/typesys"

// Scope is the value `@` refers to, plus the chain `^` walks.
type Scope struct {
	Value  typesys.Type
	parent *Scope
	hidden bool
}

// NewScope returns a root scope.
func NewScope(v typesys.Type) *Scope {
	return &Scope{Value: v}
}

// Nested returns a child scope whose parent is s.
func (s *Scope) Nested(v typesys.Type) *Scope {
	return &Scope{Value: v, parent: s}
}

// Hidden returns a child scope that replaces s: its parent is s's parent, so
// `^` from inside it means what `^` meant in s.
func (s *Scope) Hidden(v typesys.Type) *Scope {
	return &Scope{Value: v, parent: s.parent, hidden: true}
}

// Parent returns the scope n levels up, or nil past the root.
func (s *Scope) Parent(n int) *Scope {
	cur := s
	for i := 0; i < n && cur != nil; i++ {
		cur = cur.parent
	}
	return cur
}

// IsHidden reports whether s was created by Hidden.
func (s *Scope) IsHidden() bool {
	return s.hidden
}
