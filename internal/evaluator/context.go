package evaluator

import "github.com/roach88/groqtype/internal/typesys"

// Context answers schema lookups during an evaluation.
//
// A name that does not resolve gives the null type. Declarations that only
// alias each other in a cycle (see typesys.AliasCycles) give unknown.
type Context struct {
	schema       typesys.Schema
	documents    map[string]typesys.Object
	declarations map[string]typesys.Type
	cyclic       map[string]bool
	everything   typesys.Type
}

// NewContext indexes schema. When a name is declared twice the first wins.
func NewContext(schema typesys.Schema) *Context {
	c := &Context{
		schema:       schema,
		documents:    make(map[string]typesys.Object, len(schema.Documents)),
		declarations: make(map[string]typesys.Type, len(schema.Declarations)),
		cyclic:       typesys.AliasCycles(schema),
	}

	shapes := make([]typesys.Type, 0, len(schema.Documents))
	for _, d := range schema.Documents {
		if _, dup := c.documents[d.Name]; dup {
			continue
		}
		obj := d.Object()
		c.documents[d.Name] = obj
		shapes = append(shapes, obj)
	}
	for _, d := range schema.Declarations {
		if _, dup := c.declarations[d.Name]; dup {
			continue
		}
		c.declarations[d.Name] = d.Value
	}
	c.everything = typesys.UnionOf(shapes...)
	return c
}

// Schema returns the schema the context was built from.
func (c *Context) Schema() typesys.Schema {
	return c.schema
}

// DocumentType returns the shape of the named document, or null.
func (c *Context) DocumentType(name string) typesys.Type {
	if obj, ok := c.documents[name]; ok {
		return obj
	}
	return typesys.Null{}
}

// DeclarationType returns the value of the named declaration, or null.
func (c *Context) DeclarationType(name string) typesys.Type {
	if c.cyclic[name] {
		return typesys.Unknown{}
	}
	if t, ok := c.declarations[name]; ok {
		return t
	}
	return typesys.Null{}
}

// AllDocuments returns the union of every document shape.
func (c *Context) AllDocuments() typesys.Type {
	return c.everything
}
