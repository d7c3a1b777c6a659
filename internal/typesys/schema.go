package typesys

// Document is a top-level queryable shape, e.g. every document whose _type
// is "author".
type Document struct {
	Name       string
	Attributes []Attribute
}

// Object returns the document's shape as an object type.
func (d Document) Object() Object {
	return Object{}.WithAttributes(d.Attributes)
}

// Declaration is a reusable named type, used lazily through Inline.
type Declaration struct {
	Name  string
	Value Type
}

// Schema is the closed set of documents and declarations a query is checked
// against. Both lists keep their source order.
type Schema struct {
	Documents    []Document
	Declarations []Declaration
}

// Document returns the document called name.
func (s Schema) Document(name string) (Document, bool) {
	for _, d := range s.Documents {
		if d.Name == name {
			return d, true
		}
	}
	return Document{}, false
}

// Declaration returns the declaration called name.
func (s Schema) Declaration(name string) (Declaration, bool) {
	for _, d := range s.Declarations {
		if d.Name == name {
			return d, true
		}
	}
	return Declaration{}, false
}
