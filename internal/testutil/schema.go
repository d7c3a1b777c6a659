package testutil

import "github.com/roach88/groqtype/internal/typesys"

// BlogSchema returns a small schema with two documents and one declaration:
//
//	author {_id, _type: "author", name?, slug?: inline<slug>, bio?: string | null}
//	post   {_id, _type: "post", title, author: ref<author>, tags?: array<string>,
//	        rating?: number, published: boolean}
//	slug = {_type: "slug", current: string}
func BlogSchema() typesys.Schema {
	return typesys.Schema{
		Documents: []typesys.Document{
			{Name: "author", Attributes: AuthorAttributes()},
			{Name: "post", Attributes: []typesys.Attribute{
				typesys.Attr("_id", typesys.Str()),
				typesys.Attr("_type", typesys.StrLit("post")),
				typesys.Attr("title", typesys.Str()),
				typesys.Attr("author", typesys.Reference{To: "author"}),
				typesys.OptionalAttr("tags", typesys.ArrayOf(typesys.Str())),
				typesys.OptionalAttr("rating", typesys.Num()),
				typesys.Attr("published", typesys.Bool()),
			}},
		},
		Declarations: []typesys.Declaration{
			{Name: "slug", Value: SlugType()},
		},
	}
}

// AuthorAttributes returns the attributes of the author document.
func AuthorAttributes() []typesys.Attribute {
	return []typesys.Attribute{
		typesys.Attr("_id", typesys.Str()),
		typesys.Attr("_type", typesys.StrLit("author")),
		typesys.OptionalAttr("name", typesys.Str()),
		typesys.OptionalAttr("slug", typesys.Inline{Name: "slug"}),
		typesys.OptionalAttr("bio", typesys.Nullable(typesys.Str())),
	}
}

// AuthorType returns the author document shape.
func AuthorType() typesys.Object {
	return typesys.Object{}.WithAttributes(AuthorAttributes())
}

// SlugType returns the value of the slug declaration.
func SlugType() typesys.Object {
	return typesys.NewObject(
		typesys.Attr("_type", typesys.StrLit("slug")),
		typesys.Attr("current", typesys.Str()),
	)
}

// BlogSchemaYAML is BlogSchema in the schema document format.
const BlogSchemaYAML = `
- type: document
  name: author
  attributes:
    _id: {type: objectAttribute, value: {type: string}}
    _type: {type: objectAttribute, value: {type: string, value: author}}
    name: {type: objectAttribute, value: {type: string}, optional: true}
    slug: {type: objectAttribute, value: {type: inline, name: slug}, optional: true}
    bio:
      type: objectAttribute
      value: {type: union, of: [{type: string}, {type: "null"}]}
      optional: true
- type: document
  name: post
  attributes:
    _id: {type: objectAttribute, value: {type: string}}
    _type: {type: objectAttribute, value: {type: string, value: post}}
    title: {type: objectAttribute, value: {type: string}}
    author: {type: objectAttribute, value: {type: reference, to: author}}
    tags: {type: objectAttribute, value: {type: array, of: {type: string}}, optional: true}
    rating: {type: objectAttribute, value: {type: number}, optional: true}
    published: {type: objectAttribute, value: {type: boolean}}
- type: type
  name: slug
  value:
    type: object
    attributes:
      _type: {type: objectAttribute, value: {type: string, value: slug}}
      current: {type: objectAttribute, value: {type: string}}
`
