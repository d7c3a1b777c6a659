package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/groqtype/internal/value"
)

func attr(name string) *AccessAttribute { return &AccessAttribute{Name: name} }

func str(s string) *Value { return &Value{Value: value.String(s)} }

// sampleNodes returns one node of every kind.
func sampleNodes() []Node {
	return []Node{
		&Everything{},
		&This{},
		&Parent{N: 2},
		&Parameter{Name: "id"},
		&Context{Key: "before"},
		&Value{Value: value.NewObject(value.O("a", value.NewArray(value.Number(1), value.Null{})))},
		&AccessAttribute{Base: &This{}, Name: "title"},
		&AccessElement{Base: &Everything{}, Index: -1},
		&Slice{Base: &Everything{}, Left: 0, Right: 10, IsInclusive: true},
		&ArrayCoerce{Base: attr("tags")},
		&Array{Elements: []*ArrayElement{{Value: str("a")}, {Value: attr("tags"), IsSplat: true}}},
		&Object{Attributes: []ObjectAttribute{
			&ObjectAttributeValue{Name: "t", Value: attr("title")},
			&ObjectSplat{Value: &This{}},
			&ObjectConditionalSplat{Condition: attr("flag"), Value: &Object{}},
		}},
		&Filter{Base: &Everything{}, Expr: &OpCall{Op: OpEq, Left: attr("_type"), Right: str("author")}},
		&Projection{Base: &Everything{}, Expr: &Object{}},
		&Map{Base: &Everything{}, Expr: attr("name")},
		&FlatMap{Base: &Everything{}, Expr: attr("tags")},
		&OpCall{Op: OpMatch, Left: attr("title"), Right: str("word*")},
		&And{Left: attr("a"), Right: attr("b")},
		&Or{Left: attr("a"), Right: attr("b")},
		&Not{Base: attr("a")},
		&Neg{Base: &Value{Value: value.Number(1)}},
		&Pos{Base: &Value{Value: value.Number(1)}},
		&Group{Base: attr("a")},
		&Select{
			Alternatives: []*SelectAlternative{{Condition: attr("a"), Value: str("x")}},
			Fallback:     str("y"),
		},
		&Deref{Base: attr("author")},
		&FuncCall{Namespace: "global", Name: "defined", Args: []Node{attr("slug")}},
		&PipeFuncCall{Base: &Everything{}, Namespace: "global", Name: "order", Args: []Node{&Desc{Base: attr("date")}}},
		&Asc{Base: attr("date")},
		&Desc{Base: attr("date")},
		&Tuple{Members: []Node{attr("a"), attr("b")}},
		&InRange{Base: attr("n"), Left: &Value{Value: value.Number(1)}, Right: &Value{Value: value.Number(5)}},
	}
}

func TestSampleCoversEveryKind(t *testing.T) {
	seen := make(map[string]bool)
	for _, n := range sampleNodes() {
		seen[n.Kind()] = true
	}
	for _, kind := range Kinds {
		assert.True(t, seen[kind], "no sample for %s", kind)
	}
	assert.Len(t, seen, len(Kinds))
}

func TestMarshalParse_RoundTrip(t *testing.T) {
	for _, n := range sampleNodes() {
		t.Run(n.Kind(), func(t *testing.T) {
			encoded, err := Marshal(n)
			require.NoError(t, err)

			decoded, err := Parse(encoded)
			require.NoError(t, err)
			assert.Equal(t, n.Kind(), decoded.Kind())

			again, err := Marshal(decoded)
			require.NoError(t, err)
			assert.Equal(t, string(encoded), string(again))
		})
	}
}

func TestParse_YAML(t *testing.T) {
	src := `
type: Filter
base: {type: Everything}
expr:
  type: And
  left:
    type: OpCall
    op: "=="
    left: {type: AccessAttribute, name: _type}
    right: {type: Value, value: author}
  right:
    type: FuncCall
    name: defined
    args:
      - type: AccessAttribute
        base: {type: AccessAttribute, name: slug}
        name: current
`
	n, err := Parse([]byte(src))
	require.NoError(t, err)

	filter, ok := n.(*Filter)
	require.True(t, ok)
	and := filter.Expr.(*And)
	eq := and.Left.(*OpCall)
	assert.Equal(t, OpEq, eq.Op)
	assert.Nil(t, eq.Left.(*AccessAttribute).Base)
	assert.Equal(t, value.String("author"), eq.Right.(*Value).Value)

	call := and.Right.(*FuncCall)
	assert.Equal(t, "global", call.Namespace)
	assert.Equal(t, "global::defined", FullName(call.Namespace, call.Name))
	require.Len(t, call.Args, 1)
	assert.Equal(t, "slug", call.Args[0].(*AccessAttribute).Base.(*AccessAttribute).Name)
}

func TestParse_ParentDefaultsToOne(t *testing.T) {
	n, err := Parse([]byte(`{"type": "Parent"}`))
	require.NoError(t, err)
	assert.Equal(t, &Parent{N: 1}, n)
}

func TestParse_ValueNumbers(t *testing.T) {
	n, err := Parse([]byte(`{"type": "Value", "value": 3}`))
	require.NoError(t, err)
	assert.Equal(t, value.Number(3), n.(*Value).Value)

	n, err = Parse([]byte(`{"type": "Value", "value": null}`))
	require.NoError(t, err)
	assert.Equal(t, value.Null{}, n.(*Value).Value)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"not a mapping", `[1, 2]`},
		{"missing type", `{"name": "x"}`},
		{"unknown type", `{"type": "Frobnicate"}`},
		{"unknown operator", `{"type": "OpCall", "op": "<>", "left": {"type": "This"}, "right": {"type": "This"}}`},
		{"missing child", `{"type": "Filter", "base": {"type": "Everything"}}`},
		{"bad index", `{"type": "AccessElement", "base": {"type": "This"}, "index": "x"}`},
		{"bad element", `{"type": "Array", "elements": [{"type": "This"}]}`},
		{"bad attribute", `{"type": "Object", "attributes": [{"type": "ObjectThing"}]}`},
		{"args not a list", `{"type": "FuncCall", "name": "count", "args": {"type": "This"}}`},
		{"empty", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			assert.Error(t, err)
		})
	}
}

func TestParse_ErrorPosition(t *testing.T) {
	src := "type: Not\nbase:\n  type: Bogus\n"
	_, err := Parse([]byte(src))
	require.Error(t, err)

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 3, de.Line)
	assert.Contains(t, err.Error(), "base")
}

func TestHash_StableAcrossConstruction(t *testing.T) {
	a := &Filter{Base: &Everything{}, Expr: &OpCall{Op: OpEq, Left: attr("_type"), Right: str("author")}}
	b := &Filter{Base: &Everything{}, Expr: &OpCall{Op: OpEq, Left: attr("_type"), Right: str("author")}}
	c := &Filter{Base: &Everything{}, Expr: &OpCall{Op: OpEq, Left: attr("_type"), Right: str("post")}}

	ha, err := Hash(a)
	require.NoError(t, err)
	hb, err := Hash(b)
	require.NoError(t, err)
	hc, err := Hash(c)
	require.NoError(t, err)

	assert.Equal(t, ha, hb)
	assert.NotEqual(t, ha, hc)
}

func TestHash_KeepsStringBytes(t *testing.T) {
	composed, err := Hash(&OpCall{Op: OpEq, Left: attr("name"), Right: str("caf\u00e9")})
	require.NoError(t, err)
	decomposed, err := Hash(&OpCall{Op: OpEq, Left: attr("name"), Right: str("cafe\u0301")})
	require.NoError(t, err)
	assert.NotEqual(t, composed, decomposed)

	data, err := Marshal(str("cafe\u0301"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "cafe\u0301")
}

func TestOpClassification(t *testing.T) {
	for _, op := range Ops {
		assert.NotEqual(t, op.IsComparison(), op.IsArithmetic(), string(op))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		node     Node
		problems int
	}{
		{"valid samples", &Tuple{Members: sampleNodes()}, 0},
		{"missing base", &Deref{}, 1},
		{"parent zero", &Parent{N: 0}, 1},
		{"unknown op", &OpCall{Op: "<>", Left: &This{}, Right: &This{}}, 1},
		{"nested missing", &Filter{Base: &Everything{}, Expr: &And{Left: attr("a")}}, 1},
		{"unnamed attribute", &Object{Attributes: []ObjectAttribute{&ObjectAttributeValue{Value: &This{}}}}, 1},
		{"nil alternative", &Select{Alternatives: []*SelectAlternative{nil}}, 1},
		{"nil root", nil, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.node)
			assert.Len(t, result.Problems, tt.problems, result.Problems)
			assert.Equal(t, tt.problems == 0, result.Valid)
		})
	}
}

func TestValidate_ReportsPath(t *testing.T) {
	result := Validate(&Projection{Base: &Everything{}, Expr: &Object{Attributes: []ObjectAttribute{
		&ObjectSplat{},
	}}})
	require.Len(t, result.Problems, 1)
	assert.Equal(t, "$.expr.attributes[0].value: missing node", result.Problems[0])
}
