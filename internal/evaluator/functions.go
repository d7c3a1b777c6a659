package evaluator

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/groqtype/internal/ast"
	"github.com/roach88/groqtype/internal/typesys"
)

// Builtin describes how a function call is typed.
type Builtin struct {
	Namespace string
	Name      string

	// Pipe marks functions called as `base | name(...)`.
	Pipe bool

	// ForcesNonNull is true when the result is never null, whatever the
	// arguments are.
	ForcesNonNull bool

	// Distributes is true when the result over a union argument is the union
	// of the results over its members.
	Distributes bool

	// Opaque is true when the result is always unknown. Eval is not called.
	Opaque bool

	// Doc is a one-line description for listings.
	Doc string

	Eval func(c *Call) typesys.Type
}

// FullName returns "namespace::name".
func (b Builtin) FullName() string {
	return ast.FullName(b.Namespace, b.Name)
}

// Call is one function application being typed.
type Call struct {
	Args []ast.Node

	// Base is the piped input of a pipe call, nil otherwise.
	Base typesys.Type

	scope *Scope
	w     *walker
}

// Arg returns the type of argument i, or null when it is missing.
func (c *Call) Arg(i int) typesys.Type {
	if i >= len(c.Args) {
		return typesys.Null{}
	}
	return c.w.walk(c.Args[i], c.scope)
}

// Expand returns the concrete members of t.
func (c *Call) Expand(t typesys.Type) []typesys.Type {
	return c.w.expand(t)
}

// Distribute applies f to every concrete member of t.
func (c *Call) Distribute(t typesys.Type, f func(typesys.Type) typesys.Type) typesys.Type {
	return c.w.distribute(t, f)
}

// Registry maps function names to builtins.
type Registry struct {
	builtins map[string]Builtin
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{builtins: make(map[string]Builtin)}
}

func registryKey(namespace, name string, pipe bool) string {
	key := ast.FullName(namespace, name)
	if pipe {
		key = "|" + key
	}
	return key
}

// Register adds b, replacing any builtin with the same name and call style.
func (r *Registry) Register(b Builtin) {
	if b.Namespace == "" {
		b.Namespace = "global"
	}
	r.builtins[registryKey(b.Namespace, b.Name, b.Pipe)] = b
}

// Lookup finds a builtin by name and call style.
func (r *Registry) Lookup(namespace, name string, pipe bool) (Builtin, bool) {
	b, ok := r.builtins[registryKey(namespace, name, pipe)]
	return b, ok
}

// Builtins returns every builtin sorted by name.
func (r *Registry) Builtins() []Builtin {
	out := make([]Builtin, 0, len(r.builtins))
	for _, b := range r.builtins {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FullName() != out[j].FullName() {
			return out[i].FullName() < out[j].FullName()
		}
		return !out[i].Pipe && out[j].Pipe
	})
	return out
}

func (w *walker) call(namespace, name string, args []ast.Node, base typesys.Type, pipe bool, s *Scope) typesys.Type {
	if namespace == "" {
		namespace = "global"
	}
	b, ok := w.opts.Functions.Lookup(namespace, name, pipe)
	if !ok {
		w.log.Debug("unknown function", "function", ast.FullName(namespace, name), "pipe", pipe)
		return typesys.Unknown{}
	}
	if b.Opaque || b.Eval == nil {
		return typesys.Unknown{}
	}
	return b.Eval(&Call{Args: args, Base: base, scope: s, w: w})
}

// DefaultRegistry returns the builtins of the GROQ function library.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, b := range defaultBuiltins() {
		r.Register(b)
	}
	return r
}

func defaultBuiltins() []Builtin {
	return []Builtin{
		{Name: "defined", ForcesNonNull: true, Doc: "true when the argument is not null", Eval: evalDefined},
		{Name: "coalesce", Doc: "first non-null argument", Eval: evalCoalesce},
		{Name: "count", Distributes: true, Doc: "length of an array", Eval: arrayTo(typesys.Num())},
		{Name: "length", Distributes: true, Doc: "length of an array or string", Eval: evalLength},
		{Name: "lower", Distributes: true, Doc: "lowercase a string", Eval: caseFunc(func() cases.Caser { return cases.Lower(language.Und) })},
		{Name: "upper", Distributes: true, Doc: "uppercase a string", Eval: caseFunc(func() cases.Caser { return cases.Upper(language.Und) })},
		{Name: "string", Distributes: true, Doc: "string form of a primitive", Eval: evalString},
		{Name: "now", ForcesNonNull: true, Doc: "current time as an ISO string", Eval: constant(typesys.Str())},
		{Name: "references", ForcesNonNull: true, Doc: "whether the document references an id", Eval: constant(typesys.Bool())},
		{Name: "round", Distributes: true, Doc: "round a number", Eval: evalRound},
		{Name: "identity", ForcesNonNull: true, Doc: "identity of the current user", Eval: constant(typesys.Str())},
		{Name: "dateTime", Opaque: true, Doc: "parse a datetime"},
		{Name: "path", Opaque: true, Doc: "path pattern"},
		{Name: "boost", Opaque: true, Doc: "boost a score predicate"},
		{Namespace: "pt", Name: "text", Doc: "plain text of portable text blocks", Eval: evalPortableText},
		{Namespace: "math", Name: "sum", Distributes: true, Doc: "sum of numbers", Eval: arrayTo(typesys.Num())},
		{Namespace: "math", Name: "avg", Distributes: true, Doc: "average of numbers", Eval: arrayTo(typesys.Nullable(typesys.Num()))},
		{Namespace: "math", Name: "min", Distributes: true, Doc: "smallest number", Eval: arrayTo(typesys.Nullable(typesys.Num()))},
		{Namespace: "math", Name: "max", Distributes: true, Doc: "largest number", Eval: arrayTo(typesys.Nullable(typesys.Num()))},
		{Namespace: "array", Name: "unique", Distributes: true, Doc: "distinct elements", Eval: evalArrayIdentity},
		{Namespace: "array", Name: "compact", Distributes: true, Doc: "drop null elements", Eval: evalCompact},
		{Namespace: "array", Name: "join", Distributes: true, Doc: "join elements into a string", Eval: arrayTo(typesys.Str())},
		{Namespace: "string", Name: "startsWith", Doc: "prefix test", Eval: evalStartsWith},
		{Namespace: "string", Name: "split", Distributes: true, Doc: "split a string", Eval: evalSplit},
		{Name: "order", Pipe: true, Doc: "sort the piped array", Eval: evalPipeIdentity},
		{Name: "score", Pipe: true, Doc: "attach _score to piped documents", Eval: evalScore},
	}
}

func constant(t typesys.Type) func(*Call) typesys.Type {
	return func(*Call) typesys.Type { return t }
}

// arrayTo types functions that take an array and return t, or null for
// anything else.
func arrayTo(t typesys.Type) func(*Call) typesys.Type {
	return func(c *Call) typesys.Type {
		return c.Distribute(c.Arg(0), func(m typesys.Type) typesys.Type {
			switch m.(type) {
			case typesys.Unknown:
				return typesys.Unknown{}
			case typesys.Array:
				return t
			default:
				return typesys.Null{}
			}
		})
	}
}

func evalDefined(c *Call) typesys.Type {
	members := c.Expand(c.Arg(0))
	canBeNull, allNull := false, len(members) > 0
	for _, m := range members {
		switch m.(type) {
		case typesys.Unknown:
			return typesys.Bool()
		case typesys.Null:
			canBeNull = true
		default:
			allNull = false
		}
	}
	switch {
	case allNull:
		return typesys.BoolLit(false)
	case !canBeNull:
		return typesys.BoolLit(true)
	default:
		return typesys.Bool()
	}
}

// evalCoalesce unions the non-null part of each argument up to the first
// one that cannot be null.
func evalCoalesce(c *Call) typesys.Type {
	var parts []typesys.Type
	for i := range c.Args {
		t := c.Arg(i)
		nullable := false
		for _, m := range c.Expand(t) {
			switch m.(type) {
			case typesys.Null, typesys.Unknown:
				nullable = true
			}
		}
		parts = append(parts, typesys.RemoveNull(t))
		if !nullable {
			return typesys.UnionOf(parts...)
		}
	}
	parts = append(parts, typesys.Null{})
	return typesys.UnionOf(parts...)
}

func evalLength(c *Call) typesys.Type {
	return c.Distribute(c.Arg(0), func(m typesys.Type) typesys.Type {
		switch v := m.(type) {
		case typesys.Unknown:
			return typesys.Unknown{}
		case typesys.Array:
			return typesys.Num()
		case typesys.String:
			if v.Value != nil {
				return typesys.NumLit(float64(len([]rune(*v.Value))))
			}
			return typesys.Num()
		default:
			return typesys.Null{}
		}
	})
}

// caseFunc folds string literals with a fresh caser per call; a Caser
// keeps state and must not be shared.
func caseFunc(newCaser func() cases.Caser) func(*Call) typesys.Type {
	return func(c *Call) typesys.Type {
		caser := newCaser()
		return c.Distribute(c.Arg(0), func(m typesys.Type) typesys.Type {
			switch v := m.(type) {
			case typesys.Unknown:
				return typesys.Unknown{}
			case typesys.String:
				if v.Value != nil {
					return typesys.StrLit(caser.String(*v.Value))
				}
				return typesys.Str()
			default:
				return typesys.Null{}
			}
		})
	}
}

func evalString(c *Call) typesys.Type {
	return c.Distribute(c.Arg(0), func(m typesys.Type) typesys.Type {
		switch v := m.(type) {
		case typesys.Unknown:
			return typesys.Unknown{}
		case typesys.String:
			return v
		case typesys.Number:
			if v.Value != nil {
				return typesys.StrLit(strconv.FormatFloat(*v.Value, 'f', -1, 64))
			}
			return typesys.Str()
		case typesys.Boolean:
			if v.Value != nil {
				return typesys.StrLit(strconv.FormatBool(*v.Value))
			}
			return typesys.Str()
		default:
			return typesys.Null{}
		}
	})
}

func evalRound(c *Call) typesys.Type {
	precision := typesys.Type(typesys.NumLit(0))
	if len(c.Args) > 1 {
		precision = c.Arg(1)
	}
	return c.Distribute(c.Arg(0), func(m typesys.Type) typesys.Type {
		switch v := m.(type) {
		case typesys.Unknown:
			return typesys.Unknown{}
		case typesys.Number:
			p, ok := precision.(typesys.Number)
			if v.Value == nil || !ok || p.Value == nil {
				return typesys.Num()
			}
			scale := math.Pow(10, *p.Value)
			return numberResult(math.Round(*v.Value*scale) / scale)
		default:
			return typesys.Null{}
		}
	})
}

func evalPortableText(c *Call) typesys.Type {
	return c.Distribute(c.Arg(0), func(m typesys.Type) typesys.Type {
		switch m.(type) {
		case typesys.Unknown:
			return typesys.Unknown{}
		case typesys.Object, typesys.Array:
			return typesys.Str()
		default:
			return typesys.Null{}
		}
	})
}

func evalArrayIdentity(c *Call) typesys.Type {
	return c.Distribute(c.Arg(0), func(m typesys.Type) typesys.Type {
		switch m.(type) {
		case typesys.Unknown, typesys.Array:
			return m
		default:
			return typesys.Null{}
		}
	})
}

func evalCompact(c *Call) typesys.Type {
	return c.Distribute(c.Arg(0), func(m typesys.Type) typesys.Type {
		switch v := m.(type) {
		case typesys.Unknown:
			return typesys.Unknown{}
		case typesys.Array:
			return typesys.ArrayOf(typesys.RemoveNull(v.Of))
		default:
			return typesys.Null{}
		}
	})
}

func evalStartsWith(c *Call) typesys.Type {
	str, prefix := c.Expand(c.Arg(0)), c.Expand(c.Arg(1))
	for _, m := range append(str, prefix...) {
		switch m.(type) {
		case typesys.String, typesys.Unknown:
		default:
			return typesys.Nullable(typesys.Bool())
		}
	}
	if len(str) == 1 && len(prefix) == 1 {
		sv, _ := str[0].(typesys.String)
		pv, _ := prefix[0].(typesys.String)
		if sv.Value != nil && pv.Value != nil {
			return typesys.BoolLit(strings.HasPrefix(*sv.Value, *pv.Value))
		}
	}
	return typesys.Bool()
}

func evalSplit(c *Call) typesys.Type {
	return c.Distribute(c.Arg(0), func(m typesys.Type) typesys.Type {
		switch m.(type) {
		case typesys.Unknown:
			return typesys.Unknown{}
		case typesys.String:
			return typesys.ArrayOf(typesys.Str())
		default:
			return typesys.Null{}
		}
	})
}

func evalPipeIdentity(c *Call) typesys.Type {
	return c.Base
}

func evalScore(c *Call) typesys.Type {
	return c.Distribute(c.Base, func(m typesys.Type) typesys.Type {
		arr, ok := m.(typesys.Array)
		if !ok {
			return m
		}
		return typesys.ArrayOf(c.Distribute(arr.Of, func(elem typesys.Type) typesys.Type {
			if obj, ok := elem.(typesys.Object); ok {
				return obj.Set(typesys.Attr("_score", typesys.Num()))
			}
			return elem
		}))
	})
}
