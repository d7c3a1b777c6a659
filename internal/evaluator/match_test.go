package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchText(t *testing.T) {
	tests := []struct {
		name     string
		texts    []string
		patterns []string
		want     bool
	}{
		{"whole word", []string{"hello world"}, []string{"world"}, true},
		{"case insensitive", []string{"Hello World"}, []string{"WORLD"}, true},
		{"prefix wildcard", []string{"groqtype"}, []string{"groq*"}, true},
		{"suffix wildcard", []string{"groqtype"}, []string{"*type"}, true},
		{"partial word", []string{"groqtype"}, []string{"groq"}, false},
		{"every term must match", []string{"hello world"}, []string{"hello there"}, false},
		{"terms across texts", []string{"hello", "world"}, []string{"world hello"}, true},
		{"terms across patterns", []string{"a b"}, []string{"a", "b"}, true},
		{"punctuation splits tokens", []string{"foo-bar,baz"}, []string{"baz"}, true},
		{"no tokens", []string{"!? -"}, []string{"*"}, false},
		{"no terms", []string{"hello"}, []string{"--"}, false},
		{"dots between words join", []string{"foo.bar"}, []string{"foobar"}, true},
		{"dots between words do not split", []string{"foo.bar"}, []string{"bar"}, false},
		{"dots in patterns join too", []string{"a.b"}, []string{"a.b"}, true},
		{"trailing dot dropped", []string{"the end."}, []string{"end"}, true},
		{"underscore is part of a token", []string{"foo_bar"}, []string{"foo"}, false},
		{"underscore token matches whole", []string{"foo_bar"}, []string{"foo_bar"}, true},
		{"non-ascii letters are part of a token", []string{"café"}, []string{"caf"}, false},
		{"non-ascii token matches whole", []string{"Café au lait"}, []string{"CAFÉ"}, true},
		{"non-ascii wildcard", []string{"café"}, []string{"caf*"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchText(tt.texts, tt.patterns))
		})
	}
}
