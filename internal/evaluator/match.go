package evaluator

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

var (
	// Tokens are runs of anything but these separators. Patterns may also
	// contain `*`.
	tokenPattern = regexp.MustCompile(`[^!@#$%^&*(),\\/?";:{}|\[\]+<>\s\v\p{Z}\x{FEFF}-]+`)
	termPattern  = regexp.MustCompile(`[^!@#$%^&(),\\/?";:{}|\[\]+<>\s\v\p{Z}\x{FEFF}-]+`)

	// Dots touching an ASCII word character are dropped before splitting,
	// so "end." reads "end" and "a.b" reads "ab".
	edgeDots = regexp.MustCompile(`\b\.+|\.+\b`)
)

// MatchText implements the `match` operator: every term of every pattern
// must match at least one token of the texts. Tokens are runs of characters
// other than whitespace, '-' and the punctuation in !@#$%^&*(),\/?";:{}|[]+<>
// so underscores and non-ASCII letters belong to a token. A `*` in a term
// matches any run of characters. Comparison is case-insensitive. No tokens
// or no terms never match.
func MatchText(texts, patterns []string) bool {
	fold := cases.Fold()

	var tokens []string
	for _, t := range texts {
		for _, tok := range tokenPattern.FindAllString(edgeDots.ReplaceAllString(t, ""), -1) {
			tokens = append(tokens, fold.String(tok))
		}
	}

	var terms []*regexp.Regexp
	for _, p := range patterns {
		for _, term := range termPattern.FindAllString(edgeDots.ReplaceAllString(p, ""), -1) {
			terms = append(terms, compileTerm(fold.String(term)))
		}
	}

	if len(tokens) == 0 || len(terms) == 0 {
		return false
	}
	for _, re := range terms {
		matched := false
		for _, tok := range tokens {
			if re.MatchString(tok) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func compileTerm(term string) *regexp.Regexp {
	parts := strings.Split(term, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile("^" + strings.Join(parts, ".*") + "$")
}
