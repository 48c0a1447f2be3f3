// Package textnorm canonicalizes location and region cells into upper-case
// tokens.
package textnorm

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// separators splits multiple values inside a single cell.
var separators = strings.NewReplacer("/", " ", ",", " ")

// A Caser carries state and must not be shared between goroutines.
var upperPool = sync.Pool{
	New: func() any {
		c := cases.Upper(language.Und)
		return &c
	},
}

// Normalize trims, upper-cases and replaces "/" and "," with spaces.
func Normalize(raw string) string {
	upper := upperPool.Get().(*cases.Caser)
	defer upperPool.Put(upper)
	return separators.Replace(upper.String(strings.TrimSpace(raw)))
}

// Words returns the whitespace-separated words of Normalize(raw) in order.
func Words(raw string) []string {
	return strings.Fields(Normalize(raw))
}

// TokenSet is a deduplicated set of normalized tokens.
type TokenSet map[string]struct{}

// Tokenize returns the distinct words of raw.
func Tokenize(raw string) TokenSet {
	words := Words(raw)
	set := make(TokenSet, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Has reports whether tok is in the set.
func (s TokenSet) Has(tok string) bool {
	_, ok := s[tok]
	return ok
}

// Len returns the number of distinct tokens.
func (s TokenSet) Len() int {
	return len(s)
}

// Only reports whether the set holds exactly tok and nothing else.
func (s TokenSet) Only(tok string) bool {
	return len(s) == 1 && s.Has(tok)
}
