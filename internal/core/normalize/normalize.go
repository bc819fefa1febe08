// Package normalize produces the canonical form of a chat line. Every stage
// that matches, scores or persists user text sees it through Text, so
// "ＢＹＥ" and "bye\u200b" both read as "bye".
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// folds holds ready transform chains; a chain carries caser state and is not shareable
var folds = sync.Pool{New: func() any {
	return transform.Chain(
		norm.NFKC,
		cases.Lower(language.Und),
		runes.Remove(runes.In(unicode.Cf)),
		width.Fold,
	)
}}

// Text sanitizes s, applies NFKC, lower-cases it, drops format characters
// (zero-width joiners, BOM), folds full-width forms and trims the ends.
// Interior whitespace is kept as typed.
func Text(s string) string {
	if s == "" {
		return ""
	}
	s = Sanitize(s)

	t := folds.Get().(transform.Transformer)
	defer folds.Put(t)
	t.Reset()
	out, _, err := transform.String(t, s)
	if err != nil {
		out = strings.ToLower(s)
	}
	return strings.TrimSpace(out)
}

// IsMalformed reports text that carried invalid UTF-8 into Text
func IsMalformed(s string) bool { return strings.ContainsRune(s, unicode.ReplacementChar) }
