// internal/utils/normalize.go
package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// spaceVariants matches the Unicode space variants that Takeout exports are
// known to contain in timestamp text. U+202F in particular appears between
// the seconds and the AM/PM marker in newer exports.
var spaceVariants = runes.Predicate(func(r rune) bool {
	switch r {
	case ' ', ' ', ' ', ' ', ' ', ' ', ' ', '　':
		return true
	}
	return r != ' ' && r != '\n' && r != '\t' && unicode.IsSpace(r)
})

var zeroWidth = runes.Predicate(func(r rune) bool {
	switch r {
	case '\u200b', '\u200c', '\u200d', '\ufeff':
		return true
	}
	return false
})

// normalizer replaces every space variant with a plain space and strips
// zero-width characters. Transformers built from runes.Map/Remove hold no
// state between calls, so a single package-level value is safe to share.
var normalizer = transform.Chain(
	runes.Remove(zeroWidth),
	runes.If(spaceVariants, runes.Map(func(r rune) rune { return ' ' }), nil),
)

// NormalizeText replaces Unicode space variants with ordinary spaces and
// collapses runs of whitespace into a single space. It is a pure function
// and always succeeds, including on empty input.
func NormalizeText(s string) string {
	if s == "" {
		return ""
	}
	out, _, err := transform.String(normalizer, s)
	if err != nil {
		// Invalid UTF-8 sequences pass through untouched.
		out = s
	}
	return collapseSpaces(out)
}

// collapseSpaces reduces consecutive whitespace to one space and trims.
func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			inSpace = true
			continue
		}
		if inSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
