package boundary

import (
	"unicode"
	"unicode/utf8"

	"github.com/zjrosen/splice/internal/grapheme"
)

// Class decides whether a composed character delimits a range.
type Class func(c grapheme.Cluster) bool

// Whitespace matches whitespace and newlines.
func Whitespace(c grapheme.Cluster) bool {
	return unicode.IsSpace(c.FirstRune())
}

// WordBoundary matches whitespace, newlines, punctuation, symbols and
// illegal characters.
func WordBoundary(c grapheme.Cluster) bool {
	r := c.FirstRune()
	return unicode.IsSpace(r) ||
		unicode.IsPunct(r) ||
		unicode.IsSymbol(r) ||
		isIllegal(r)
}

// isIllegal reports unassigned code points, noncharacters and invalid UTF-8.
func isIllegal(r rune) bool {
	if r == utf8.RuneError || !utf8.ValidRune(r) {
		return true
	}
	if r&0xFFFE == 0xFFFE || (r >= 0xFDD0 && r <= 0xFDEF) {
		return true
	}
	return !unicode.In(r,
		unicode.Letter, unicode.Mark, unicode.Number,
		unicode.Punct, unicode.Symbol, unicode.Space,
		unicode.Other,
	)
}
