package textmatch

import (
	"strings"

	"golang.org/x/text/cases"
)

// authorGlyphs unifies homoglyphs for author comparison: visually identical
// Cyrillic letters collapse to their Latin counterparts so that a name typed
// in either script compares equal.
var authorGlyphs = map[rune]rune{
	'е': 'e',
	'а': 'a',
	'о': 'o',
	'с': 'c',
	'х': 'x',
}

// titleGlyphs unifies homoglyphs for title comparison in the opposite
// direction: Latin letters that are visually identical to Cyrillic ones
// collapse to Cyrillic. The uppercase entries cover Latin capitals that are
// almost always mistyped Cyrillic in this corpus; case folding afterwards
// brings them down to lowercase.
var titleGlyphs = map[rune]rune{
	'e': 'е',
	'a': 'а',
	'o': 'о',
	'c': 'с',
	'x': 'х',
	'A': 'А',
	'B': 'В',
	'C': 'С',
	'E': 'Е',
	'H': 'Н',
	'K': 'К',
	'M': 'М',
	'O': 'О',
	'P': 'Р',
	'T': 'Т',
	'X': 'Х',
}

var foldCaser = cases.Fold()

// punctuation characters normalized to spaces before tokenization.
const punctuation = "«»„“”\"'’`‚‹›,:;!?()[]{}−–—‐-"

// volume-numbering synonyms unified during title normalization.
var volumeSynonyms = map[string]string{
	"часть": "том",
	"книга": "том",
}

func foldGlyphs(s string, table map[rune]rune) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if repl, ok := table[r]; ok {
			r = repl
		}
		b.WriteRune(r)
	}
	return b.String()
}

func stripPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(punctuation, r) {
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeTitle produces the canonical comparable form of a title or series
// name: case-folded, Latin homoglyphs collapsed to Cyrillic, punctuation
// stripped, and volume-numbering synonyms unified.
func NormalizeTitle(s string) string {
	s = foldGlyphs(s, titleGlyphs)
	s = foldCaser.String(s)
	s = stripPunctuation(s)
	tokens := tokenizeTitle(s)
	for i, token := range tokens {
		if repl, ok := volumeSynonyms[token]; ok {
			tokens[i] = repl
		}
	}
	return strings.Join(tokens, " ")
}

// NormalizeAuthor produces the canonical comparable form of a single author
// name group. Commas must be split off by the caller before normalization;
// they are group separators, not noise.
func NormalizeAuthor(s string) string {
	s = foldCaser.String(s)
	s = foldGlyphs(s, authorGlyphs)
	s = stripPunctuation(s)
	return collapseSpaces(s)
}

// tokenizeTitle splits a normalized title on spaces and periods. Dash
// variants were already converted to spaces by punctuation stripping.
func tokenizeTitle(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '.' || r == '\t'
	})
}
