// Package textmatch decides whether a candidate item returned by an external
// source denotes the same work as a catalogued entry.
//
// Catalog data comes from forum topics where Latin and Cyrillic homoglyphs
// are freely mixed, punctuation is inconsistent, and author citations take
// several shapes (single name, "и"-joined pairs, comma-separated lists,
// pluralized family surnames). Comparison therefore runs on canonical forms:
// case-folded, homoglyph-unified, punctuation-stripped token sequences.
// Titles match on bidirectional token containment; authors match on fuzzy
// word-set inclusion.
package textmatch
