package textmatch

import (
	"regexp"
	"strings"
)

// TitlesMatch reports whether a catalogued title and a candidate title
// plausibly denote the same work. Both are normalized, tokenized, and tested
// for bidirectional containment: the match succeeds when either token
// sequence appears contiguously inside the other. Single-character strings
// require exact equality.
//
// When the catalogued title carries a leading "<series> [:-]? <number>"
// prefix it is stripped first; candidate titles from sources are usually
// series-free.
func TitlesMatch(cataloguedTitle, series, candidateTitle string) bool {
	catalogued := NormalizeTitle(cataloguedTitle)
	candidate := NormalizeTitle(candidateTitle)
	catalogued = stripSeriesPrefix(catalogued, series)
	return containsEither(catalogued, candidate)
}

// SeriesMatch compares series names with the title containment algorithm.
func SeriesMatch(cataloguedSeries, candidateSeries string) bool {
	return containsEither(NormalizeTitle(cataloguedSeries), NormalizeTitle(candidateSeries))
}

// stripSeriesPrefix removes a leading series-name-plus-number prefix from an
// already-normalized title. The separator characters the raw pattern allows
// (colon, dash) have been converted to spaces by normalization.
func stripSeriesPrefix(normalizedTitle, series string) string {
	series = NormalizeTitle(series)
	if series == "" || normalizedTitle == "" {
		return normalizedTitle
	}
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(series) + `\s+\d+\s*`)
	stripped := pattern.ReplaceAllString(normalizedTitle, "")
	stripped = strings.TrimSpace(stripped)
	if stripped == "" {
		return normalizedTitle
	}
	return stripped
}

// containsEither tests bidirectional containment of normalized token
// sequences. Containment is evaluated on token boundaries so "том 1" does
// not match inside "том 12". At length 1 containment degrades to equality.
func containsEither(a, b string) bool {
	a = strings.Join(tokenizeTitle(a), " ")
	b = strings.Join(tokenizeTitle(b), " ")
	if a == "" || b == "" {
		return false
	}
	if len([]rune(a)) == 1 || len([]rune(b)) == 1 {
		return a == b
	}
	padA := " " + a + " "
	padB := " " + b + " "
	return strings.Contains(padA, padB) || strings.Contains(padB, padA)
}
