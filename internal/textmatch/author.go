package textmatch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnclassifiableAuthor marks author strings whose shape the matcher does
// not understand (a single name group with too many parts). Callers skip the
// affected work instead of aborting the batch.
var ErrUnclassifiableAuthor = errors.New("unclassifiable author string")

// maxGroupWords is the largest supported word count for one name group:
// surname, given name, patronymic.
const maxGroupWords = 3

// AuthorsMatch reports whether a candidate author citation and a catalogued
// one plausibly name the same author(s).
//
// Both sides split on commas into name groups. When either side has several
// groups, every candidate group is compared against every catalogued group
// and any pairwise match succeeds. On the catalogued side only, the literal
// word "и" also separates names, supporting joined-by-and citations.
func AuthorsMatch(candidate, catalogued string) (bool, error) {
	candGroups := splitGroups(candidate)
	catGroups := splitGroups(catalogued)
	if len(candGroups) == 0 || len(catGroups) == 0 {
		return false, nil
	}

	for _, cand := range candGroups {
		candSet, err := wordSet(cand, false)
		if err != nil {
			return false, err
		}
		for _, cat := range catGroups {
			catSet, err := wordSet(cat, true)
			if err != nil {
				return false, err
			}
			if groupsMatch(candSet, catSet) {
				return true, nil
			}
		}
	}
	return false, nil
}

func splitGroups(s string) []string {
	var groups []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			groups = append(groups, part)
		}
	}
	return groups
}

// wordSet normalizes one name group into its comparable word set. On the
// catalogued side the conjunction "и" is a separator, not a name part.
func wordSet(group string, catalogued bool) ([]string, error) {
	words := strings.Fields(NormalizeAuthor(group))
	if catalogued {
		kept := words[:0]
		for _, w := range words {
			if w == "и" {
				continue
			}
			kept = append(kept, w)
		}
		words = kept
	}
	if len(words) > maxGroupWords {
		return nil, fmt.Errorf("%w: %q has %d parts", ErrUnclassifiableAuthor, group, len(words))
	}
	return words, nil
}

// groupsMatch declares a match when the smaller word set is a fuzzy subset
// of the larger: every word finds a counterpart under wordsEqual.
func groupsMatch(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	for _, w := range small {
		found := false
		for _, other := range large {
			if wordsEqual(w, other) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// wordsEqual is the fuzzy name-word relation. It is symmetric: arguments are
// reordered so the shorter word comes first. Two words are equal when one is
// a literal prefix of the other, when trimming a trailing pluralizing letter
// ("ы"/"и") from the longer equalizes them, or when they differ only in the
// last letter and are long enough for that to be an adjective-form surname
// variant.
func wordsEqual(x, y string) bool {
	xr, yr := []rune(x), []rune(y)
	if len(xr) > len(yr) {
		xr, yr = yr, xr
	}
	if len(xr) == 0 {
		return false
	}

	if runesHavePrefix(yr, xr) {
		return true
	}

	last := yr[len(yr)-1]
	if (last == 'ы' || last == 'и') && runesEqual(yr[:len(yr)-1], xr) {
		return true
	}

	if len(xr) == len(yr) && len(xr) > 3 && runesEqual(xr[:len(xr)-1], yr[:len(yr)-1]) {
		return true
	}

	return false
}

func runesHavePrefix(s, prefix []rune) bool {
	if len(prefix) > len(s) {
		return false
	}
	return runesEqual(s[:len(prefix)], prefix)
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
