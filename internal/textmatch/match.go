package textmatch

import (
	"shelfcheck/internal/catalog"
	"shelfcheck/internal/sources"
)

// Matches reports whether a candidate item denotes the catalogued work.
// Author and title comparisons must both pass; when both sides carry a
// series name it is checked as well. The error is non-nil only for author
// strings the matcher cannot classify.
func Matches(work catalog.Work, candidate sources.Candidate) (bool, error) {
	ok, err := AuthorsMatch(candidate.Author, work.Author)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	if !TitlesMatch(work.Title, work.Series, candidate.Title) {
		return false, nil
	}

	if work.Series != "" && candidate.Series != "" && !SeriesMatch(work.Series, candidate.Series) {
		return false, nil
	}

	return true, nil
}
