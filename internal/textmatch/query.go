package textmatch

import (
	"regexp"
	"strings"

	"shelfcheck/internal/catalog"
)

// bookPrefix recognizes titles that are just "Книга <N>" plus whatever
// follows; such titles are meaningless to search for without the series.
var bookPrefix = regexp.MustCompile(`(?i)^книга\s+(\d+)`)

// BuildQuery constructs the search query string for a work:
// "<title> - <author>". Titles that lead with an explicit "Книга <N>" whose
// number equals the work's series position are qualified with the series
// name, since sources usually title such entries by series.
func BuildQuery(work catalog.Work) string {
	title := strings.TrimSpace(work.Title)
	if work.Series != "" {
		if m := bookPrefix.FindStringSubmatch(title); m != nil && m[1] == strings.TrimSpace(work.SeriesPosition) {
			title = strings.TrimSpace(work.Series) + ". " + title
		}
	}
	return title + " - " + strings.TrimSpace(work.Author)
}
