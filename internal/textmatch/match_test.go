package textmatch

import (
	"errors"
	"testing"

	"shelfcheck/internal/catalog"
	"shelfcheck/internal/sources"
)

func TestMatches(t *testing.T) {
	work := catalog.Work{
		ID:             7,
		Title:          "Книга 2",
		Author:         "Иванов",
		Series:         "Сага",
		SeriesPosition: "2",
	}

	tests := []struct {
		name      string
		candidate sources.Candidate
		want      bool
	}{
		{
			"title containment after series strip, author exact",
			sources.Candidate{Title: "Сага: Книга 2", Author: "Иванов"},
			true,
		},
		{
			"author mismatch blocks title match",
			sources.Candidate{Title: "Сага: Книга 2", Author: "Петров"},
			false,
		},
		{
			"title mismatch blocks author match",
			sources.Candidate{Title: "Другая история", Author: "Иванов"},
			false,
		},
		{
			"series mismatch blocks when both sides have one",
			sources.Candidate{Title: "Сага: Книга 2", Author: "Иванов", Series: "Хроники"},
			false,
		},
		{
			"series agreement passes",
			sources.Candidate{Title: "Сага: Книга 2", Author: "Иванов", Series: "Сага"},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Matches(work, tt.candidate)
			if err != nil {
				t.Fatalf("Matches() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Matches(%+v) = %v, want %v", tt.candidate, got, tt.want)
			}
		})
	}
}

func TestMatchesUnclassifiableAuthorPropagates(t *testing.T) {
	work := catalog.Work{ID: 8, Title: "Название", Author: "Раз Два Три Четыре"}
	_, err := Matches(work, sources.Candidate{Title: "Название", Author: "Раз"})
	if !errors.Is(err, ErrUnclassifiableAuthor) {
		t.Errorf("error = %v, want ErrUnclassifiableAuthor", err)
	}
}
