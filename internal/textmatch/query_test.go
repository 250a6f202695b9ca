package textmatch

import (
	"testing"

	"shelfcheck/internal/catalog"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name string
		work catalog.Work
		want string
	}{
		{
			"plain title",
			catalog.Work{Title: "Пикник на обочине", Author: "Стругацкие"},
			"Пикник на обочине - Стругацкие",
		},
		{
			"book prefix matching series position gains series name",
			catalog.Work{Title: "Книга 2", Series: "Сага", SeriesPosition: "2", Author: "Иванов"},
			"Сага. Книга 2 - Иванов",
		},
		{
			"book prefix with different position left alone",
			catalog.Work{Title: "Книга 3", Series: "Сага", SeriesPosition: "2", Author: "Иванов"},
			"Книга 3 - Иванов",
		},
		{
			"book prefix without series left alone",
			catalog.Work{Title: "Книга 2", SeriesPosition: "2", Author: "Иванов"},
			"Книга 2 - Иванов",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildQuery(tt.work); got != tt.want {
				t.Errorf("BuildQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}
