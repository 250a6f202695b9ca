package textmatch

import (
	"errors"
	"testing"
)

func TestWordsEqual(t *testing.T) {
	tests := []struct {
		x, y string
		want bool
	}{
		{"стругацкий", "стругацкие", true}, // adjective-form surname variant
		{"змагаевы", "змагаев", true},      // trailing pluralizing letter
		{"иванов", "иванов", true},
		{"иван", "иванов", true}, // literal prefix
		{"пётр", "павел", false},
		{"кот", "код", false}, // too short for last-letter variance
		{"", "иванов", false},
	}

	for _, tt := range tests {
		if got := wordsEqual(tt.x, tt.y); got != tt.want {
			t.Errorf("wordsEqual(%q, %q) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
		// The relation must not depend on argument order.
		if got := wordsEqual(tt.y, tt.x); got != tt.want {
			t.Errorf("wordsEqual(%q, %q) = %v, want %v", tt.y, tt.x, got, tt.want)
		}
	}
}

func TestAuthorsMatch(t *testing.T) {
	tests := []struct {
		name       string
		candidate  string
		catalogued string
		want       bool
	}{
		{"exact single", "Иванов", "Иванов", true},
		{"surname first vs last", "Круз Андрей", "Андрей Круз", true},
		{"plural family surname", "Змагаев Дмитрий", "Дмитрий и Анатолий Змагаевы", true},
		{"multi candidate groups any match", "Круз Андрей, Царев Андрей", "Андрей Круз", true},
		{"subset by given name", "Круз Андрей", "Андрей", true},
		{"joined by and on catalogued side", "Дивов", "Дивов и Петров", true},
		{"mixed scripts", "Иванoв", "Иванов", true},
		{"different authors", "Петров", "Сидоров", false},
		{"empty candidate", "", "Иванов", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AuthorsMatch(tt.candidate, tt.catalogued)
			if err != nil {
				t.Fatalf("AuthorsMatch() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("AuthorsMatch(%q, %q) = %v, want %v", tt.candidate, tt.catalogued, got, tt.want)
			}
		})
	}
}

func TestAuthorsMatchUnclassifiable(t *testing.T) {
	_, err := AuthorsMatch("Иванов", "Элеонора Гильм Аксинья Вед Роман")
	if !errors.Is(err, ErrUnclassifiableAuthor) {
		t.Errorf("error = %v, want ErrUnclassifiableAuthor", err)
	}
}
