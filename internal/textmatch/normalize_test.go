package textmatch

import "testing"

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"case fold", "Пикник НА Обочине", "пикник на обочине"},
		{"punctuation to spaces", "«Сага»: Книга — 2", "сага том 2"},
		{"latin homoglyphs collapse", "Cага", "сага"},
		{"volume synonyms", "Часть 3", "том 3"},
		{"kniga synonym", "Книга 1", "том 1"},
		{"duplicate spaces", "два   слова", "два слова"},
		{"dots split tokens", "т.1", "т 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTitle(tt.input); got != tt.want {
				t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeTitleIdempotent(t *testing.T) {
	inputs := []string{
		"«Сага»: Книга — 2",
		"Пикник на обочине",
		"Часть 3. Финал",
		"Cага: злые земли",
		"",
	}
	for _, input := range inputs {
		once := NormalizeTitle(input)
		twice := NormalizeTitle(once)
		if once != twice {
			t.Errorf("NormalizeTitle not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestNormalizeAuthor(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"cyrillic homoglyphs collapse to latin", "Стругацкие", "cтругaцкиe"},
		{"quotes stripped", "«Иванов»", "ивaнoв"},
		{"spaces collapsed", "Пётр   Петров", "пётр пeтрoв"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeAuthor(tt.input); got != tt.want {
				t.Errorf("NormalizeAuthor(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeAuthorIdempotent(t *testing.T) {
	inputs := []string{"Стругацкие", "Круз Андрей", "«Иванов»"}
	for _, input := range inputs {
		once := NormalizeAuthor(input)
		if twice := NormalizeAuthor(once); once != twice {
			t.Errorf("NormalizeAuthor not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}
