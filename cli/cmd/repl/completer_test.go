package repl

import (
	"slices"
	"strings"
	"testing"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/formula/formula"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "SQRT(fo", 7, "fo", 5, 7},
		{"after_assign", "X=fo", 4, "fo", 2, 4},
		{"after_caret", "2^fo", 4, "fo", 2, 4},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"constant", "2*%p", 4, "%p", 2, 4},
		{"underscore", "RATE_1", 6, "RATE_1", 0, 6},
		{"cursor_past_end", "ab", 9, "ab", 0, 2},
		{"cursor_negative", "ab", -1, "ab", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestModel_Candidates(t *testing.T) {
	m := testModel(t)
	m.session.Evaluate(t.Context(), "RATE=2")

	got := m.candidates()
	for _, name := range slices.Concat(formula.Functions(), formula.Constants(), []string{"RATE"}) {
		if !slices.Contains(got, name) {
			t.Errorf("candidates() missing %q", name)
		}
	}

	m.mode = modeCtrl
	if got := m.candidates(); !slices.Equal(got, commandNames()) {
		t.Errorf("control candidates = %v, want %v", got, commandNames())
	}
}

func TestModel_ComputeMatches(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string // best match, "" for none
	}{
		{"function prefix", "sq", "SQRT"},
		{"constant", "1+%p", "%PI"},
		{"variable", "2*RA", "RATE"},
		{"number", "12", ""},
		{"empty word", "1 + ", ""},
		{"no candidate", "zzz", ""},
	}

	m := testModel(t)
	m.session.Evaluate(t.Context(), "RATE=2")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.setInput(tt.input, len(tt.input))

			matches, _, end := m.computeMatches()
			if end != len(tt.input) {
				t.Errorf("word end = %d, want %d", end, len(tt.input))
			}

			if tt.want == "" {
				if len(matches) != 0 {
					t.Errorf("computeMatches() = %v, want none", matches)
				}

				return
			}

			if len(matches) == 0 || matches[0].Str != tt.want {
				t.Errorf("computeMatches() = %v, want %q first", matches, tt.want)
			}
		})
	}
}

func TestRenderCandidateBar(t *testing.T) {
	matches := fuzzy.Find("s", []string{"SIN", "SQRT", "ABS", "COS"})

	t.Run("fits", func(t *testing.T) {
		got := plain(renderCandidateBar(matches, -1, 80))
		for _, want := range []string{"SIN()", "SQRT()", "ABS()", "COS()"} {
			if !strings.Contains(got, want) {
				t.Errorf("bar %q missing %q", got, want)
			}
		}
	})

	t.Run("ellipsized", func(t *testing.T) {
		got := plain(renderCandidateBar(matches, -1, 14))
		if !strings.HasSuffix(got, "...") {
			t.Errorf("bar %q is not ellipsized", got)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if got := renderCandidateBar(nil, -1, 80); got != "" {
			t.Errorf("bar = %q, want empty", got)
		}
	})
}

func TestRenderCandidate_VariableHasNoParens(t *testing.T) {
	match := fuzzy.Find("ra", []string{"RATE"})[0]

	if got := plain(renderCandidate(match, false)); got != "RATE" {
		t.Errorf("renderCandidate() = %q, want %q", got, "RATE")
	}
}
