package repl

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/formula/formula"
)

// isWordByte reports whether c can appear in a completion word: the
// characters of identifiers and constant names.
func isWordByte(c byte) bool {
	return c == '_' || c == '%' ||
		'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

// wordBounds returns the word at the cursor and its byte boundaries within
// input. Formulas are ASCII, so the cursor is a byte offset.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start, end = cursor, cursor

	for start > 0 && isWordByte(input[start-1]) {
		start--
	}

	for end < len(input) && isWordByte(input[end]) {
		end++
	}

	return input[start:end], start, end
}

// candidates returns the completion candidates for the given mode: command
// names in control mode, otherwise functions, constants and the session's
// variables.
func (m model) candidates() []string {
	if m.mode == modeCtrl {
		return commandNames()
	}

	names := slices.Concat(formula.Functions(), formula.Constants())
	if m.session != nil {
		names = append(names, m.session.Table().Names()...)
	}

	return names
}

// computeMatches calculates the fuzzy matches for the word at the cursor,
// ranked best first. An empty word, or a word that starts with a digit, has
// no matches.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	word, start, end := wordBounds(m.input.Value(), m.input.Position())

	if word == "" || isDigit(word[0]) {
		return nil, start, end
	}

	return fuzzy.Find(word, m.candidates()), start, end
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. The selected candidate, while cycling, uses the selected
// style.
func renderCandidateBar(matches fuzzy.Matches, selected int, width int) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var (
		b    strings.Builder
		used int
	)

	for i, match := range matches {
		rendered := renderCandidate(match, i == selected)
		w := lipgloss.Width(rendered)

		limit := width
		if i < len(matches)-1 {
			limit -= lipgloss.Width(sep) + ellipsisWidth
		}

		if i > 0 {
			w += lipgloss.Width(sep)

			if used+w > limit {
				b.WriteString(sep)
				b.WriteString(ellipsis)

				break
			}

			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched characters
// highlighted. Functions are shown with a "()" suffix that is not inserted
// on completion.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i := range len(match.Str) {
		style := base
		if slices.Contains(match.MatchedIndexes, i) {
			style = highlight
		}

		b.WriteString(style.Render(match.Str[i : i+1]))
	}

	if _, _, ok := formula.Signature(match.Str); ok {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}
