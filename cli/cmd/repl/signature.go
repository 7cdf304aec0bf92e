package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/formula/formula"
)

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall describes the function call enclosing the cursor.
type functionCall struct {
	name   string // uppercase function name
	open   int    // byte offset of the opening parenthesis
	inCall bool   // whether the cursor is inside a known function's argument
}

// detectFunctionCall finds the innermost unclosed parenthesis before cursor
// and reports whether it opens the argument of a built-in function.
// Whitespace may separate the name from the parenthesis.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(max(cursor, 0), len(input))

	open, depth := -1, 0

	for i := cursor - 1; i >= 0 && open < 0; i-- {
		switch input[i] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			}

			depth--
		}
	}

	if open < 0 {
		return functionCall{}
	}

	end := len(strings.TrimRight(input[:open], " \t"))
	word, _, _ := wordBounds(input[:end], end)

	if _, _, ok := formula.Signature(word); !ok {
		return functionCall{open: open}
	}

	return functionCall{name: strings.ToUpper(word), open: open, inCall: true}
}

// renderSignatureHint renders the signature of the built-in function name
// with its parameter highlighted, followed by its domain if restricted.
// It returns "" for unknown names.
func renderSignatureHint(name string) string {
	signature, domain, ok := formula.Signature(name)
	if !ok {
		return ""
	}

	fn, param, _ := strings.Cut(strings.TrimSuffix(signature, ")"), "(")

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(fn))
	b.WriteString(signatureStyle.Render("("))
	b.WriteString(currentParamStyle.Render(param))
	b.WriteString(signatureStyle.Render(")"))

	if domain != "" {
		b.WriteString(signatureStyle.Render("  " + domain))
	}

	return b.String()
}
