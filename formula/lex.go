package formula

// Character classification. Formulas are ASCII; any other byte is rejected
// by the evaluator as an operand or operator error.

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentifierStart(c byte) bool {
	return isLetter(c) || c == '%'
}

func isIdentifierContinue(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_'
}

// skipWhitespace returns the offset of the first non-space byte of s at or
// after pos.
func skipWhitespace(s string, pos int) int {
	for pos < len(s) && isSpace(s[pos]) {
		pos++
	}

	return pos
}

// identifierLength returns the length of the identifier at the start of s,
// or 0 if s does not begin with one.
func identifierLength(s string) int {
	if s == "" || !isIdentifierStart(s[0]) {
		return 0
	}

	n := 1
	for n < len(s) && isIdentifierContinue(s[n]) {
		n++
	}

	return n
}

// upperCopy returns the first n bytes of s folded to ASCII uppercase.
// Callers must have checked n < MaxNameLength.
func upperCopy(s string, n int) string {
	var buf [MaxNameLength]byte

	for i := range n {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}

		buf[i] = c
	}

	return string(buf[:n])
}

// numberLength returns the length of the decimal floating-point literal at
// the start of s: digits, an optional fraction, and an optional exponent.
// An exponent marker not followed by digits is not part of the literal.
// It returns 0 if the literal contains no digits.
func numberLength(s string) int {
	n, digits := 0, 0

	for n < len(s) && isDigit(s[n]) {
		n++
		digits++
	}

	if n < len(s) && s[n] == '.' {
		n++

		for n < len(s) && isDigit(s[n]) {
			n++
			digits++
		}
	}

	if digits == 0 {
		return 0
	}

	if n < len(s) && (s[n] == 'e' || s[n] == 'E') {
		m := n + 1
		if m < len(s) && (s[m] == '+' || s[m] == '-') {
			m++
		}

		if m < len(s) && isDigit(s[m]) {
			for m < len(s) && isDigit(s[m]) {
				m++
			}

			n = m
		}
	}

	return n
}
