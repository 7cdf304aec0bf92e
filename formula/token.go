package formula

import "context"

func isTokenSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n'
}

// NextToken splits the first whitespace-delimited token from buf.
//
// Leading spaces, tabs and newlines are skipped. The token ends at the next
// space, tab or newline, which is dropped along with any whitespace that
// follows it. rest is what remains of buf.
func NextToken(buf string) (token, rest string) {
	head := 0
	for head < len(buf) && isTokenSpace(buf[head]) {
		head++
	}

	sep := head
	for sep < len(buf) && !isTokenSpace(buf[sep]) {
		sep++
	}

	token = buf[head:sep]

	tail := sep
	if tail < len(buf) {
		tail++
	}

	return token, buf[skipWhitespace(buf, tail):]
}

// Float evaluates the first token of buf as a formula and returns its value
// along with the unconsumed remainder of buf. err is non-nil if the token
// did not evaluate cleanly, in which case value is 0.
func (s *Session) Float(ctx context.Context, buf string) (value float64, rest string, err error) {
	token, rest := NextToken(buf)

	r := s.Evaluate(ctx, token)

	return r.Value, rest, r.Err()
}

// Int is like [Session.Float] but truncates the value toward zero.
func (s *Session) Int(ctx context.Context, buf string) (value int32, rest string, err error) {
	f, rest, err := s.Float(ctx, buf)

	return int32(f), rest, err
}

// Long is like [Session.Float] but truncates the value toward zero.
func (s *Session) Long(ctx context.Context, buf string) (value int64, rest string, err error) {
	f, rest, err := s.Float(ctx, buf)

	return int64(f), rest, err
}
