package formula

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{None, ""},
		{BadOperand, "invalid operand"},
		{UnmatchedOpenParen, "unmatched left parenthesis"},
		{UnmatchedCloseParen, "unmatched right parenthesis"},
		{BadOperator, "invalid operator"},
		{DivisionByZero, "division by zero"},
		{UnknownFunction, "unknown function"},
		{VariableExpected, "variable expected"},
		{VariableTableFull, "variable space full"},
		{VariableNameTooLong, "variable name too long"},
		{VariableStorageExhausted, "variable storage exhausted"},
		{FunctionParameterOutOfRange, "function parameter is out of range"},
		{ErrorKind(-1), "unknown error code -1"},
		{ErrorKind(100), "unknown error code 100"},
	}

	for _, tt := range tests {
		if got := Message(tt.kind); got != tt.want {
			t.Errorf("Message(%d) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestErrorKind_String(t *testing.T) {
	if s := DivisionByZero.String(); s != "division-by-zero" {
		t.Errorf("String() = %q", s)
	}

	if s := ErrorKind(42).String(); s != "ErrorKind(42)" {
		t.Errorf("String() = %q", s)
	}
}

func TestKindError(t *testing.T) {
	if KindError(None) != nil {
		t.Error("KindError(None) is not nil")
	}

	if KindError(BadOperator) != ErrBadOperator {
		t.Error("KindError(BadOperator) is not the sentinel")
	}

	e := KindError(ErrorKind(77))
	if e == nil || e.Kind() != ErrorKind(77) {
		t.Errorf("KindError(77) = %v", e)
	}
}

func TestError_Is(t *testing.T) {
	positioned := ErrDivisionByZero.At("1/0", 3)

	if !errors.Is(positioned, ErrDivisionByZero) {
		t.Error("positioned error does not match its sentinel")
	}

	if errors.Is(positioned, ErrBadOperand) {
		t.Error("positioned error matches a different sentinel")
	}

	if positioned.Offset() != 3 || ErrDivisionByZero.Offset() != -1 {
		t.Error("At modified the sentinel or lost the offset")
	}

	cause := errors.New("cause")
	wrapped := ErrFilter.Wrap(cause)

	if !errors.Is(wrapped, ErrFilter) || !errors.Is(wrapped, cause) {
		t.Error("wrapped error lost its identity or cause")
	}

	if errors.Is(NewError("a"), NewError("b")) {
		t.Error("distinct messages matched")
	}
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{NewError("msg"), "msg"},
		{NewError("msg").Wrap(io.EOF), "msg: EOF"},
		{WrapError(io.EOF), "EOF"},
		{&Error{}, ""},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestWrapError_Unwraps(t *testing.T) {
	e := ErrBadOperand.With(slog.String("k", "v"))

	if WrapError(e) != e {
		t.Error("WrapError did not return the existing *Error")
	}
}

func TestError_LogValue(t *testing.T) {
	e := ErrBadOperator.At("1 $", 2)

	v := e.LogValue()
	if v.Kind() != slog.KindGroup {
		t.Fatalf("LogValue kind = %v", v.Kind())
	}

	got := map[string]string{}
	for _, a := range v.Group() {
		got[a.Key] = a.Value.String()
	}

	want := map[string]string{
		"error":   "invalid operator",
		"kind":    "bad-operator",
		"offset":  "2",
		"formula": "1 $",
	}

	for k, w := range want {
		if got[k] != w {
			t.Errorf("LogValue[%s] = %q, want %q", k, got[k], w)
		}
	}
}
