package formula

//go:generate go tool stringer --linecomment --type ErrorKind --output error_string.go

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// ErrorKind identifies the single error condition reported by an evaluation.
type ErrorKind int

const (
	None                        ErrorKind = iota // none
	BadOperand                                   // bad-operand
	UnmatchedOpenParen                           // unmatched-open-paren
	UnmatchedCloseParen                          // unmatched-close-paren
	BadOperator                                  // bad-operator
	DivisionByZero                               // division-by-zero
	UnknownFunction                              // unknown-function
	VariableExpected                             // variable-expected
	VariableTableFull                            // variable-table-full
	VariableNameTooLong                          // variable-name-too-long
	VariableStorageExhausted                     // variable-storage-exhausted
	FunctionParameterOutOfRange                  // function-parameter-out-of-range
)

// message is indexed by ErrorKind.
var message = [...]string{
	None:                        "",
	BadOperand:                  "invalid operand",
	UnmatchedOpenParen:          "unmatched left parenthesis",
	UnmatchedCloseParen:         "unmatched right parenthesis",
	BadOperator:                 "invalid operator",
	DivisionByZero:              "division by zero",
	UnknownFunction:             "unknown function",
	VariableExpected:            "variable expected",
	VariableTableFull:           "variable space full",
	VariableNameTooLong:         "variable name too long",
	VariableStorageExhausted:    "variable storage exhausted",
	FunctionParameterOutOfRange: "function parameter is out of range",
}

// Message returns the human-readable description of kind.
// The message for [None] is the empty string.
func Message(kind ErrorKind) string {
	if kind < 0 || int(kind) >= len(message) {
		return "unknown error code " + strconv.Itoa(int(kind))
	}

	return message[kind]
}

// Message returns the human-readable description of k.
func (k ErrorKind) Message() string { return Message(k) }

// Predefined errors (sentinel values), one per [ErrorKind] except [None].
var (
	ErrBadOperand                  = kindError(BadOperand)
	ErrUnmatchedOpenParen          = kindError(UnmatchedOpenParen)
	ErrUnmatchedCloseParen         = kindError(UnmatchedCloseParen)
	ErrBadOperator                 = kindError(BadOperator)
	ErrDivisionByZero              = kindError(DivisionByZero)
	ErrUnknownFunction             = kindError(UnknownFunction)
	ErrVariableExpected            = kindError(VariableExpected)
	ErrVariableTableFull           = kindError(VariableTableFull)
	ErrVariableNameTooLong         = kindError(VariableNameTooLong)
	ErrVariableStorageExhausted    = kindError(VariableStorageExhausted)
	ErrFunctionParameterOutOfRange = kindError(FunctionParameterOutOfRange)
)

// sentinel maps an ErrorKind to its predefined error.
var sentinel = map[ErrorKind]*Error{
	BadOperand:                  ErrBadOperand,
	UnmatchedOpenParen:          ErrUnmatchedOpenParen,
	UnmatchedCloseParen:         ErrUnmatchedCloseParen,
	BadOperator:                 ErrBadOperator,
	DivisionByZero:              ErrDivisionByZero,
	UnknownFunction:             ErrUnknownFunction,
	VariableExpected:            ErrVariableExpected,
	VariableTableFull:           ErrVariableTableFull,
	VariableNameTooLong:         ErrVariableNameTooLong,
	VariableStorageExhausted:    ErrVariableStorageExhausted,
	FunctionParameterOutOfRange: ErrFunctionParameterOutOfRange,
}

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg    string
	err    error       // Wrapped error (for errors.Unwrap)
	attrs  []slog.Attr // Attributes for structured logging
	kind   ErrorKind
	offset int
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg, offset: -1}
}

func kindError(kind ErrorKind) *Error {
	return &Error{msg: Message(kind), kind: kind, offset: -1}
}

// KindError returns the predefined error for kind, or nil for [None].
func KindError(kind ErrorKind) *Error {
	if e, ok := sentinel[kind]; ok {
		return e
	}

	if kind == None {
		return nil
	}

	return kindError(kind)
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err, offset: -1}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an Error of the same kind, so that errors
// derived with Wrap, With or At still match the value they came from.
// Errors of kind [None] match by message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	if e.kind == None && t.kind == None {
		return e.msg != "" && e.msg == t.msg
	}

	return e.kind == t.kind
}

// Kind returns the evaluation error kind, or [None] for errors that did not
// originate in the evaluator.
func (e *Error) Kind() ErrorKind { return e.kind }

// Offset returns the byte offset into the formula at which the error was
// detected, or -1 if unknown.
func (e *Error) Offset() int { return e.offset }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.kind != None {
		attrs = append(attrs, slog.String("kind", e.kind.String()))
	}

	if e.offset >= 0 {
		attrs = append(attrs, slog.Int("offset", e.offset))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:    e.msg,
		err:    err,
		attrs:  e.attrs, // Share attrs
		kind:   e.kind,
		offset: e.offset,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:    e.msg,
		err:    e.err,
		attrs:  newAttrs,
		kind:   e.kind,
		offset: e.offset,
	}
}

// At returns a copy of the error positioned at offset within formula.
func (e *Error) At(formula string, offset int) *Error {
	pe := e.With(slog.String("formula", formula))
	pe.offset = offset

	return pe
}
