package formula

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ardnew/formula/log"
)

// Result is the outcome of evaluating one formula.
type Result struct {
	// Value is the computed value, or 0 if Kind is not [None].
	Value float64 `json:"value" yaml:"value"`
	// Kind is the first error condition detected, or [None].
	Kind ErrorKind `json:"kind" yaml:"kind"`
	// End is the byte offset at which evaluation stopped: the length of the
	// formula on success, otherwise the offset at which the error was found.
	End int `json:"end" yaml:"end"`

	input string
}

// OK reports whether the evaluation succeeded.
func (r Result) OK() bool { return r.Kind == None }

// Err returns nil on success. Otherwise it returns an [*Error] matching the
// sentinel for r.Kind and positioned at r.End.
func (r Result) Err() error {
	if r.Kind == None {
		return nil
	}

	return KindError(r.Kind).At(r.input, r.End)
}

// Session evaluates formulas against a variable table that persists from
// one evaluation to the next.
//
// A Session is safe for concurrent use; evaluations are serialized.
type Session struct {
	mu     sync.Mutex
	table  *Table
	logger log.Logger
}

// Option configures a [Session].
type Option func(*Session)

// WithTable sets the variable table used by the session.
func WithTable(t *Table) Option {
	return func(s *Session) {
		if t != nil {
			s.table = t
		}
	}
}

// WithLogger sets the logger used to trace evaluation.
// The zero Logger discards everything.
func WithLogger(l log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// NewSession returns a session with an empty table of [MaxVariables]
// capacity unless overridden by opts.
func NewSession(opts ...Option) *Session {
	s := &Session{}

	for _, opt := range opts {
		opt(s)
	}

	if s.table == nil {
		s.table = NewTable()
	}

	return s
}

// Table returns the session's variable table. The caller must not use it
// concurrently with Evaluate.
func (s *Session) Table() *Table { return s.table }

// Variable returns the variable at index in creation order.
func (s *Session) Variable(index int) (Variable, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.table.Get(index)
}

// Reset removes all variables from the session's table.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.table.Reset()
}

// Evaluate computes the value of text, reading and updating the session's
// variables. Variables referenced before the point of an error remain
// created even when evaluation fails.
func (s *Session) Evaluate(ctx context.Context, text string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := evaluator{
		ctx:    ctx,
		logger: s.logger,
		table:  s.table,
		input:  text,
	}

	value, _, kind := e.parse(opBeginLine)
	if kind != None {
		value = 0
	}

	r := Result{Value: value, Kind: kind, End: e.pos, input: text}

	if kind != None {
		s.logger.DebugContext(ctx, "evaluation failed",
			slog.String("formula", text),
			slog.String("kind", kind.String()),
			slog.Int("offset", r.End))
	} else {
		s.logger.TraceContext(ctx, "evaluated",
			slog.String("formula", text),
			slog.Float64("value", value))
	}

	return r
}

var (
	defaultOnce    sync.Once
	defaultSession *Session
)

// Default returns the process-wide session used by the package-level
// functions.
func Default() *Session {
	defaultOnce.Do(func() { defaultSession = NewSession() })

	return defaultSession
}

// Evaluate evaluates text with the [Default] session.
func Evaluate(ctx context.Context, text string) Result {
	return Default().Evaluate(ctx, text)
}

// VariableAt returns the variable at index in the [Default] session.
func VariableAt(index int) (Variable, bool) {
	return Default().Variable(index)
}
