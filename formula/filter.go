package formula

import (
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ErrFilter is returned when a filter expression does not compile or does
// not yield a boolean.
var ErrFilter = NewError("invalid filter")

// Filter is a compiled predicate over variables.
//
// Filter expressions use expr-lang syntax and may refer to name (string),
// value (float) and index (int), for example:
//
//	value > 0 && name startsWith "X"
type Filter struct {
	program *vm.Program
	source  string
}

func filterEnv(index int, v Variable) map[string]any {
	return map[string]any{
		"name":  v.Name,
		"value": v.Value,
		"index": index,
	}
}

// CompileFilter compiles src into a [Filter]. An empty src matches every
// variable.
func CompileFilter(src string) (*Filter, error) {
	if src == "" {
		return &Filter{}, nil
	}

	program, err := expr.Compile(src, expr.Env(filterEnv(0, Variable{})), expr.AsBool())
	if err != nil {
		return nil, ErrFilter.Wrap(err).With(slog.String("source", src))
	}

	return &Filter{program: program, source: src}, nil
}

// String returns the filter's source expression.
func (f *Filter) String() string { return f.source }

// Match reports whether the variable at index satisfies the filter.
func (f *Filter) Match(index int, v Variable) (bool, error) {
	if f == nil || f.program == nil {
		return true, nil
	}

	out, err := expr.Run(f.program, filterEnv(index, v))
	if err != nil {
		return false, ErrFilter.Wrap(err).With(slog.String("source", f.source))
	}

	ok, _ := out.(bool)

	return ok, nil
}

// Subset returns a new table holding the variables of t that satisfy f.
func (f *Filter) Subset(t *Table) (*Table, error) {
	sub := NewTable(WithCapacity(t.Cap()))

	for i, v := range t.All() {
		ok, err := f.Match(i, v)
		if err != nil {
			return nil, err
		}

		if !ok {
			continue
		}

		if _, err := sub.Assign(v.Name, v.Value); err != nil {
			return nil, err
		}
	}

	return sub, nil
}
