package formula

import (
	"iter"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

const (
	// MaxVariables is the default number of variables a [Table] can hold.
	MaxVariables = 128

	// MaxNameLength bounds identifier length: a name of MaxNameLength or more
	// characters is rejected with [VariableNameTooLong].
	MaxNameLength = 31
)

// Variable is a named numeric value held in a [Table].
type Variable struct {
	Name  string  `json:"name"  yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
}

// slot is the storage cell bound to a variable. The evaluator holds on to a
// slot between reading a variable and assigning to it.
type slot struct {
	Variable

	index int
}

// Table maps uppercase variable names to values. Entries are kept in
// insertion order, are never removed individually, and are updated in place.
//
// A Table is not safe for concurrent use.
type Table struct {
	entries  *linkedhashmap.Map // string → *slot
	capacity int
	budget   int // bytes of name storage permitted; 0 is unlimited
	used     int
}

// TableOption configures a [Table].
type TableOption func(*Table)

// WithCapacity sets the maximum number of variables. Values less than 1 are
// ignored.
func WithCapacity(n int) TableOption {
	return func(t *Table) {
		if n > 0 {
			t.capacity = n
		}
	}
}

// WithStorageLimit bounds the total bytes of name storage, counting one
// terminator byte per name. Zero means unlimited.
func WithStorageLimit(n int) TableOption {
	return func(t *Table) {
		if n >= 0 {
			t.budget = n
		}
	}
}

// NewTable returns an empty table with capacity [MaxVariables] unless
// overridden by opts.
func NewTable(opts ...TableOption) *Table {
	t := &Table{
		entries:  linkedhashmap.New(),
		capacity: MaxVariables,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Len returns the number of variables in the table.
func (t *Table) Len() int { return t.entries.Size() }

// Cap returns the maximum number of variables the table can hold.
func (t *Table) Cap() int { return t.capacity }

// Lookup returns the index of the variable with exactly the given name.
func (t *Table) Lookup(name string) (int, bool) {
	s, ok := t.lookup(name)
	if !ok {
		return -1, false
	}

	return s.index, true
}

// Assign stores value in the variable with the given name, creating it if
// necessary, and returns its index.
//
// Creating a variable fails with [ErrVariableTableFull] when the table is at
// capacity and with [ErrVariableStorageExhausted] when its name does not fit
// in the remaining storage. Names must be non-empty and shorter than
// [MaxNameLength].
func (t *Table) Assign(name string, value float64) (int, error) {
	if name == "" {
		return -1, ErrVariableExpected
	}

	if len(name) >= MaxNameLength {
		return -1, ErrVariableNameTooLong
	}

	s, kind := t.bind(name, value)
	if kind != None {
		return -1, KindError(kind)
	}

	s.Value = value

	return s.index, nil
}

// Get returns the variable at index, in creation order.
func (t *Table) Get(index int) (Variable, bool) {
	if index < 0 || index >= t.entries.Size() {
		return Variable{}, false
	}

	s, ok := t.entries.Values()[index].(*slot)
	if !ok {
		return Variable{}, false
	}

	return s.Variable, true
}

// All returns an iterator over all variables in creation order.
func (t *Table) All() iter.Seq2[int, Variable] {
	return func(yield func(int, Variable) bool) {
		it := t.entries.Iterator()
		for it.Next() {
			s, ok := it.Value().(*slot)
			if !ok {
				continue
			}

			if !yield(s.index, s.Variable) {
				return
			}
		}
	}
}

// Names returns the names of all variables in creation order.
func (t *Table) Names() []string {
	names := make([]string, 0, t.entries.Size())
	for _, v := range t.All() {
		names = append(names, v.Name)
	}

	return names
}

// Reset removes every variable.
func (t *Table) Reset() {
	t.entries.Clear()
	t.used = 0
}

func (t *Table) lookup(name string) (*slot, bool) {
	v, ok := t.entries.Get(name)
	if !ok {
		return nil, false
	}

	s, ok := v.(*slot)

	return s, ok
}

// bind returns the slot for name, creating it with value if absent. The
// value of an existing slot is left unchanged.
func (t *Table) bind(name string, value float64) (*slot, ErrorKind) {
	if s, ok := t.lookup(name); ok {
		return s, None
	}

	if t.entries.Size() >= t.capacity {
		return nil, VariableTableFull
	}

	need := len(name) + 1
	if t.budget > 0 && t.used+need > t.budget {
		return nil, VariableStorageExhausted
	}

	s := &slot{
		Variable: Variable{Name: name, Value: value},
		index:    t.entries.Size(),
	}

	t.entries.Put(name, s)
	t.used += need

	return s, None
}
