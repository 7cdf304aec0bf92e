package formula

import (
	"context"
	"log/slog"
	"math"
	"strconv"

	"github.com/ardnew/formula/log"
)

// operator is a binary operator, a parenthesis, or one of the two line
// sentinels. Constants are declared from lowest to highest precedence.
type operator int

const (
	opEndLine operator = iota
	opBeginLine
	opCloseParen
	opOpenParen
	opAssign
	opAdd
	opSubtract
	opMultiply
	opDivide
	opPower
)

// rank is indexed by operator. Add and subtract share a tier, as do
// multiply and divide.
var rank = [...]int{
	opEndLine:    0,
	opBeginLine:  1,
	opCloseParen: 2,
	opOpenParen:  3,
	opAssign:     4,
	opAdd:        5,
	opSubtract:   5,
	opMultiply:   6,
	opDivide:     6,
	opPower:      7,
}

// appliesOver reports whether op binds tighter than the operator pending in
// an enclosing frame. Assignment groups right to left; everything else
// groups left to right.
func (op operator) appliesOver(pending operator) bool {
	if op == opAssign {
		return rank[op] >= rank[pending]
	}

	return rank[op] > rank[pending]
}

var operatorByte = map[byte]operator{
	'+': opAdd,
	'-': opSubtract,
	'*': opMultiply,
	'/': opDivide,
	'^': opPower,
	')': opCloseParen,
	'=': opAssign,
}

// evaluator is the state of a single top-level evaluation. The table it
// refers to outlives it; everything else is discarded when it returns.
type evaluator struct {
	ctx    context.Context
	logger log.Logger
	table  *Table
	input  string
	pos    int
	depth  int
}

// operand is the result of the value phase. slot is set only when the value
// was read from a bare variable name, making it assignable.
type operand struct {
	slot  *slot
	value float64
}

func (e *evaluator) peek() byte {
	if e.pos >= len(e.input) {
		return 0
	}

	return e.input[e.pos]
}

func (e *evaluator) skipWhitespace() {
	e.pos = skipWhitespace(e.input, e.pos)
}

// parse reads one operand and the operator that follows it, then keeps
// applying operators for as long as they bind tighter than pending. It
// returns the accumulated value and the first operator it did not apply.
func (e *evaluator) parse(pending operator) (float64, operator, ErrorKind) {
	lhs, kind := e.parseValue()
	if kind != None {
		return 0, pending, kind
	}

	op, kind := e.parseOperator()
	if kind != None {
		return 0, pending, kind
	}

	value := lhs.value

	for op.appliesOver(pending) {
		switch op {
		case opCloseParen:
			e.depth--
			if e.depth < 0 {
				return 0, op, UnmatchedCloseParen
			}

		case opAssign:
			if lhs.slot == nil {
				return 0, op, VariableExpected
			}

			rhs, next, kind := e.parse(op)
			if kind != None {
				return 0, next, kind
			}

			lhs.slot.Value = rhs
			value = rhs
			op = next

			e.logger.TraceContext(e.ctx, "variable assigned",
				slog.String("name", lhs.slot.Name),
				slog.Float64("value", rhs))

		default:
			rhs, next, kind := e.parse(op)
			if kind != None {
				return 0, next, kind
			}

			value, kind = combine(op, value, rhs)
			if kind != None {
				return 0, next, kind
			}

			op = next
		}
	}

	return value, op, None
}

// combine applies a binary arithmetic operator.
func combine(op operator, lhs, rhs float64) (float64, ErrorKind) {
	switch op {
	case opAdd:
		return lhs + rhs, None
	case opSubtract:
		return lhs - rhs, None
	case opMultiply:
		return lhs * rhs, None
	case opDivide:
		if rhs == 0 {
			return 0, DivisionByZero
		}

		return lhs / rhs, None
	case opPower:
		return math.Pow(lhs, rhs), None
	default:
		panic("internal error: unknown operator " + strconv.Itoa(int(op)))
	}
}

// parseValue reads an optionally signed operand: a parenthesized
// expression, a numeric literal, a constant, a function call, or a variable.
func (e *evaluator) parseValue() (operand, ErrorKind) {
	e.skipWhitespace()

	negate := false

	switch e.peek() {
	case '-':
		negate = true

		e.pos++
	case '+':
		e.pos++
	}

	var (
		v    operand
		kind ErrorKind
	)

	switch c := e.peek(); {
	case c == '(':
		e.pos++
		v.value, kind = e.parseGroup()

	case isDigit(c) || c == '.':
		v.value, kind = e.parseNumber()

	default:
		v, kind = e.parseName()
	}

	if kind != None {
		return operand{}, kind
	}

	if negate {
		v.value = -v.value
	}

	return v, None
}

// parseGroup evaluates the expression following an open parenthesis, which
// must already have been consumed, through its matching close parenthesis.
func (e *evaluator) parseGroup() (float64, ErrorKind) {
	e.depth++

	value, op, kind := e.parse(opOpenParen)
	if kind != None {
		return 0, kind
	}

	if op != opCloseParen {
		return 0, UnmatchedOpenParen
	}

	e.depth--

	return value, None
}

func (e *evaluator) parseNumber() (float64, ErrorKind) {
	n := numberLength(e.input[e.pos:])
	if n == 0 {
		return 0, BadOperand
	}

	value, err := strconv.ParseFloat(e.input[e.pos:e.pos+n], 64)
	if err != nil && !isRangeError(err) {
		return 0, BadOperand
	}

	e.pos += n

	return value, None
}

func isRangeError(err error) bool {
	ne, ok := err.(*strconv.NumError)

	return ok && ne.Err == strconv.ErrRange
}

// parseName resolves an identifier as a constant, a function call, or a
// variable, in that order. Unknown variables are created with value 0.
func (e *evaluator) parseName() (operand, ErrorKind) {
	n := identifierLength(e.input[e.pos:])
	if n == 0 {
		return operand{}, BadOperand
	}

	if n >= MaxNameLength {
		return operand{}, VariableNameTooLong
	}

	name := upperCopy(e.input[e.pos:], n)
	e.pos += n

	if value, ok := constants[name]; ok {
		return operand{value: value}, None
	}

	if fn := lookupFunction(name); fn != funcNone {
		e.skipWhitespace()

		if e.peek() != '(' {
			return operand{}, BadOperand
		}

		e.pos++

		arg, kind := e.parseGroup()
		if kind != None {
			return operand{}, kind
		}

		value, kind := fn.apply(arg)
		if kind != None {
			return operand{}, kind
		}

		return operand{value: value}, None
	}

	created := e.table.Len()

	s, kind := e.table.bind(name, 0)
	if kind != None {
		return operand{}, kind
	}

	if e.table.Len() > created {
		e.logger.TraceContext(e.ctx, "variable created",
			slog.String("name", name),
			slog.Int("index", s.index))
	}

	return operand{slot: s, value: s.Value}, None
}

// parseOperator reads the operator following an operand. The end of input
// is reported as opEndLine and is not consumed.
func (e *evaluator) parseOperator() (operator, ErrorKind) {
	e.skipWhitespace()

	if e.pos >= len(e.input) {
		return opEndLine, None
	}

	op, ok := operatorByte[e.input[e.pos]]
	if !ok {
		return opEndLine, BadOperator
	}

	e.pos++

	return op, None
}
