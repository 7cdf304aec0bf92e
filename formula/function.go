package formula

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// function identifies a built-in single-argument function.
type function int

const (
	funcNone function = iota
	funcSin
	funcCos
	funcTan
	funcExp
	funcLog
	funcLog10
	funcAbs
	funcAcos
	funcAsin
	funcAtan
	funcSqrt
	funcInt
)

// functions maps uppercase names to built-in functions.
var functions = map[string]function{
	"SIN":   funcSin,
	"COS":   funcCos,
	"TAN":   funcTan,
	"EXP":   funcExp,
	"LOG":   funcLog,
	"LOG10": funcLog10,
	"ACOS":  funcAcos,
	"ASIN":  funcAsin,
	"ATAN":  funcAtan,
	"ABS":   funcAbs,
	"SQRT":  funcSqrt,
	"INT":   funcInt,
}

// constants maps the uppercase spelling of each built-in constant to its value.
var constants = map[string]float64{
	"%E":  math.E,
	"%PI": math.Pi,
}

// lookupFunction returns the function named by the uppercase name, or
// funcNone if there is none.
func lookupFunction(name string) function {
	return functions[name]
}

// Functions returns the names of all built-in functions in sorted order.
func Functions() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Constants returns the names of the built-in constants in sorted order.
func Constants() []string {
	names := make([]string, 0, len(constants))
	for name := range constants {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// domains describes the arguments accepted by functions not defined on the
// whole real line.
var domains = map[function]string{
	funcLog:   "x > 0",
	funcLog10: "x > 0",
	funcSqrt:  "x > 0",
	funcAcos:  "-1 <= x < 1",
	funcAsin:  "-1 <= x < 1",
}

// Signature returns the call signature of the built-in function name, such
// as "SQRT(x)", and a description of its domain, or "" if every real argument
// is accepted. The name is matched without regard to case.
func Signature(name string) (signature, domain string, ok bool) {
	name = strings.ToUpper(name)

	fn := lookupFunction(name)
	if fn == funcNone {
		return "", "", false
	}

	return name + "(x)", domains[fn], true
}

// inDomain reports whether x is a valid argument to fn.
// The upper bound of ACOS and ASIN is exclusive.
func (fn function) inDomain(x float64) bool {
	switch fn {
	case funcLog, funcLog10, funcSqrt:
		return x > 0
	case funcAcos, funcAsin:
		return x >= -1 && x < 1
	default:
		return true
	}
}

// apply evaluates fn at x. Arguments outside the domain of fn yield 0 and
// [FunctionParameterOutOfRange].
func (fn function) apply(x float64) (float64, ErrorKind) {
	if !fn.inDomain(x) {
		return 0, FunctionParameterOutOfRange
	}

	switch fn {
	case funcSin:
		return math.Sin(x), None
	case funcCos:
		return math.Cos(x), None
	case funcTan:
		return math.Tan(x), None
	case funcExp:
		return math.Exp(x), None
	case funcLog:
		return math.Log(x), None
	case funcLog10:
		return math.Log10(x), None
	case funcAbs:
		return math.Abs(x), None
	case funcAcos:
		return math.Acos(x), None
	case funcAsin:
		return math.Asin(x), None
	case funcAtan:
		return math.Atan(x), None
	case funcSqrt:
		return math.Sqrt(x), None
	case funcInt:
		// INT(-1.2) is -1, not -2.
		if x < 0 {
			return math.Ceil(x), None
		}

		return math.Floor(x), None
	default:
		panic("internal error: unknown function " + strconv.Itoa(int(fn)))
	}
}
