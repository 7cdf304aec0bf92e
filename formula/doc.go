// Package formula evaluates single-line arithmetic formulas over
// double-precision values with named, persistent variables.
//
// # Syntax
//
// A formula is a sequence of operands separated by binary operators:
//
//	+  -  *  /  ^  =
//
// Operands are decimal literals (1, 2.5, .5, 1e-3), parenthesized formulas,
// the constants %E and %PI, single-argument function calls, and variables.
// Any operand may carry a unary sign. Names are case-insensitive and are
// stored in uppercase.
//
// Precedence, from loosest to tightest: assignment, then addition and
// subtraction, then multiplication and division, then exponentiation.
// Assignment groups right to left (A = B = 3 sets both); all other operators
// group left to right, so 2^3^2 is 64.
//
// The built-in functions are SIN, COS, TAN, EXP, LOG, LOG10, ABS, ACOS,
// ASIN, ATAN, SQRT and INT. INT truncates toward zero. LOG, LOG10 and SQRT
// require a positive argument; ACOS and ASIN require -1 <= x < 1.
//
// # Variables
//
// Referencing an unknown variable creates it with value 0. The left operand
// of = must be a bare variable name. Variables live in a [Table] owned by a
// [Session] and persist across evaluations:
//
//	s := formula.NewSession()
//	s.Evaluate(ctx, "r = 2")
//	s.Evaluate(ctx, "%PI * r^2") // 12.566370614359172
//
// # Errors
//
// Evaluation stops at the first error. The [Result] records its [ErrorKind]
// and the byte offset at which it was detected, and its value is 0.
// [Result.Err] converts it to an error that matches the corresponding
// sentinel, such as [ErrDivisionByZero], with [errors.Is].
package formula
