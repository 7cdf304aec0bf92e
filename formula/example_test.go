package formula_test

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ardnew/formula/formula"
)

func ExampleSession_Evaluate() {
	ctx := context.Background()
	s := formula.NewSession()

	s.Evaluate(ctx, "r = 2")

	r := s.Evaluate(ctx, "%pi * r^2")
	fmt.Println(formula.FormatValue(r.Value, 4))

	// Output:
	// 12.5664
}

func ExampleResult_Err() {
	r := formula.NewSession().Evaluate(context.Background(), "1 + (2 * 3")

	fmt.Println(r.Kind, r.End)
	fmt.Println(r.Err())
	fmt.Println(errors.Is(r.Err(), formula.ErrUnmatchedOpenParen))

	// Output:
	// unmatched-open-paren 10
	// unmatched left parenthesis
	// true
}

func ExampleTable_Format() {
	ctx := context.Background()
	s := formula.NewSession()

	s.Evaluate(ctx, "a0 = a1 = a2 = sqrt(2)")
	s.Table().Format(ctx, os.Stdout, 6)

	// Output:
	// A0 = 1.414214
	// A1 = 1.414214
	// A2 = 1.414214
}

func ExampleNextToken() {
	token, rest := formula.NextToken("  x=3*4  y=x/2")

	fmt.Printf("%q %q\n", token, rest)

	// Output:
	// "x=3*4" "y=x/2"
}
