package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/formula/formula"
	"github.com/ardnew/formula/log"
)

// Eval evaluates formulas in order on one session and prints each result.
type Eval struct {
	Formula []string `arg:"" help:"Formulas to evaluate; read from --source or stdin if omitted" optional:""`

	Precision int  `default:"-1" help:"Decimal places in results (-1 for shortest exact form)" short:"p"`
	KeepGoing bool `             help:"Report failures and continue with the next formula"    short:"k"`
	ShowVars  bool `             help:"Print the variable table after evaluating"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	session := newSession()
	out, diag := stdout(ctx), stderr(ctx)
	failed := 0

	for line, err := range formulas(ctx, e.Formula) {
		if err != nil {
			return ErrReadSource.Wrap(err).With(slog.String("source", line.Source))
		}

		r := session.Evaluate(ctx, line.Text)
		if r.OK() {
			fmt.Fprintln(out, formula.FormatValue(r.Value, e.Precision))

			continue
		}

		failed++

		writeFailure(diag, line, r.Err())

		if !e.KeepGoing {
			return evalError(line, r.Err())
		}
	}

	if e.ShowVars {
		if err := session.Table().Format(ctx, out, e.Precision); err != nil {
			return ErrWriteVars.Wrap(err)
		}
	}

	if failed > 0 {
		return ErrEvaluate.With(slog.Int("failed", failed))
	}

	return nil
}

// newSession returns a session that logs through the package-level logger.
func newSession() *formula.Session {
	return formula.NewSession(formula.WithLogger(log.Default()))
}

func evalError(line Line, err error) *Error {
	return ErrEvaluate.Wrap(err).With(
		slog.String("source", line.Source),
		slog.Int("line", line.Number),
	)
}

// writeFailure prints err with the formula and a caret under the offset at
// which evaluation stopped.
func writeFailure(w io.Writer, line Line, err error) {
	fmt.Fprintf(w, "%s:%d: %v\n", line.Source, line.Number, err)

	var ferr *formula.Error
	if !errors.As(err, &ferr) || ferr.Offset() < 0 {
		return
	}

	fmt.Fprintf(w, "  %s\n  %s^\n", line.Text, caretPad(line.Text, ferr.Offset()))
}

// caretPad returns the padding that places a caret under byte offset of
// text, reproducing tabs so the caret lines up.
func caretPad(text string, offset int) string {
	offset = min(offset, len(text))

	var b strings.Builder

	for i := range offset {
		if text[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}

	return b.String()
}
