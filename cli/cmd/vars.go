package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/formula/formula"
)

// Vars evaluates formulas and prints the resulting variable table.
type Vars struct {
	Formula []string `arg:"" help:"Formulas to evaluate; read from --source or stdin if omitted" optional:""`

	Format    string `default:"native" enum:"native,json,yaml" help:"Output format (${enum})"                          short:"F"`
	Filter    string `                                         help:"Expression over name, value and index selecting variables"`
	Precision int    `default:"-1"                             help:"Decimal places in native output (-1 for shortest)" short:"p"`
	Indent    int    `default:"2"                              help:"Indent width for JSON and YAML output"             short:"i"`
}

// Run executes the vars command.
func (v *Vars) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	filter, err := formula.CompileFilter(v.Filter)
	if err != nil {
		return ErrFilter.Wrap(err)
	}

	session := newSession()

	for line, err := range formulas(ctx, v.Formula) {
		if err != nil {
			return ErrReadSource.Wrap(err).With(slog.String("source", line.Source))
		}

		if r := session.Evaluate(ctx, line.Text); !r.OK() {
			writeFailure(stderr(ctx), line, r.Err())

			return evalError(line, r.Err())
		}
	}

	table, err := filter.Subset(session.Table())
	if err != nil {
		return ErrFilter.Wrap(err).With(slog.String("filter", v.Filter))
	}

	out := stdout(ctx)

	switch v.Format {
	case "json":
		err = table.FormatJSON(ctx, out, v.Indent)
	case "yaml":
		err = table.FormatYAML(ctx, out, v.Indent)
	default:
		err = table.Format(ctx, out, v.Precision)
	}

	if err != nil {
		return ErrWriteVars.Wrap(err).With(slog.String("format", v.Format))
	}

	return nil
}
