package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/formula/cli/cmd/repl"
	"github.com/ardnew/formula/log"
)

// Repl starts an interactive session. Formulas read from --source are
// evaluated first so their variables are available at the prompt.
type Repl struct {
	Precision int  `default:"-1" help:"Decimal places in results (-1 for shortest exact form)" short:"p"`
	NoHistory bool `             help:"Do not read or write the history file"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	session := newSession()

	if src := sourceFilesFrom(ctx); src != nil {
		for line, err := range src.Lines() {
			if err != nil {
				return ErrReadSource.Wrap(err).With(slog.String("source", line.Source))
			}

			if res := session.Evaluate(ctx, line.Text); !res.OK() {
				writeFailure(stderr(ctx), line, res.Err())

				return evalError(line, res.Err())
			}
		}
	}

	cfg := repl.Config{
		Precision: r.Precision,
		Logger:    log.Default(),
	}

	if ktx := kongContextFrom(ctx); ktx != nil && !r.NoHistory {
		cfg.CacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, session, cfg)
}
