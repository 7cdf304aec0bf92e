package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/formula/log"
)

func Example_basic() {
	logger := log.Make(os.Stdout, log.WithTimeLayout("none"))
	logger.Info("formula evaluated", slog.Float64("value", 14))

	// Output:
	// level=INFO msg="formula evaluated" value=14
}

func Example_levels() {
	logger := log.Make(os.Stdout, log.WithLevel(log.LevelWarn), log.WithTimeLayout("none"))

	logger.Debug("not shown")
	logger.Info("not shown")
	logger.Warn("variable table nearly full", slog.Int("used", 120))

	// Output:
	// level=WARN msg="variable table nearly full" used=120
}

func Example_trace() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatJSON),
		log.WithTimeLayout("none"))

	logger.Trace("variable created", slog.String("name", "X"), slog.Int("index", 0))

	// Output:
	// {"level":"TRACE","msg":"variable created","name":"X","index":0}
}

func Example_withAttributes() {
	logger := log.Make(os.Stdout, log.WithTimeLayout("none")).
		With(slog.String("session", "repl"))

	logger.Info("reset")

	// Output:
	// level=INFO msg=reset session=repl
}
