// Package log provides a small structured logging interface based on
// [log/slog].
//
// A [Logger] is created with [Make] and configured with functional options
// at creation time. It accepts only typed [slog.Attr] values and adds a
// Trace level below Debug, which the formula evaluator uses for per-token
// detail:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithCaller(true))
//
//	logger.Trace("variable created", slog.String("name", "X"))
//
// The zero Logger discards everything, so components may hold one without
// checking whether logging was configured.
//
// # Output
//
// [FormatText] and [FormatJSON] select the standard slog handlers. With
// [WithPretty], both are replaced by a colorized handler intended for
// terminals: text is written unquoted on one line, JSON is indented. Values
// implementing [slog.LogValuer] are resolved, so structured errors print
// their fields.
//
// Timestamps follow [WithTimeLayout], which accepts the names of the layouts
// in package [time] or a custom layout. The layout "none" omits them.
//
// # Package-level logger
//
// [Config] reconfigures a process-wide logger used by [Info], [Debug] and
// the other package-level functions, and [Default] returns it for callers
// that need a [Logger] value.
package log
