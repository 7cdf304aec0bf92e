// Package cli contains the command line interface for formula.
//
// # Usage
//
// Formulas are given as arguments, read from files with --source, or read
// from stdin, one per line. The default command is eval:
//
//	formula 'R = 0.05' 'P = 1000' 'P * (1 + R) ^ 10'
//	formula vars --format yaml --filter 'value > 100' -s rates.f
//	formula repl -s rates.f
//
// Relative --source names that do not exist in the working directory are
// looked up in the --path directories, then in those listed in the
// FORMULA_PATH environment variable.
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory, which "formula init" generates from the current settings. Keys
// name long flags; nested mappings are joined with hyphens:
//
//	log:
//	  level: debug
//	precision: 6
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o formula .
//
// It adds --pprof-mode (allocs, block, clock, cpu, goroutine, heap, mem,
// mutex, thread, trace) and --pprof-dir.
package cli
