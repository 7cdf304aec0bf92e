// Package cmd implements the formula subcommands: eval, vars, repl and init.
//
// Commands read formulas from their arguments, from the files given with
// --source, or from stdin, one formula per line. Blank lines and lines
// starting with '#' are skipped. All formulas of one invocation share a
// single variable table.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
