package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/formula/cli/cmd"
	"github.com/ardnew/formula/pkg"
)

// CLI is the top-level command-line interface for formula.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Source  []string         `help:"Formula source file(s) or '-' for stdin"           name:"source" short:"s"`
	Path    []string         `help:"Directories searched for relative source files"    sep:":"`
	Version kong.VersionFlag `help:"Print version and exit"`

	Eval cmd.Eval `cmd:"" default:"withargs" help:"Evaluate formulas and print each result"`
	Vars cmd.Vars `cmd:""                    help:"Evaluate formulas and print the variable table"`
	Repl cmd.Repl `cmd:""                    help:"Evaluate formulas interactively"`
	Init cmd.Init `cmd:""                    help:"Initialize configuration file"`
}

// Run executes the formula CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"version":            pkg.Name + " " + pkg.Version,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags so that messages logged while parsing,
	// including those from the configuration loader, honor them.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath("config.json")),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	sources, err := cli.sources()
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSourceFiles(ctx, sources)

	logger := cli.Log.start(ctx)
	logger.DebugContext(ctx, "command selected",
		slog.String("command", ktx.Command()),
		slog.Any("sources", sources),
	)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}

// sources resolves each --source name along the search path formed by
// --path and the search path environment variable, and verifies that every
// named file exists.
func (c *CLI) sources() ([]string, error) {
	path := searchPath(os.Getenv(searchPathEnv()), c.Path...)
	sources := resolveSources(c.Source, path)

	for _, src := range sources {
		if src == stdinSource {
			continue
		}

		info, err := os.Stat(src)
		if err == nil && info.IsDir() {
			err = &os.PathError{Op: "read", Path: src, Err: os.ErrInvalid}
		}

		if err != nil {
			return nil, cmd.ErrSource.Wrap(err).With(
				slog.String("file", src),
				slog.Any("search_path", path),
			)
		}
	}

	return sources, nil
}
