package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/endarthur/spinifex-sub001/cli/cmd"
	"github.com/endarthur/spinifex-sub001/pkg"
)

// CLI is the top-level command-line interface for spinifex.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Check cmd.Check `cmd:"" help:"Parse an expression and report problems"`
	Fmt   cmd.Fmt   `cmd:"" help:"Rewrite an expression in canonical form"`
	Lower cmd.Lower `cmd:"" help:"Print the declarative style tree for an expression"`
	Calc  cmd.Calc  `cmd:"" help:"Evaluate an expression over a generated demo raster"`
	Repl  cmd.Repl  `cmd:"" help:"Interactive expression scratchpad"`
}

// Run executes the spinifex CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	vars := kong.Vars{"version": pkg.Version}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

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
				Compact:   true,
				Summary:   true,
				FlagsLast: false,
			}),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	stop := cli.Pprof.start(ctx)
	defer stop()

	return ktx.Run(ctx, &cli)
}
