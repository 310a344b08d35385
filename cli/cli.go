package cli

import (
	"context"
	"errors"

	"github.com/alecthomas/kong"

	"github.com/ardnew/lotr/cli/cmd"
	"github.com/ardnew/lotr/pkg"
)

// CLI is the top-level command-line interface for lotr.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Path    []string         `help:"Prepend directory to the script search path" placeholder:"DIR" short:"P" type:"path"`
	Version kong.VersionFlag `help:"Print version and exit"`

	Run   cmd.Run   `cmd:"" default:"withargs" help:"Run a script over the input lines"`
	Check cmd.Check `cmd:""                    help:"Check scripts and print them normalized"`
	Ops   cmd.Ops   `cmd:""                    help:"List operations"`
	Repl  cmd.Repl  `cmd:""                    help:"Edit lines interactively"`
	Init  cmd.Init  `cmd:""                    help:"Initialize configuration file"`
}

// Run executes the lotr CLI with the given context and arguments.
//
// A command that completes with a script status other than success (see
// [cmd.ExitStatus]) is not an error; exit is called with that status after
// the logger and profiler have been shut down.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	err := run(ctx, exit, args...)

	var status cmd.ExitStatus
	if errors.As(err, &status) {
		exit(int(status))

		return nil
	}

	return err
}

func run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	vars := kong.Vars{
		"version":            pkg.Version,
		cmd.ConfigIdentifier: configPath(baseConfig + ".yaml"),
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position.
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
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(resolve(ctx), configPath(baseConfig+".yaml")),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithScriptPath(ctx, scriptDirs(cli.Path...))

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
