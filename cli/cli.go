package cli

import (
	"context"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/dash/cli/cmd"
	"github.com/ardnew/dash/pkg"
)

// baseConfig is the file name of the configuration file, without extension.
const baseConfig = "config"

// CLI is the top-level command-line interface for dash.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Path    []string         `help:"Directories searched for script names, before those in ${pathEnv}" placeholder:"DIR" short:"I" type:"path"`
	Version kong.VersionFlag `help:"Print version and exit"                                                             short:"V"`

	Run   cmd.Run   `cmd:"" default:"withargs" help:"Run a script"`
	Check cmd.Check `cmd:""                    help:"Parse a script without running it"`
	Fmt   cmd.Fmt   `cmd:""                    help:"Format a script or dump its syntax tree"`
	Repl  cmd.Repl  `cmd:""                    help:"Start an interactive session"`
	Init  cmd.Init  `cmd:""                    help:"Write a configuration file from the current flags"`
}

// Run executes the dash CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
//
// Commands read and write the streams stored in ctx with [cmd.WithStdio], or
// the process streams if there are none.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := pkg.MkdirAll()
	if err != nil {
		return err
	}

	configFilePath := pkg.ConfigPath(baseConfig + ".yaml")
	pathEnv := pkg.Env("path")

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"version":            pkg.Name + " " + pkg.Version,
		"pathEnv":            "$" + pathEnv,
	}.
		CloneWith(cmd.Vars()).
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. The TextUnmarshaler on logFormat/logLevel handles those
	// flags during normal parsing, but this early scan also catches boolean
	// flags like --log-pretty.
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
		kong.Configuration(kong.JSON, pkg.ConfigPath(baseConfig+".json")),
		kong.Configuration(resolve(ctx, cmd.ConfigIdentifier), configFilePath),
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
	ctx = cmd.WithSearchPath(ctx, cmd.SearchPath(cli.Path, os.Getenv(pathEnv)))

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
