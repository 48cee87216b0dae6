package cli

import (
	"context"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/mson/cli/cmd"
	"github.com/ardnew/mson/pkg"
	"github.com/ardnew/mson/resource"
)

// CLI is the top-level command-line interface for mson.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Assets []string `default:"." help:"Asset root directories, searched before $MSON_PATH" short:"a" type:"path"`

	Export   cmd.Export   `cmd:"" default:"withargs" help:"Resolve a model and print its tree"`
	Mesh     cmd.Mesh     `cmd:""                    help:"Convert a model to render buffers"`
	Template cmd.Template `cmd:""                    help:"Paint the texture areas a model samples"`
	Locals   cmd.Locals   `cmd:""                    help:"Print the evaluated variables of a model file"`
	Query    cmd.Query    `cmd:""                    help:"Evaluate an expression over a resolved model"`
	Repl     cmd.Repl     `cmd:""                    help:"Inspect a resolved model interactively"`
	Init     cmd.Init     `cmd:""                    help:"Initialize configuration file"`
	Version  cmd.Version  `cmd:""                    help:"Print version"`
}

// Run executes the mson CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(ctx context.Context, exit func(code int), args ...string) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath + ".yaml",
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logger flags take effect before parsing wherever they appear.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups([]kong.Group{cli.Log.group(), cli.Pprof.group()}),
		kong.BindSingletonProvider(func() context.Context { return ctx }),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			Summary:             true,
			Tree:                true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(baseConfig), configFilePath+".yaml"),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithAssets(ctx, resource.SearchPath(os.Getenv(resource.EnvPath), cli.Assets...))

	cli.Log.start(ctx)

	// No-op unless built with tag pprof and a mode is set.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
