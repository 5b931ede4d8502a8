// Package cli implements the tc-cache command-line interface: the
// global -d/-v flags and the pull/push subcommands, built on
// alecthomas/kingpin the way kopia's cli.App wires its own command
// tree.
package cli

import (
	"context"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/tc-cache/tc-cache/config"
)

// commandParent is implemented by kingpin.Application and by command
// clauses that can have sub-commands.
type commandParent interface {
	Command(name, help string) *kingpin.CmdClause
}

// App holds the global flags and the parsed subcommand tree.
type App struct {
	homeDir string
	verbose bool

	app  *kingpin.Application
	pull commandPull
	push commandPush
}

// New builds an App with its subcommands attached, ready to Run.
func New() *App {
	a := &App{
		app: kingpin.New("tc-cache", "CI build-cache snapshot engine."),
	}

	a.app.Flag("home", "tc-cache working directory").Short('d').StringVar(&a.homeDir)
	a.app.Flag("verbose", "Enable verbose (debug) logging").Short('v').BoolVar(&a.verbose)

	a.pull.setup(a, a.app)
	a.push.setup(a, a.app)

	return a
}

func (a *App) logger() (*zap.SugaredLogger, error) {
	var (
		l   *zap.Logger
		err error
	)

	if a.verbose {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}

	if err != nil {
		return nil, err
	}

	return l.Sugar(), nil
}

func (a *App) config() (*config.Config, error) {
	return config.New(a.homeDir)
}

// Run parses args (excluding the program name) and executes the
// selected subcommand.
func (a *App) Run(args []string) error {
	cmd, err := a.app.Parse(args)
	if err != nil {
		return err
	}

	ctx := context.Background()

	switch cmd {
	case a.pull.cmd.FullCommand():
		return a.pull.run(ctx, a)
	case a.push.cmd.FullCommand():
		return a.push.run(ctx, a)
	default:
		return nil
	}
}
