package cli

import (
	"context"

	"github.com/alecthomas/kingpin/v2"

	"github.com/tc-cache/tc-cache/orchestrator"
)

// commandPull implements "tc-cache pull": download the archive (best
// effort), register the requested cache roots, and restore the entry
// manifest the next push will diff against.
type commandPull struct {
	cmd *kingpin.CmdClause

	keyPrefix  string
	key        string
	buildProps string
	dirs       []string
}

func (c *commandPull) setup(app *App, parent commandParent) {
	c.cmd = parent.Command("pull", "Download the cache and populate the requested directories.")

	c.cmd.Flag("prefix", "Override the remote key prefix").Short('p').StringVar(&c.keyPrefix)
	c.cmd.Flag("key", "Override the snapshot object key").Short('k').StringVar(&c.key)
	c.cmd.Flag("build-props", "Path to a TeamCity build-properties file").Envar("TEAMCITY_BUILD_PROPERTIES_FILE").StringVar(&c.buildProps)
	c.cmd.Arg("dir", "Directories to populate from the cache").Required().StringsVar(&c.dirs)
}

func (c *commandPull) run(ctx context.Context, app *App) error {
	cfg, err := app.config()
	if err != nil {
		return err
	}

	log, err := app.logger()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	return orchestrator.Pull(ctx, cfg, c.buildProps, c.keyPrefix, c.key, c.dirs, log)
}
