package cli

import (
	"context"

	"github.com/alecthomas/kingpin/v2"

	"github.com/tc-cache/tc-cache/orchestrator"
)

// commandPush implements "tc-cache push": no flags, just the global
// -d/-v. It re-walks the registered roots and rebuilds/uploads the
// archive when something changed.
type commandPush struct {
	cmd *kingpin.CmdClause
}

func (c *commandPush) setup(app *App, parent commandParent) {
	c.cmd = parent.Command("push", "Walk the cached directories and publish the archive if it changed.")
}

func (c *commandPush) run(ctx context.Context, app *App) error {
	cfg, err := app.config()
	if err != nil {
		return err
	}

	log, err := app.logger()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	return orchestrator.Push(ctx, cfg, log)
}
