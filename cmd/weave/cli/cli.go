// Package cli implements weave's command-line render tool: a one-shot
// (or, via the watch command, re-rendering) template renderer built on kong, colorizing diagnostics
// with lipgloss and supporting optional pkg/profile profiling.
package cli

import (
	"context"

	"github.com/alecthomas/kong"
)

// CLI is the top-level command set.
type CLI struct {
	Log     logConfig     `embed:"" group:"log"     prefix:"log-"`
	Profile profileConfig `embed:"" group:"profile" prefix:"profile-"`

	Render   renderCmd   `cmd:"" default:"withargs" help:"Render a template to stdout or a file."`
	Validate validateCmd `cmd:""                    help:"Parse templates without rendering."`
	Watch    watchCmd    `cmd:""                    help:"Re-render a template whenever its directory changes."`
}

// Run parses args and executes the selected subcommand.
func Run(ctx context.Context, exit func(code int), args ...string) error {
	var cli CLI

	parser, err := kong.New(&cli,
		kong.Name("weave"),
		kong.Description("Render inja-compatible templates."),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups([]kong.Group{cli.Log.group(), cli.Profile.group()}),
		kong.BindSingletonProvider(func() context.Context { return ctx }),
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cli.Log.start()
	stop := cli.Profile.start()
	defer stop()

	return ktx.Run(ctx)
}
