package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"

	"github.com/pescuma/cheeky/lib/config"
	"github.com/pescuma/cheeky/lib/consoles"
	"github.com/pescuma/cheeky/lib/logs"
	"github.com/pescuma/cheeky/lib/render"
	"github.com/pescuma/cheeky/lib/workspace"
)

type CLI struct {
	config.Config `embed:""`

	Compare  bool   `help:"Compare the current commit message to the generated one." xor:"mode"`
	Silent   bool   `help:"Do not show banners and output only the suggested message. Not compatible with --compare." xor:"mode"`
	Commit   string `help:"Specify a commit hash to process."`
	NoBreak  bool   `name:"nobreak" help:"When used with compare, CheekyAI won't exit with an error code if the comparison fails."`
	Diff     bool   `help:"Print the cleaned diff of each commit and stop."`
	Simulate bool   `hidden:"" help:"Use a local simulator instead of the model."`
}

func (c *CLI) Options() workspace.Options {
	return workspace.Options{
		Compare:  c.Compare,
		Silent:   c.Silent,
		Commit:   c.Commit,
		NoBreak:  c.NoBreak,
		ShowDiff: c.Diff,
		Simulate: c.Simulate,
	}
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("cheeky"),
		kong.Description("CheekyAI - Create / Validate commit messages."),
		kong.ShortUsageOnError(),
	}, options...)

	return kong.New(cli, options...)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	err := config.LoadDotEnv()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}

	kctx, err := parser.Parse(args)
	parser.FatalIfErrorf(err)

	err = cli.Validate()
	kctx.FatalIfErrorf(err)

	logger := logs.Setup(cli.LogLevel, cli.Verbose)
	console := consoles.NewStdOutConsole(cli.Silent)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	ws, err := workspace.NewWorkspace(&cli.Config, console, logger, cli.Simulate)
	if err != nil {
		return fail(console, err)
	}
	defer func() {
		if err := ws.Close(); err != nil {
			logger.Warn().Err(err).Msg("Error closing workspace")
		}
	}()

	err = ws.Run(ctx, cli.Options())
	switch {
	case err == nil:
		return 0
	case errors.Is(err, workspace.ErrCheckFailed):
		console.Print(render.Exiting(1))
		return 1
	default:
		return fail(console, err)
	}
}

func fail(console consoles.Console, err error) int {
	console.Print(render.Error(err))
	console.Print(render.Exiting(1))
	return 1
}
