package main

import (
	"strings"

	"github.com/alecthomas/kong"

	"github.com/lox/revolver/internal/policy"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" help:"Play one game between local policies"`
	Simulate SimulateCmd      `cmd:"" help:"Play many games in parallel and report statistics"`
	Server   ServerCmd        `cmd:"" help:"Run the bot server"`
	Bot      BotCmd           `cmd:"" help:"Connect a built-in policy to a server"`
	TUI      TUICmd           `cmd:"" name:"tui" help:"Play a seat yourself against bots"`
	Replay   ReplayCmd        `cmd:"" help:"Check a saved game against the rules"`
}

func options() []kong.Option {
	return []kong.Option{
		kong.Name("revolver"),
		kong.Description("Russian roulette for humans and bots"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":  version,
			"policies": strings.Join(policy.Names(), ", "),
		},
	}
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli, options()...)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
