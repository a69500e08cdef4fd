package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lox/undercover/internal/config"
)

// version is set by ldflags during build
var version = "dev"

// Globals are the flags shared by every command.
type Globals struct {
	Config string `kong:"default='${config_file}',env='UNDERCOVER_CONFIG',help='Path to HCL config file'"`
	Debug  bool   `kong:"help='Enable debug logging'"`

	Stdout io.Writer `kong:"-"`
}

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Play    PlayCmd          `cmd:"" default:"withargs" help:"Play a pass-and-play game in the terminal"`
	Roles   RolesCmd         `cmd:"" help:"Show how many of each role a table deals"`
	Words   WordsCmd         `cmd:"" help:"Inspect the word pool"`
	Session SessionCmd       `cmd:"" help:"Inspect or clear the saved game"`
}

func main() {
	cli := CLI{Globals: Globals{Stdout: os.Stdout}}
	ctx := kong.Parse(&cli,
		kong.Name("undercover"),
		kong.Description("The Undercover party game for one shared terminal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":     version,
			"config_file": config.DefaultFile,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
