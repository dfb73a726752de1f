package states

import "github.com/urfave/cli/v3"

// Command is the top-level states command
var Command = &cli.Command{
	Name:  "states",
	Usage: "Inspect the configuration state tree",
	Commands: []*cli.Command{
		ListCommand,
		ShowCommand,
	},
}
