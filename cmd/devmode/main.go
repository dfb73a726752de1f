package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	applycmd "github.com/calamari-project/devmode/cmd/devmode/commands/apply"
	configcmd "github.com/calamari-project/devmode/cmd/devmode/commands/config"
	secretcmd "github.com/calamari-project/devmode/cmd/devmode/commands/secret"
	statescmd "github.com/calamari-project/devmode/cmd/devmode/commands/states"
	statuscmd "github.com/calamari-project/devmode/cmd/devmode/commands/status"
	"github.com/calamari-project/devmode/internal/salt"
	"github.com/urfave/cli/v3"
)

var (
	// Version information (will be set by build flags)
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	cmd := &cli.Command{
		Name:    "devmode",
		Usage:   "Apply Salt states to a local development environment",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
				Sources: cli.EnvVars("DEVMODE_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			applycmd.Command,
			configcmd.Command,
			secretcmd.Command,
			statescmd.Command,
			statuscmd.Command,
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		// A non-zero status from the Salt client passes through
		// verbatim, with no output beyond what the client already
		// produced
		var exitErr *salt.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
