package states

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/calamari-project/devmode/internal/states"
)

// ShowCommand prints the file backing a state
var ShowCommand = &cli.Command{
	Name:      "show",
	Usage:     "Show the file backing a state",
	ArgsUsage: "<state>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "file-root",
			Usage: "state tree root (overrides config)",
		},
	},
	Action: runShow,
}

func runShow(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one state name")
	}
	name := cmd.Args().First()

	root, err := fileRoot(cmd)
	if err != nil {
		return err
	}

	path, err := states.Resolve(root, name)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read state file %s: %w", path, err)
	}

	fmt.Printf("State: %s\n", name)
	fmt.Printf("File: %s\n", path)
	fmt.Println("---")
	fmt.Print(string(content))

	return nil
}
