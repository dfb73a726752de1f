package states

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/calamari-project/devmode/internal/config"
	"github.com/calamari-project/devmode/internal/states"
)

// ListCommand lists the states available under the file root
var ListCommand = &cli.Command{
	Name:  "list",
	Usage: "List states available under the file root",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "file-root",
			Usage: "state tree root (overrides config)",
		},
	},
	Action: runList,
}

func runList(ctx context.Context, cmd *cli.Command) error {
	root, err := fileRoot(cmd)
	if err != nil {
		return err
	}

	found, err := states.List(root)
	if err != nil {
		return err
	}

	if len(found) == 0 {
		fmt.Printf("No states found under %s\n", root)
		return nil
	}

	fmt.Printf("States under %s:\n", root)
	for _, s := range found {
		marker := ""
		if s.Top {
			marker = " (top file)"
		}
		fmt.Printf("  %-30s %s%s\n", s.Name, s.Path, marker)
	}

	return nil
}

// fileRoot resolves the state tree root from the flag or the config
func fileRoot(cmd *cli.Command) (string, error) {
	if root := cmd.String("file-root"); root != "" {
		return root, nil
	}

	cfg, _, err := config.LoadOrDefault(cmd.String("config"))
	if err != nil {
		return "", err
	}
	return cfg.Salt.FileRoot, nil
}
