package secret

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/calamari-project/devmode/internal/secrets"
)

// Command manages secret pillar values
var Command = &cli.Command{
	Name:  "secret",
	Usage: "Manage secret pillar values in the OS keyring",
	Commands: []*cli.Command{
		{
			Name:      "set",
			Usage:     "Store a secret (value read from stdin when omitted)",
			ArgsUsage: "<name> [value]",
			Action:    runSet,
		},
		{
			Name:      "get",
			Usage:     "Print a secret value",
			ArgsUsage: "<name>",
			Action:    runGet,
		},
		{
			Name:      "delete",
			Usage:     "Remove a secret",
			ArgsUsage: "<name>",
			Action:    runDelete,
		},
		{
			Name:   "list",
			Usage:  "List stored secret names",
			Action: runList,
		},
	},
}

func runSet(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 1 {
		return fmt.Errorf("expected a secret name")
	}
	name := cmd.Args().First()

	var value string
	if cmd.Args().Len() > 1 {
		value = cmd.Args().Get(1)
	} else {
		fmt.Fprintf(os.Stderr, "Value for %s: ", name)
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read value: %w", err)
		}
		value = strings.TrimRight(line, "\r\n")
	}

	if err := secrets.Store(name, value); err != nil {
		return err
	}

	fmt.Printf("✓ Stored secret: %s\n", name)
	return nil
}

func runGet(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one secret name")
	}

	value, err := secrets.Load(cmd.Args().First())
	if err != nil {
		return err
	}

	fmt.Println(value)
	return nil
}

func runDelete(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one secret name")
	}
	name := cmd.Args().First()

	if err := secrets.Delete(name); err != nil {
		return err
	}

	fmt.Printf("✓ Deleted secret: %s\n", name)
	return nil
}

func runList(ctx context.Context, cmd *cli.Command) error {
	names, err := secrets.List()
	if err != nil {
		return err
	}

	if len(names) == 0 {
		fmt.Println("No secrets stored")
		return nil
	}

	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}
