package config

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/calamari-project/devmode/internal/config"
)

// ShowCommand displays the resolved configuration
var ShowCommand = &cli.Command{
	Name:      "show",
	Usage:     "Display the resolved configuration",
	ArgsUsage: "[config-file]",
	Action:    runShow,
}

func runShow(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if cmd.Args().Len() > 0 {
		configPath = cmd.Args().First()
	}

	cfg, source, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}

	// Secret names are config, not secrets; values never appear here
	// because the config only carries keyring entry names
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if source == "" {
		fmt.Println("Configuration: built-in defaults (no config file)")
	} else {
		fmt.Printf("Configuration: %s\n", source)
	}
	fmt.Println("---")
	fmt.Print(string(data))

	return nil
}
