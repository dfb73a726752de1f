package config

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/calamari-project/devmode/internal/config"
)

// ListCommand lists available configuration files
var ListCommand = &cli.Command{
	Name:   "list",
	Usage:  "List available configuration files",
	Action: runList,
}

func runList(ctx context.Context, cmd *cli.Command) error {
	configs, err := config.ListConfigs()
	if err != nil {
		return err
	}

	configDir, err := config.GetConfigDir()
	if err != nil {
		return err
	}

	if len(configs) == 0 {
		fmt.Printf("No config files found in %s\n", configDir)
		return nil
	}

	fmt.Printf("Config files in %s:\n", configDir)
	for _, name := range configs {
		marker := ""
		if name == config.DefaultConfigName {
			marker = " (default)"
		}
		fmt.Printf("  %s%s\n", name, marker)
	}

	return nil
}
