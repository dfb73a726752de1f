package config

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/calamari-project/devmode/internal/config"
)

// ValidateCommand validates a configuration file
var ValidateCommand = &cli.Command{
	Name:      "validate",
	Usage:     "Validate configuration file syntax and structure",
	ArgsUsage: "[config-file]",
	Action:    runValidate,
}

func runValidate(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if cmd.Args().Len() > 0 {
		configPath = cmd.Args().First()
	}

	if configPath == "" {
		path, err := config.FindConfig("")
		if err != nil {
			return fmt.Errorf("no config file specified and no default found: %w", err)
		}
		configPath = path
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Printf("✓ Configuration is valid: %s\n", configPath)
	fmt.Printf("  Salt binary: %s\n", cfg.Salt.Binary)
	fmt.Printf("  File root: %s\n", cfg.Salt.FileRoot)
	if cfg.Remote != nil {
		fmt.Printf("  Remote: %s:%d\n", cfg.Remote.Host, cfg.Remote.Port)
	}

	return nil
}
