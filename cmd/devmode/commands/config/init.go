package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/calamari-project/devmode/internal/config"
	"github.com/calamari-project/devmode/internal/salt"
)

//go:embed template.yaml
var configTemplate string

// InitCommand creates a new config file
var InitCommand = &cli.Command{
	Name:  "init",
	Usage: "Create a new configuration file",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "name",
			Aliases: []string{"n"},
			Usage:   "name for the config file (without .yaml extension)",
		},
		&cli.BoolFlag{
			Name:    "force",
			Aliases: []string{"f"},
			Usage:   "overwrite existing config file",
		},
		&cli.StringFlag{
			Name:  "file-root",
			Usage: "state tree root to record in the config",
		},
		&cli.StringFlag{
			Name:  "username",
			Usage: "pillar username to record in the config",
		},
	},
	Action: runInit,
}

func runInit(ctx context.Context, cmd *cli.Command) error {
	configDir, err := config.GetConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	name := cmd.String("name")
	if name == "" {
		name = strings.TrimSuffix(config.DefaultConfigName, ".yaml")
	}

	configPath := filepath.Join(configDir, name+".yaml")

	if _, err := os.Stat(configPath); err == nil && !cmd.Bool("force") {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", configPath)
	}

	fileRoot := cmd.String("file-root")
	if fileRoot == "" {
		fileRoot = salt.DefaultFileRoot
	}
	username := cmd.String("username")
	if username == "" {
		username = `""`
	}

	content := strings.ReplaceAll(configTemplate, "{{FILE_ROOT}}", fileRoot)
	content = strings.ReplaceAll(content, "{{USERNAME}}", username)

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("✓ Created config: %s\n", configPath)
	return nil
}
