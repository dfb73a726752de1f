package status

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/calamari-project/devmode/internal/config"
	"github.com/calamari-project/devmode/internal/exec"
	"github.com/calamari-project/devmode/internal/salt"
	"github.com/calamari-project/devmode/internal/states"
	"github.com/calamari-project/devmode/internal/sudo"
)

// Command reports whether an apply could succeed on this machine
var Command = &cli.Command{
	Name:   "status",
	Usage:  "Check the environment an apply would run in",
	Action: runStatus,
}

func runStatus(ctx context.Context, cmd *cli.Command) error {
	cfg, source, err := config.LoadOrDefault(cmd.String("config"))
	if err != nil {
		return err
	}

	if source == "" {
		fmt.Println("Config: built-in defaults (no config file)")
	} else {
		fmt.Printf("Config: %s\n", source)
	}

	runner := exec.NewLocal()

	call := &salt.Call{Binary: cfg.Salt.Binary, FileRoot: cfg.Salt.FileRoot}
	if version, err := call.Available(ctx, runner); err != nil {
		fmt.Printf("✗ Salt client: %v\n", err)
	} else {
		fmt.Printf("✓ Salt client: %s\n", version)
	}

	if cfg.Salt.SudoEnabled() {
		sudoStatus, err := sudo.GetStatus(ctx, runner)
		if err != nil {
			fmt.Printf("✗ Sudo: %v\n", err)
		} else if sudoStatus == sudo.Passwordless || sudoStatus == sudo.RequiresPassword {
			fmt.Printf("✓ Sudo: %s\n", sudoStatus)
		} else {
			fmt.Printf("✗ Sudo: %s\n", sudoStatus)
		}
	} else {
		fmt.Println("  Sudo: disabled in config")
	}

	if found, err := states.List(cfg.Salt.FileRoot); err != nil {
		fmt.Printf("✗ File root: %v\n", err)
	} else {
		fmt.Printf("✓ File root: %s (%d states)\n", cfg.Salt.FileRoot, len(found))
	}

	if cfg.Remote != nil {
		fmt.Printf("  Remote target: %s@%s:%d\n", cfg.Remote.User, cfg.Remote.Host, cfg.Remote.Port)
	}

	return nil
}
