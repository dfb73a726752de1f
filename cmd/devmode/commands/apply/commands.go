package apply

import (
	"context"
	"fmt"
	"os/user"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/calamari-project/devmode/internal/config"
	"github.com/calamari-project/devmode/internal/exec"
	"github.com/calamari-project/devmode/internal/pillar"
	"github.com/calamari-project/devmode/internal/salt"
	"github.com/calamari-project/devmode/internal/secrets"
	"github.com/calamari-project/devmode/internal/ssh"
)

// Command applies configuration states to the dev environment
var Command = &cli.Command{
	Name:      "apply",
	Usage:     "Apply configuration states with a pillar payload",
	ArgsUsage: "<state>[,<state>...]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "file-root",
			Usage: "state tree root passed to the Salt client (relative paths resolve against the working directory)",
		},
		&cli.StringFlag{
			Name:    "username",
			Aliases: []string{"u"},
			Usage:   "username placed in the pillar payload (defaults to the invoking user)",
		},
		&cli.StringSliceFlag{
			Name:    "pillar",
			Aliases: []string{"p"},
			Usage:   "extra pillar entry as key=value (can be specified multiple times)",
		},
		&cli.StringFlag{
			Name:  "pillar-file",
			Usage: "YAML file merged into the pillar payload",
		},
		&cli.StringSliceFlag{
			Name:  "secret",
			Usage: "keyring secret injected as a pillar entry (can be specified multiple times)",
		},
		&cli.BoolFlag{
			Name:  "no-sudo",
			Usage: "run the Salt client without elevation",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "print the command line without executing it",
		},
		&cli.BoolFlag{
			Name:  "test",
			Usage: "pass test=True so states render without applying changes",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "abort the run after this duration (default: no limit)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "log level passed to the Salt client",
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "run on a remote host instead, as user@host[:port]",
		},
		&cli.StringFlag{
			Name:  "key",
			Usage: "private key file for --host (default: ~/.ssh/id_ed25519, id_rsa)",
		},
	},
	Action: runApply,
}

func runApply(ctx context.Context, cmd *cli.Command) error {
	// The state argument is required; the original wrapper passed an
	// empty target through to the Salt client, but an explicit error
	// before spawning anything is strictly more useful
	if cmd.Args().Len() == 0 || cmd.Args().First() == "" {
		return fmt.Errorf("no state given; usage: devmode apply <state>[,<state>...]")
	}
	if cmd.Args().Len() > 1 {
		return fmt.Errorf("expected one state argument; separate multiple states with commas")
	}
	states := cmd.Args().First()

	cfg, _, err := config.LoadOrDefault(cmd.String("config"))
	if err != nil {
		return err
	}

	payload, err := buildPayload(cmd, cfg)
	if err != nil {
		return err
	}

	call := buildCall(cmd, cfg)

	if cmd.Bool("dry-run") {
		serialized, err := payload.Serialize()
		if err != nil {
			return err
		}
		fmt.Println(call.CommandLine(states, serialized))
		return nil
	}

	runner, cleanup, err := buildRunner(cmd, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	exitCode, err := call.Apply(ctx, runner, states, payload)
	if err != nil {
		return err
	}
	if exitCode != 0 {
		// Propagate the Salt client's status verbatim
		return &salt.ExitError{Code: exitCode}
	}

	return nil
}

// buildPayload assembles the pillar payload. The username key is always
// present; further sources are merged in order: config values, pillar
// file, --pillar flags, secrets.
func buildPayload(cmd *cli.Command, cfg *config.Config) (pillar.Payload, error) {
	username := cmd.String("username")
	if username == "" {
		username = cfg.Pillar.Username
	}
	if username == "" {
		current, err := user.Current()
		if err != nil {
			return nil, fmt.Errorf("failed to determine invoking user: %w", err)
		}
		username = current.Username
	}

	payload, err := pillar.New(username)
	if err != nil {
		return nil, err
	}

	payload.Merge(cfg.Pillar.Values)

	if path := cmd.String("pillar-file"); path != "" {
		if err := payload.MergeYAMLFile(path); err != nil {
			return nil, err
		}
	}

	for _, arg := range cmd.StringSlice("pillar") {
		key, value, err := pillar.ParseKV(arg)
		if err != nil {
			return nil, err
		}
		if err := payload.Set(key, value); err != nil {
			return nil, err
		}
	}

	names := append(append([]string{}, cfg.Pillar.Secrets...), cmd.StringSlice("secret")...)
	if len(names) > 0 {
		values, err := secrets.Resolve(names)
		if err != nil {
			return nil, err
		}
		payload.Merge(values)
	}

	return payload, nil
}

// buildCall translates flags and config into one Salt invocation
func buildCall(cmd *cli.Command, cfg *config.Config) *salt.Call {
	call := &salt.Call{
		Binary:   cfg.Salt.Binary,
		FileRoot: cfg.Salt.FileRoot,
		LogLevel: cfg.Salt.LogLevel,
		Sudo:     cfg.Salt.SudoEnabled(),
		Test:     cmd.Bool("test"),
		Timeout:  time.Duration(cfg.Salt.Timeout),
	}

	if root := cmd.String("file-root"); root != "" {
		call.FileRoot = root
	}
	if level := cmd.String("log-level"); level != "" {
		call.LogLevel = level
	}
	if cmd.Bool("no-sudo") {
		call.Sudo = false
	}
	if timeout := cmd.Duration("timeout"); timeout > 0 {
		call.Timeout = timeout
	}

	return call
}

// buildRunner picks local or remote execution. The cleanup func closes
// the SSH connection when one was opened.
func buildRunner(cmd *cli.Command, cfg *config.Config) (salt.Runner, func(), error) {
	target := cmd.String("host")
	if target == "" && cfg.Remote == nil {
		return exec.NewLocal(), func() {}, nil
	}

	opts, err := remoteOptions(cmd, cfg, target)
	if err != nil {
		return nil, nil, err
	}

	conn, err := ssh.Connect(opts)
	if err != nil {
		return nil, nil, err
	}

	return conn, func() { conn.Close() }, nil
}

func remoteOptions(cmd *cli.Command, cfg *config.Config, target string) (*ssh.ConnectionOptions, error) {
	opts := &ssh.ConnectionOptions{Port: 22}
	keyFile := cmd.String("key")

	if target != "" {
		userName, host, port, err := ssh.ParseTarget(target)
		if err != nil {
			return nil, err
		}
		opts.User = userName
		opts.Host = host
		opts.Port = port
	} else {
		opts.Host = cfg.Remote.Host
		if cfg.Remote.Port != 0 {
			opts.Port = cfg.Remote.Port
		}
		opts.User = cfg.Remote.User
		if keyFile == "" {
			keyFile = cfg.Remote.KeyFile
		}
	}

	if opts.User == "" {
		current, err := user.Current()
		if err != nil {
			return nil, fmt.Errorf("failed to determine invoking user: %w", err)
		}
		opts.User = current.Username
	}

	if keyFile != "" {
		auth, err := ssh.KeyFileAuth(keyFile)
		if err != nil {
			return nil, err
		}
		opts.AuthMethod = auth
	} else {
		auth, err := ssh.DefaultKeyAuth()
		if err != nil {
			return nil, err
		}
		opts.AuthMethod = auth
	}

	return opts, nil
}
