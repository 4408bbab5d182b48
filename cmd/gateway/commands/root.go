package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/opencodetools/opencode-gateway/internal/app"
	"github.com/opencodetools/opencode-gateway/internal/config"
	"github.com/opencodetools/opencode-gateway/internal/observability"
)

// Execute runs the root command with the given context and arguments.
func Execute(ctx context.Context, args []string, version, commit string) error {
	cmd := &cli.Command{
		Name:    "opencode-gateway",
		Usage:   "OpenAI-compatible gateway for the OpenCode server",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug|info|warn|error)",
				Value: slog.LevelInfo.String(),
			},
		},
		Commands: []*cli.Command{
			startCommand(),
		},
	}

	return cmd.Run(ctx, args)
}

func startCommand() *cli.Command {
	return &cli.Command{
		Name:  "start",
		Usage: "Starts the gateway",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "log format (text|json)",
				Value: "text",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a TOML config file",
			},
		},
		Action: startAction,
	}
}

func startAction(ctx context.Context, cmd *cli.Command) error {
	var level slog.Level
	err := level.UnmarshalText([]byte(cmd.String("log-level")))
	if err != nil {
		return err
	}

	// Set up observability before creating app
	err = observability.Instrument(level, cmd.String("log-format"))
	if err != nil {
		return fmt.Errorf("failed to set up observability layer: %w", err)
	}

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}

	slog.InfoContext(ctx, "starting")

	if err := application.Start(ctx); err != nil {
		return fmt.Errorf("app failed to start: %w", err)
	}

	slog.InfoContext(ctx, "stopped gracefully")
	return nil
}
