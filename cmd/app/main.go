package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/guru-sync/internal"
	pkgconfig "github.com/starford/guru-sync/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Flags only switch features on; the config file decides otherwise.
	if cmd.Bool("only-verified") {
		cfg.Sync.OnlyVerified = true
	}
	if cmd.Bool("download-attachments") {
		cfg.Sync.DownloadAttachments = true
	}
	if cmd.Bool("watch") {
		cfg.Sync.Watch = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func action(run func(context.Context, ...internal.Option) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := run(ctx, internal.WithConfig(cfg)); err != nil {
			return fmt.Errorf("app run error: %w", err)
		}
		return nil
	}
}

func main() {
	syncFlags := []cli.Flag{
		&cli.BoolFlag{
			Name:  "only-verified",
			Usage: "Skip unverified cards",
		},
		&cli.BoolFlag{
			Name:  "download-attachments",
			Usage: "Download images and files referenced by cards",
		},
		&cli.BoolFlag{
			Name:  "watch",
			Usage: "Re-sync whenever the export file changes",
		},
	}

	cmd := &cli.Command{
		Name:  "guru-sync",
		Usage: "Sync Guru cards into Markdown records with local attachments",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "sync",
				Usage:  "Fetch cards, convert them and write records",
				Flags:  syncFlags,
				Action: action(internal.Run),
			},
			{
				Name:   "serve",
				Usage:  "Serve synced cards and attachments over HTTP",
				Flags:  syncFlags,
				Action: action(internal.Serve),
			},
			{
				Name:   "mcp",
				Usage:  "Expose synced cards as MCP tools over stdio",
				Action: action(internal.ServeMCP),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
