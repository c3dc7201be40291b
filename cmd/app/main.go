package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/goldstar/internal"
	pkgconfig "github.com/starford/goldstar/pkg/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func options(cmd *cli.Command) ([]internal.Option, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadOrDefault(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return []internal.Option{
		internal.WithConfig(cfg),
		internal.WithVersion(version),
	}, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func mcp(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, opts...)
}

func importRoster(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("import: roster file argument is required")
	}
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	return internal.RunImport(ctx, path, opts...)
}

func list(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	return internal.RunList(ctx, cmd.String("sort"), cmd.String("order"), opts...)
}

func stats(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	return internal.RunStats(ctx, opts...)
}

func main() {
	cmd := &cli.Command{
		Name:    "goldstar",
		Usage:   "Gold-star recognition ledger with an HTTP API, live events and an MCP server",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (defaults apply when it does not exist)",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API (default)",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the ledger over MCP on stdio",
				Action: mcp,
			},
			{
				Name:      "import",
				Usage:     "Add the people listed in a Markdown roster",
				ArgsUsage: "<file>",
				Action:    importRoster,
			},
			{
				Name:   "list",
				Usage:  "Print people in sorted order",
				Action: list,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Sort key: name, stars, dateAdded or lastStarDate (default stars)",
					},
					&cli.StringFlag{
						Name:  "order",
						Usage: "Sort order: asc or desc (default desc)",
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Print the ledger summary as JSON",
				Action: stats,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
