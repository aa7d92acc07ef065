package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/larder/internal"
	"github.com/starford/larder/internal/index"
	"github.com/starford/larder/internal/mcpserver"
	"github.com/starford/larder/internal/models"
	"github.com/starford/larder/internal/navigate"
	"github.com/starford/larder/internal/storage"
	"github.com/starford/larder/internal/store"
	"github.com/starford/larder/internal/visibility"
	pkgconfig "github.com/starford/larder/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func stderrLogger(cfg *internal.Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runPropagate(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := stderrLogger(cfg)

	audience, err := models.ParseAudience(cmd.String("audience"))
	if err != nil {
		return err
	}

	reader := store.NewClient(cfg.Store.URL, cfg.Store.Project, cfg.Store.Dataset, os.Getenv(visibility.EnvAPIToken))
	chain := visibility.ChainFromEnv(func(token string) store.Writer {
		return store.NewClient(cfg.Store.URL, cfg.Store.Project, cfg.Store.Dataset, token)
	})

	p := visibility.NewPropagator(reader, chain, cfg.Store.Project, cfg.Store.Marker, logger)
	result, propErr := p.Propagate(ctx, visibility.Request{
		SeedIDs:  cmd.StringSlice("seed"),
		Audience: audience,
		Value:    cmd.Bool("value"),
	})

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
	return propErr
}

func runResolve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	labels := cmd.Args().Slice()
	if len(labels) == 0 {
		return fmt.Errorf("at least one label argument is required")
	}

	scope := store.Scope{All: cmd.Bool("all")}
	if !scope.All {
		audience, err := models.ParseAudience(cmd.String("audience"))
		if err != nil {
			return err
		}
		scope.Audience = audience
	}

	reader := store.NewClient(cfg.Store.URL, cfg.Store.Project, cfg.Store.Dataset, os.Getenv(visibility.EnvAPIToken))
	resolutions, err := navigate.NewResolver(reader).Resolve(ctx, labels, scope)
	if err != nil {
		return err
	}

	out, _ := json.MarshalIndent(resolutions, "", "  ")
	fmt.Println(string(out))
	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := stderrLogger(cfg)
	slog.SetDefault(logger)

	provider, err := storage.NewFS(cfg.Corpus.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	if err := index.Sync(db, provider, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	// The MCP process works against the local index directly, so visibility
	// writes go through a single local channel.
	resolver := navigate.NewResolver(db)
	chain := visibility.Chain{{Name: "local", Writer: db}}
	propagator := visibility.NewPropagator(db, chain, cfg.Store.Project, cfg.Store.Marker, logger)

	return mcpserver.New(db, resolver, propagator).ServeStdio()
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:  "larder",
		Usage: "Recipe corpus server with reference-graph visibility propagation",
		Flags: []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Index the recipe corpus and serve the content store API",
				Action: runServe,
			},
			{
				Name:  "propagate",
				Usage: "Propagate a visibility flag across recipes connected by references",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "seed",
						Usage:    "Seed recipe id (repeatable)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "audience",
						Usage:    "Audience to change: public or enterprise",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "value",
						Usage: "Target flag value",
						Value: true,
					},
				},
				Action: runPropagate,
			},
			{
				Name:      "resolve",
				Usage:     "Resolve reference labels to the recipes they point at",
				ArgsUsage: "LABEL [LABEL...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "audience",
						Usage: "Audience scope for the corpus read",
						Value: string(models.AudiencePublic),
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Resolve against the whole corpus regardless of audience",
					},
				},
				Action: runResolve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve Larder tools over the Model Context Protocol on stdio",
				Action: runMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
