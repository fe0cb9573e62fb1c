package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ablo-dev/ablofiles/internal/config"
	"github.com/ablo-dev/ablofiles/internal/docs"
	"github.com/ablo-dev/ablofiles/internal/scaffold"
	"github.com/ablo-dev/ablofiles/internal/storage"
	"github.com/ablo-dev/ablofiles/internal/ux"
)

func main() {
	app := &cli.Command{
		Name:        "ablofiles",
		Usage:       "Materialize AI chat directives into versioned files",
		Description: "Run 'ablofiles docs' for documentation on the directive markup, streaming behavior, and config syntax.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Usage: "Enable debug logging"},
			&cli.StringFlag{Name: "config", Usage: "Path to config.yaml (default: search upward for .ablofiles/config.yaml)"},
		},
		Commands: []*cli.Command{
			initCmd(),
			parseCmd(),
			replayCmd(),
			filesCmd(),
			docsCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%serror:%s %v\n", ux.Red, ux.Reset, err)
		os.Exit(1)
	}
}

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize a .ablofiles/ directory with example config",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			return scaffold.Init(dir)
		},
	}
}

func docsCmd() *cli.Command {
	return &cli.Command{
		Name:      "docs",
		Usage:     "Show documentation",
		ArgsUsage: "[topic]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				fmt.Print("\nAvailable topics:\n\n")
				for _, t := range docs.All() {
					fmt.Printf("  %-12s %s\n", t.Name, t.Summary)
				}
				fmt.Println("\nRun 'ablofiles docs <topic>' to read a topic.")
				return nil
			}
			t, err := docs.Get(name)
			if err != nil {
				return err
			}
			fmt.Print(t.Content)
			return nil
		},
	}
}

// loadConfig finds and loads config.yaml, falling back to defaults when no
// .ablofiles directory exists anywhere up the tree.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	if path := cmd.String("config"); path != "" {
		return config.Load(path)
	}
	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	for {
		configPath := filepath.Join(dir, ".ablofiles", "config.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return config.Load(configPath)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return config.Default(), nil
		}
		dir = parent
	}
}

// buildStore constructs the configured storage backend. The returned close
// function is a no-op for the fs backend.
func buildStore(cfg *config.Config) (storage.Store, func() error, error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		store, err := storage.OpenSQLite(cfg.Storage.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		store, err := storage.NewFSStore(cfg.Storage.Root)
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { return nil }, nil
	}
}

func buildLogger(cmd *cli.Command) (*zap.Logger, error) {
	logCfg := zap.NewProductionConfig()
	if cmd.Bool("verbose") {
		logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return logCfg.Build()
}
