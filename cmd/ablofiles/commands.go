package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/ablo-dev/ablofiles/internal/config"
	"github.com/ablo-dev/ablofiles/internal/session"
	"github.com/ablo-dev/ablofiles/internal/source"
	"github.com/ablo-dev/ablofiles/internal/ux"
)

func parseCmd() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Parse one complete assistant message and commit its files",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "Print commits without touching storage"},
			&cli.StringFlag{Name: "session", Usage: "Session id to commit into (default: fresh id)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			raw, err := readInput(cmd.Args().First())
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			logger, err := buildLogger(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			sess, closeStore, err := openSession(ctx, cmd, cfg, logger, cmd.Bool("dry-run"))
			if err != nil {
				return err
			}
			defer closeStore()

			src := source.NewText(uuid.NewString(), raw)
			msg, err := src.Next()
			if err != nil {
				return err
			}
			res := sess.Observe(ctx, msg.ID, msg.Text)

			fmt.Println(res.Display)
			for _, fs := range res.Commits {
				ux.Commit(fs.FilePath, fs.Version)
			}
			if cmd.Bool("dry-run") {
				return nil
			}
			if err := sess.Save(ctx); err != nil {
				ux.Warn("failed to save session: %v", err)
			}
			fmt.Printf("\n%ssession:%s %s\n", ux.Dim, ux.Reset, sess.ID())
			return nil
		},
	}
}

func replayCmd() *cli.Command {
	return &cli.Command{
		Name:      "replay",
		Usage:     "Stream a JSONL transcript of message observations",
		ArgsUsage: "<transcript.jsonl>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "session", Usage: "Session id to commit into (default: fresh id)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return fmt.Errorf("transcript argument is required")
			}
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			cfg, err := loadConfig(cmd)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			logger, err := buildLogger(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			sess, closeStore, err := openSession(ctx, cmd, cfg, logger, false)
			if err != nil {
				return err
			}
			defer closeStore()

			src := source.NewJSONL(f)
			var lastDisplay string
			for {
				msg, err := src.Next()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return err
				}
				if msg.Role != source.RoleAssistant {
					continue
				}

				res := sess.Observe(ctx, msg.ID, msg.Text)
				for _, fs := range res.Commits {
					ux.Commit(fs.FilePath, fs.Version)
				}
				if res.Block != nil && res.Block.IsComplete {
					ux.Settled(msg.ID, len(res.Commits))
					if err := sess.Save(ctx); err != nil {
						ux.Warn("failed to save session: %v", err)
					}
				}
				lastDisplay = res.Display
			}

			if lastDisplay != "" {
				fmt.Printf("\n%s\n", lastDisplay)
			}
			if err := sess.Save(ctx); err != nil {
				ux.Warn("failed to save session: %v", err)
			}
			fmt.Printf("\n%ssession:%s %s\n", ux.Dim, ux.Reset, sess.ID())
			return nil
		},
	}
}

func filesCmd() *cli.Command {
	return &cli.Command{
		Name:      "files",
		Usage:     "List the committed file table of a saved session",
		ArgsUsage: "<session-id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id := cmd.Args().First()
			if id == "" {
				return fmt.Errorf("session-id argument is required")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			logger, err := buildLogger(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			store, closeStore, err := buildStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			sess, err := session.Load(ctx, id, cfg.Tags, store, logger)
			if err != nil {
				return err
			}

			files := sess.Files()
			if len(files) == 0 {
				fmt.Printf("no committed files for session %s\n", id)
				return nil
			}
			fmt.Printf("\n%sFiles for session %s:%s\n\n", ux.Bold, id, ux.Reset)
			for _, fs := range files {
				ux.FileRow(fs.FilePath, fs.Version, fs.SourceMessageID)
			}
			fmt.Println()
			return nil
		},
	}
}

// openSession loads or creates the session named by --session. dryRun skips
// the storage backend entirely.
func openSession(ctx context.Context, cmd *cli.Command, cfg *config.Config, logger *zap.Logger, dryRun bool) (*session.Session, func() error, error) {
	noop := func() error { return nil }
	if dryRun {
		sess, err := session.New(cmd.String("session"), cfg.Tags, nil, logger)
		return sess, noop, err
	}
	store, closeStore, err := buildStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	id := cmd.String("session")
	if id == "" {
		sess, err := session.New("", cfg.Tags, store, logger)
		if err != nil {
			closeStore()
			return nil, nil, err
		}
		return sess, closeStore, nil
	}
	sess, err := session.Load(ctx, id, cfg.Tags, store, logger)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return sess, closeStore, nil
}

// readInput reads the message text from a file argument or stdin.
func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
