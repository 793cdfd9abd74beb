package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal"
	"github.com/starford/ansuz/internal/corpus"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/mcpserver"
	"github.com/starford/ansuz/internal/storage"
	pkgconfig "github.com/starford/ansuz/pkg/config"
)

func main() {
	cmd := &cli.Command{
		Name:           "ansuz",
		Usage:          "Documentation corpus integrity checker with search, backlinks, and a live API",
		DefaultCommand: "validate",
		Commands: []*cli.Command{
			validateCommand(),
			indexCommand(),
			searchCommand(),
			backlinksCommand(),
			serveCommand(),
			mcpCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		if exitErr, ok := err.(cli.ExitCoder); ok && exitErr.Error() == "" {
			os.Exit(exitErr.ExitCode())
		}
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// validateCommand checks the corpus and prints the plain-text report.
// Exit code 0 means clean (or warnings only with --allow-warnings),
// 1 means findings, 2 means the corpus could not be read.
func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check corpus integrity and print a report",
		ArgsUsage: "[corpus root]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "hub",
				Usage: "Entry document exempt from the orphan check",
				Value: corpus.DefaultHub,
			},
			&cli.BoolFlag{
				Name:  "allow-warnings",
				Usage: "Report orphans and parse warnings without failing",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			root := cmd.Args().First()
			if root == "" {
				root = "."
			}

			store, err := storage.NewFS(root)
			if err != nil {
				return cli.Exit(fmt.Sprintf("ansuz: %v", err), 2)
			}

			rep, err := corpus.Run(ctx, store, corpus.Options{Hub: cmd.String("hub")})
			if err != nil {
				return cli.Exit(fmt.Sprintf("ansuz: %v", err), 2)
			}

			if err := rep.WriteText(os.Stdout); err != nil {
				return err
			}
			if rep.Failed(cmd.Bool("allow-warnings")) {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

// indexCommand builds or refreshes the SQLite index from the corpus.
func indexCommand() *cli.Command {
	return &cli.Command{
		Name:  "index",
		Usage: "Build or refresh the SQLite index for the corpus",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Usage: "Corpus root directory", Value: "."},
			&cli.StringFlag{Name: "db", Usage: "SQLite database path", Value: "./ansuz.db"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			store, err := storage.NewFS(cmd.String("root"))
			if err != nil {
				return err
			}
			db, err := index.Open(cmd.String("db"))
			if err != nil {
				return err
			}
			defer db.Close()

			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			return index.Sync(db, store, logger)
		},
	}
}

// searchCommand queries the index.
func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Full-text search across indexed documents",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Usage: "SQLite database path", Value: "./ansuz.db"},
			&cli.IntFlag{Name: "limit", Usage: "Max results", Value: 20},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			query := cmd.Args().First()
			if query == "" {
				return fmt.Errorf("search: query argument is required")
			}
			db, err := index.Open(cmd.String("db"))
			if err != nil {
				return err
			}
			defer db.Close()

			results, err := db.Search(query, int(cmd.Int("limit")))
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Printf("%s\t%s\n", r.Path, r.Title)
			}
			return nil
		},
	}
}

// backlinksCommand lists documents linking to a path.
func backlinksCommand() *cli.Command {
	return &cli.Command{
		Name:      "backlinks",
		Usage:     "List documents that link to the given path",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Usage: "SQLite database path", Value: "./ansuz.db"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			target := cmd.Args().First()
			if target == "" {
				return fmt.Errorf("backlinks: path argument is required")
			}
			db, err := index.Open(cmd.String("db"))
			if err != nil {
				return err
			}
			defer db.Close()

			bl, err := db.Backlinks(target)
			if err != nil {
				return err
			}
			for _, p := range bl {
				fmt.Println(p)
			}
			return nil
		},
	}
}

// serveCommand runs the HTTP API with live reindexing and SSE.
func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API with live reindexing and SSE updates",
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
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := internal.NewDefaultConfig()
			if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
				return fmt.Errorf("failed to parse config: %w", err)
			}
			if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
				return fmt.Errorf("app run error: %w", err)
			}
			return nil
		},
	}
}

// mcpCommand runs the MCP server on stdio.
func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run the MCP server on stdio for LLM integration",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Usage: "Corpus root directory", Value: "."},
			&cli.StringFlag{Name: "db", Usage: "SQLite database path", Value: "./ansuz.db"},
			&cli.StringFlag{Name: "hub", Usage: "Entry document exempt from the orphan check", Value: corpus.DefaultHub},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			store, err := storage.NewFS(cmd.String("root"))
			if err != nil {
				return err
			}
			db, err := index.Open(cmd.String("db"))
			if err != nil {
				return err
			}
			defer db.Close()

			// Keep stdout clean for the MCP protocol.
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			if err := index.Sync(db, store, logger); err != nil {
				return err
			}

			return mcpserver.New(store, db, cmd.String("hub")).ServeStdio()
		},
	}
}
