package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/harnesskit/pkg/errors"
	"github.com/matzehuels/harnesskit/pkg/store"
	"github.com/matzehuels/harnesskit/pkg/store/mongo"
	"github.com/matzehuels/harnesskit/pkg/store/redis"
	"github.com/matzehuels/harnesskit/pkg/store/sqlite"
)

// Store backends.
const (
	backendFile   = "file"
	backendSQLite = "sqlite"
	backendRedis  = "redis"
	backendMongo  = "mongo"
)

// Default connection strings for the network backends.
const (
	defaultRedisURL = "redis://localhost:6379/0"
	defaultMongoURI = "mongodb://localhost:27017"
)

// openStore opens the configured backend, instrumented with the store hooks.
func openStore(ctx context.Context, cfg StoreConfig) (store.Store, error) {
	var (
		s   store.Store
		err error
	)
	switch cfg.Backend {
	case backendFile, "":
		s, err = store.NewFileStore(cfg.Dir)
	case backendSQLite:
		dsn := cfg.DSN
		if dsn == "" {
			dir, derr := configDir()
			if derr != nil {
				return nil, derr
			}
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("create config dir: %w", err)
			}
			dsn = filepath.Join(dir, "documents.db")
		}
		s, err = sqlite.Open(ctx, dsn)
	case backendRedis:
		url := cfg.DSN
		if url == "" {
			url = defaultRedisURL
		}
		rc, perr := redis.ParseURL(url)
		if perr != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, perr, "store dsn")
		}
		s, err = redis.Open(ctx, rc)
	case backendMongo:
		uri := cfg.DSN
		if uri == "" {
			uri = defaultMongoURI
		}
		s, err = mongo.Open(ctx, mongo.Config{URI: uri})
	default:
		return nil, errors.New(errors.ErrCodeUnsupported,
			"unknown store backend %q (want file, sqlite, redis or mongo)", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	backend := cfg.Backend
	if backend == "" {
		backend = backendFile
	}
	return store.Instrument(s, backend), nil
}

// storeCommand creates the store command with subcommands.
func (c *CLI) storeCommand() *cobra.Command {
	var override StoreConfig

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Save and fetch documents in a document store",
		Long: `Manage exported documents in a document store. The backend comes from the
[store] section of the config file and can be overridden with --backend
and --dsn:

  file     one JSON file per key (default ~/.config/harnesskit/documents)
  sqlite   a SQLite database file
  redis    a Redis server (redis://host:port/db)
  mongo    a MongoDB deployment (mongodb://host:port)`,
	}

	cmd.PersistentFlags().StringVar(&override.Backend, "backend", "", "store backend: file, sqlite, redis, mongo")
	cmd.PersistentFlags().StringVar(&override.DSN, "dsn", "", "backend connection string")
	cmd.PersistentFlags().StringVar(&override.Dir, "dir", "", "directory of the file backend")

	open := func(ctx context.Context) (store.Store, error) {
		cfg := c.Config.Store
		if override.Backend != "" {
			cfg.Backend = override.Backend
		}
		if override.DSN != "" {
			cfg.DSN = override.DSN
		}
		if override.Dir != "" {
			cfg.Dir = override.Dir
		}
		loggerFromContext(ctx).Debug("opening store", "backend", cfg.Backend)
		return openStore(ctx, cfg)
	}

	cmd.AddCommand(c.storeSaveCommand(open))
	cmd.AddCommand(c.storeGetCommand(open))
	cmd.AddCommand(c.storeListCommand(open))
	cmd.AddCommand(c.storeDeleteCommand(open))

	return cmd
}

type storeOpener func(ctx context.Context) (store.Store, error)

// storeSaveCommand creates the "store save" subcommand.
func (c *CLI) storeSaveCommand(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "save <key> <design>",
		Short: "Export a design and store its document under key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(true)
			if err != nil {
				return err
			}
			defer runner.Close()
			h, err := runner.Load(ctx, args[1])
			if err != nil {
				return err
			}

			s, err := open(ctx)
			if err != nil {
				return err
			}
			defer s.Close()
			info, err := store.SaveHarness(ctx, s, args[0], h)
			if err != nil {
				return err
			}
			printSuccess("Stored %s as %s", h.Name(), info.Key)
			printDetail("%d bytes · %s", info.Size, shortHash(info.Hash))
			return nil
		},
	}
}

// storeGetCommand creates the "store get" subcommand.
func (c *CLI) storeGetCommand(open storeOpener) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print or save a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := open(ctx)
			if err != nil {
				return err
			}
			defer s.Close()
			data, err := s.Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("get %s: %w", args[0], err)
			}
			if output == "" {
				_, err := os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

// storeListCommand creates the "store list" subcommand.
func (c *CLI) storeListCommand(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := open(ctx)
			if err != nil {
				return err
			}
			defer s.Close()
			infos, err := s.List(ctx)
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				printInfo("No stored documents")
				return nil
			}
			fmt.Println(infoTable(infos))
			return nil
		},
	}
}

// storeDeleteCommand creates the "store delete" subcommand.
func (c *CLI) storeDeleteCommand(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := open(ctx)
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.Delete(ctx, args[0]); err != nil {
				return fmt.Errorf("delete %s: %w", args[0], err)
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}

// infoTable renders document metadata as a bordered table.
func infoTable(infos []store.Info) string {
	rows := make([][]string, len(infos))
	for i, info := range infos {
		rows[i] = []string{
			info.Key,
			fmt.Sprintf("%d", info.Size),
			shortHash(info.Hash),
			info.UpdatedAt.Local().Format("2006-01-02 15:04"),
		}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Key", "Bytes", "Hash", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan).Padding(0, 1)
			}
			return lipgloss.NewStyle().Foreground(colorGray).Padding(0, 1)
		}).
		Render()
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
