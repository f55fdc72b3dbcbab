package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/skillspace-mcp/internal/config"
	"github.com/dshills/skillspace-mcp/internal/logging"
	"github.com/dshills/skillspace-mcp/internal/recommender"
	"github.com/dshills/skillspace-mcp/internal/snapshot"
	"github.com/dshills/skillspace-mcp/internal/storage"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// rootFlags are shared by every command
type rootFlags struct {
	configPath string
	dbPath     string
	logLevel   string
	offline    bool
}

// app holds the wired dependencies of one command run
type app struct {
	cfg       *config.Config
	storage   *storage.SQLiteStorage
	snapshots *snapshot.Provider
	service   *recommender.Service
}

func (a *app) Close() {
	if err := a.storage.Close(); err != nil {
		logging.Warn().Err(err).Msg("failed to close database")
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "skillspace",
		Short:         "Recommend open-source projects from a contributor's skills",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			if flags.dbPath != "" {
				loaded.Database.Path = flags.dbPath
			}
			if flags.logLevel != "" {
				loaded.Logging.Level = flags.logLevel
			}
			if flags.offline {
				loaded.Resolver.Verify = false
			}
			logging.Init(loaded.LoggingSettings())
			*cfg = *loaded
			return nil
		},
	}
	cfg = config.Default()

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default config.yaml or $SKILLSPACE_CONFIG)")
	root.PersistentFlags().StringVar(&flags.dbPath, "db", "", "snapshot database path")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&flags.offline, "offline", false, "derive project URLs without probing them")

	root.AddCommand(
		newServeCmd(cfg),
		newHTTPCmd(cfg),
		newImportCmd(cfg),
		newExpertiseCmd(cfg),
		newTransferCmd(cfg),
		newPopularCmd(cfg),
		newLocalCmd(cfg),
		newVersionCmd(),
	)
	return root
}

// openApp opens the database and wires the recommendation service
func openApp(cfg *config.Config) (*app, error) {
	st, err := storage.NewSQLiteStorage(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.Database.Path, err)
	}
	provider := snapshot.NewProvider(st, cfg.SnapshotOptions())
	return &app{
		cfg:       cfg,
		storage:   st,
		snapshots: provider,
		service:   recommender.New(provider, cfg.NewResolver(), cfg.RecommenderOptions()),
	}, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "skillspace MCP Server\n")
			fmt.Fprintf(out, "Version: %s\n", version)
			fmt.Fprintf(out, "Build Time: %s\n", buildTime)
			fmt.Fprintf(out, "Build Mode: %s\n", storage.BuildMode)
			fmt.Fprintf(out, "SQLite Driver: %s\n", storage.DriverName)
		},
	}
}
