// ABOUTME: Root Cobra command and global flags for the daylock CLI.
// ABOUTME: Loads config, builds the logger, and opens the journal store before each command.
package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/2389-research/daylock/internal/config"
	"github.com/2389-research/daylock/internal/journal"
	"github.com/2389-research/daylock/internal/storage"
	"github.com/2389-research/daylock/internal/storage/sqlite"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	globalConfig  *config.Config
	globalLogger  *zap.Logger
	globalStore   storage.JournalStore
	globalService *journal.Service
	verbose       bool
)

// noStoreCommands manage configuration only and must work before a journal exists.
var noStoreCommands = map[string]bool{
	"help":       true,
	"completion": true,
	"setup":      true,
	"grace":      true,
}

var rootCmd = &cobra.Command{
	Use:     "daylock",
	Short:   "One journal entry a day, locked and counted",
	Version: version,
	Long: `
██████╗  █████╗ ██╗   ██╗██╗      ██████╗  ██████╗██╗  ██╗
██╔══██╗██╔══██╗╚██╗ ██╔╝██║     ██╔═══██╗██╔════╝██║ ██╔╝
██║  ██║███████║ ╚████╔╝ ██║     ██║   ██║██║     █████╔╝
██║  ██║██╔══██║  ╚██╔╝  ██║     ██║   ██║██║     ██╔═██╗
██████╔╝██║  ██║   ██║   ███████╗╚██████╔╝╚██████╗██║  ██╗
╚═════╝ ╚═╝  ╚═╝   ╚═╝   ╚══════╝ ╚═════╝  ╚═════╝╚═╝  ╚═╝

Write one entry per day, lock it when you are done, and keep your streak.
Local-first with optional remote sync.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		globalLogger = logger

		if skipStore(cmd) {
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		globalConfig = cfg

		svc, store, err := openService(cfg, logger)
		if err != nil {
			return err
		}
		globalStore = store
		globalService = svc
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		cleanup()
		return nil
	},
}

// cleanup closes the store and flushes the logger. Cobra skips post-run hooks when a
// command fails, so main calls it as well.
func cleanup() {
	if globalStore != nil {
		_ = globalStore.Close()
		globalStore = nil
	}
	globalService = nil
	if globalLogger != nil {
		_ = globalLogger.Sync()
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
}

func skipStore(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if noStoreCommands[c.Name()] {
			return true
		}
	}
	return false
}

// newLogger builds a production zap logger writing to stderr. Stdout stays free for
// command output and the MCP stdio transport.
func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// openStore opens the configured journal backend.
func openStore(cfg *config.Config) (storage.JournalStore, error) {
	backend, err := cfg.Backend()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	switch backend {
	case config.BackendSQLite:
		path, err := cfg.GetSQLitePath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve sqlite path: %w", err)
		}
		store, err := sqlite.Open(path, loc)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return store, nil
	default:
		path, err := cfg.GetJournalPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve journal path: %w", err)
		}
		store, err := storage.NewJournalMDStore(afero.NewOsFs(), path, loc)
		if err != nil {
			return nil, fmt.Errorf("failed to open journal store: %w", err)
		}
		return store, nil
	}
}

// openService wires the store, remote client and streak preferences into a journal service.
func openService(cfg *config.Config, logger *zap.Logger) (*journal.Service, storage.JournalStore, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	opts := []journal.Option{
		journal.WithLocation(loc),
		journal.WithLogger(logger),
		journal.WithStreakOptions(cfg.StreakOptions()),
	}
	if cfg.HasRemote() {
		opts = append(opts, journal.WithRemote(storage.NewRemoteClient(cfg.Sync.APIURL, cfg.Sync.APIKey, cfg.Sync.TeamID)))
	}

	svc, err := journal.NewService(store, opts...)
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to create journal service: %w", err)
	}
	logger.Debug("journal opened", zap.String("backend", cfg.Storage.Backend), zap.Bool("remote", cfg.HasRemote()))
	return svc, store, nil
}
