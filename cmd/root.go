package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/lifeline/internal/app"
	"github.com/theirongolddev/lifeline/internal/config"
	"github.com/theirongolddev/lifeline/internal/logger"
	"github.com/theirongolddev/lifeline/internal/store"
)

var (
	flagDataDir  string
	flagBackend  string
	flagLogLevel string
	flagHorizon  int
	flagWindow   int
)

var rootCmd = &cobra.Command{
	Use:   "lifeline",
	Short: "Personal cash-position tracker and forecaster",
	Long:  "Track accounts and spending, project your balance forward, and see how long your cash lasts.",
	RunE:  runStatus,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Data directory (default: XDG data dir)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Storage backend: sqlite or kv")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().IntVar(&flagHorizon, "horizon", 0, "Forecast horizon in days")
	rootCmd.PersistentFlags().IntVar(&flagWindow, "window", 0, "Trailing spending average window in days")
}

// loadConfig merges the config file with command-line overrides.
func loadConfig() config.Config {
	cfg, _ := config.Load()
	if flagDataDir != "" {
		cfg.General.DataDir = flagDataDir
	}
	if flagBackend != "" {
		cfg.General.Backend = flagBackend
	}
	if flagHorizon > 0 {
		cfg.General.HorizonDays = flagHorizon
	}
	if flagWindow > 0 {
		cfg.General.WindowDays = flagWindow
	}
	return cfg
}

// openStore opens the configured storage backend, creating the data
// directory on first run.
func openStore(cfg config.Config) (store.Store, error) {
	dataDir := config.DataDir(cfg)
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	switch cfg.General.Backend {
	case "kv":
		return store.OpenKV(filepath.Join(dataDir, "lifeline.kv"))
	case "", "sqlite":
		return store.OpenSQLite(filepath.Join(dataDir, "lifeline.db"))
	default:
		return nil, fmt.Errorf("unknown backend %q (want sqlite or kv)", cfg.General.Backend)
	}
}

// openCoordinator is the shared bootstrap path used by all commands.
// The returned close function must be called when done.
func openCoordinator() (*app.Coordinator, func(), error) {
	cfg := loadConfig()

	st, err := openStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	log := logger.New(logger.ParseLevel(flagLogLevel))
	coord, err := app.New(st, app.Options{
		HorizonDays: cfg.General.HorizonDays,
		WindowDays:  cfg.General.WindowDays,
		Logger:      log,
	})
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}

	return coord, func() { _ = st.Close() }, nil
}
