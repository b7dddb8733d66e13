package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-hockey-xg/internal/config"
	"github.com/pable/go-hockey-xg/internal/log"
	"github.com/pable/go-hockey-xg/internal/metrics"
	"github.com/pable/go-hockey-xg/internal/storage"
)

var (
	dbPath      string
	configPath  string
	debug       bool
	metricsFile string

	cfg        *config.Config
	metricsMgr *metrics.Manager
)

var rootCmd = &cobra.Command{
	Use:   "hockeyxg",
	Short: "Hockey expected-goals feature builder",
	Long: `Turn season play-by-play CSV files into a per-shot feature table for
expected-goals modelling, store it in SQLite, and report on or export it.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dbPath, "db", "", "path to SQLite database (default ~/.hockeyxg/hockeyxg.db)")
	pf.StringVar(&configPath, "config", "", "YAML config file (or HOCKEYXG_CONFIG)")
	pf.BoolVar(&debug, "debug", false, "development logging at debug level")
	pf.StringVar(&metricsFile, "metrics-file", "", "write Prometheus textfile metrics here after the run")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(shellCmd)
}

// setup loads configuration, applies explicit flags on top and starts the
// logger and metrics collectors.
func setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cmd.Context(), configPath)
	if err != nil {
		return err
	}
	pf := cmd.Flags()
	if pf.Changed("db") {
		c.DBPath = dbPath
	}
	if pf.Changed("metrics-file") {
		c.MetricsFile = metricsFile
	}
	if debug {
		c.LogLevel = "debug"
	}
	cfg = c
	dbPath = c.DBPath

	if err := log.Init(debug, cfg.LogLevel); err != nil {
		return err
	}
	if metricsMgr, err = metrics.NewManager(); err != nil {
		return err
	}
	log.Debugw("configuration loaded", "db", cfg.DBPath, "workers", cfg.Workers, "seasons", len(cfg.Seasons))
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	defer log.Sync()
	if cfg == nil || cfg.MetricsFile == "" || metricsMgr == nil {
		return nil
	}
	if err := metricsMgr.WriteTextfile(cfg.MetricsFile); err != nil {
		return err
	}
	log.Debugw("metrics written", "path", cfg.MetricsFile)
	return nil
}

// openDB opens the configured database, creating its directory if needed.
func openDB() (*storage.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}
