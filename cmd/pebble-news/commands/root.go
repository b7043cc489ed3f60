package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/marshallshelly/pebble-news/pkg/config"
	"github.com/marshallshelly/pebble-news/pkg/logger"
	"github.com/marshallshelly/pebble-news/pkg/runtime"
)

var (
	// Global flags
	configPath string
	dbURL      string
	addr       string
	verbose    bool
	jsonOutput bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pebble-news",
	Short: "Pebble News - paginated news articles and comments over PostgreSQL",
	Long: `Pebble News serves a JSON API of topics, articles, comments and users
backed by PostgreSQL.

Commands:
  serve    - Run the HTTP API
  migrate  - Apply or roll back the embedded schema migrations
  seed     - Reload a bundled dataset
  browse   - Page through articles interactively`,
	Version:       "0.4.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "pebble-news.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL (overrides config and environment)")
	rootCmd.PersistentFlags().StringVar(&addr, "addr", "", "HTTP listen address (overrides config and environment)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

// loadConfig reads the config file and layers the command-line flags on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*logrus.Logger, error) {
	log, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return log, nil
}

// connect opens the pool described by cfg.
func connect(ctx context.Context, cfg *config.Config) (*runtime.DB, error) {
	rc := cfg.Database.RuntimeConfig()
	var (
		db  *runtime.DB
		err error
	)
	if cfg.Database.URL != "" {
		db, err = runtime.ConnectWithURL(ctx, cfg.Database.URL, rc)
	} else {
		db, err = runtime.Connect(ctx, rc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// setup loads config, logging and a database connection for a command.
func setup(ctx context.Context) (*config.Config, *logrus.Logger, *runtime.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	db, err := connect(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, db, nil
}
