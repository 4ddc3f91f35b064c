// ABOUTME: Root Cobra command for healthtrack CLI.
// ABOUTME: Opens config, logger, store, and session via PersistentPre/PostRunE.
package main

import (
	"fmt"
	"os"

	"github.com/harperreed/healthtrack/internal/config"
	"github.com/harperreed/healthtrack/internal/logging"
	"github.com/harperreed/healthtrack/internal/session"
	"github.com/harperreed/healthtrack/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath  string
	dbPathFlag  string
	profileFlag string
	verbose     bool

	current *app
)

var rootCmd = &cobra.Command{
	Use:   "healthtrack",
	Short: "Blood pressure, pulse, and weight log for a few named profiles",
	Long: `Healthtrack records blood pressure, pulse, and weight against named profiles.

PROFILES:

  $ healthtrack profile add Alice --age 30 --gender F   # Create (and select) a profile
  $ healthtrack profile list                           # See all profiles
  $ healthtrack select Alice                           # Make Alice the default profile

LOGGING:

  $ healthtrack log 120 80 70 65.5 --position sitting  # systolic diastolic pulse weight
  $ healthtrack log 118 78 66                          # reuse the last weight
  $ healthtrack history                                # newest first
  $ healthtrack -p Bob history                         # act as Bob for one command

INTERACTIVE:

  $ healthtrack shell     # one session, select once, log many

MCP INTEGRATION:

  Run 'healthtrack mcp' to expose profiles and records to MCP-compatible
  AI assistants over stdio.

DATA STORAGE:

  Records are stored in SQLite at ~/.local/share/healthtrack/health_data.db.
  Settings live in ~/.config/healthtrack/config.yaml.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		current = a
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if current == nil {
			return nil
		}
		err := current.Close()
		current = nil
		return err
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// openApp wires config, logging, storage, and the session for one process.
func openApp(cmd *cobra.Command) (*app, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(os.Stderr, cfg.GetLogLevel(), verbose)
	if err != nil {
		return nil, err
	}

	dbPath := cfg.GetDBPath()
	if dbPathFlag != "" {
		dbPath = config.ExpandPath(dbPathFlag)
	}
	store, err := storage.Open(dbPath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	logger.Debug("using database", zap.String("path", store.Path()))

	a := newApp(cfg, logger, store, session.New(store, logger), cmd.OutOrStdout())

	switch {
	case profileFlag != "":
		if _, err := a.selectRef(profileFlag); err != nil {
			_ = a.Close()
			return nil, err
		}
	case cfg.DefaultProfile != "":
		// A stale default must not block commands like 'profile add'.
		if _, err := a.selectRef(cfg.DefaultProfile); err != nil {
			logger.Warn("default profile unavailable", zap.String("profile", cfg.DefaultProfile), zap.Error(err))
		}
	}

	return a, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/healthtrack/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "database file (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&profileFlag, "profile", "p", "", "profile name or id to act as")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
