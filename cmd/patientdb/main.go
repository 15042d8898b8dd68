package main

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dshills/patientdb/internal/config"
	"github.com/dshills/patientdb/internal/logging"
	"github.com/dshills/patientdb/internal/patients"
	"github.com/dshills/patientdb/internal/storage"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// app holds what every subcommand needs once flags are parsed
type app struct {
	v          *viper.Viper
	configFile string
	cfg        *config.Config
	logger     zerolog.Logger
	svc        *patients.Service
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	rootCmd := &cobra.Command{
		Use:           "patientdb",
		Short:         "Local patient records with bulk import and ad-hoc SQL",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["skipStore"] == "true" {
				return nil
			}
			return a.setup(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return storage.CloseShared()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (yaml, json or toml)")
	flags.String("db", "", "SQLite database path, or \"none\" to run without storage")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	_ = a.v.BindPFlag(config.KeyDBPath, flags.Lookup("db"))
	_ = a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	rootCmd.AddCommand(serveCmd(a))
	rootCmd.AddCommand(initCmd(a))
	rootCmd.AddCommand(addCmd(a))
	rootCmd.AddCommand(listCmd(a))
	rootCmd.AddCommand(queryCmd(a))
	rootCmd.AddCommand(importCmd(a))
	rootCmd.AddCommand(browseCmd(a))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

// setup loads configuration, builds the logger and opens the shared store.
// A missing or unwritable storage location leaves the service in degraded
// mode instead of failing.
func (a *app) setup(ctx context.Context) error {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	// Logs go to stderr; stdout carries MCP protocol and command output
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return err
	}
	a.logger = logger

	store, err := storage.Shared(cfg.DB.Path)
	if err != nil {
		if !errors.Is(err, storage.ErrUnavailable) {
			return err
		}
		logger.Warn().Err(err).Msg("persistent storage unavailable, records will not be saved")
	}

	a.svc = patients.NewService(store, patients.Options{
		ReadOnlyQueries: cfg.Query.ReadOnly,
		Logger:          logger,
	})
	if err := a.svc.Init(ctx); err != nil {
		return err
	}

	logger.Debug().
		Str("db", cfg.DB.Path).
		Bool("available", a.svc.Available()).
		Str("driver", storage.DriverName).
		Msg("store ready")
	return nil
}
