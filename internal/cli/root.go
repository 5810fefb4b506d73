// Package cli holds the interview-scheduler commands.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"interview-scheduler/internal/config"
	"interview-scheduler/internal/store"
)

const appName = "interview-scheduler"

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:           appName,
		Short:         "interview-scheduler books candidate interviews through a scripted voice agent",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute executes the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a YAML config file (optional, environment and .env are always read)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("database-url", "", "postgres connection string (empty uses the in-memory store)")
	rootCmd.PersistentFlags().String("seed-file", "", "YAML file with demo jobs and candidates")

	for _, name := range []string{"debug", "json", "database-url", "seed-file"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

// setup loads the configuration and builds the logger shared by every command.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return nil, nil, err
	}
	logger, err := config.NewLogger(cfg.JSON, cfg.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("creating a logger: %w", err)
	}
	return cfg, logger, nil
}

// openStore connects to Postgres when a database URL is configured and falls
// back to the in-memory store otherwise. The seed file, if any, is applied.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	var st store.Store
	if cfg.DatabaseURL == "" {
		logger.Warn("no database url configured, using the in-memory store")
		st = store.NewMemoryStore()
	} else {
		pg, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		st = pg
	}

	if cfg.SeedFile != "" {
		n, err := store.LoadSeed(ctx, st, cfg.SeedFile)
		if err != nil {
			st.Close()
			return nil, err
		}
		logger.Info("seed applied", zap.String("file", cfg.SeedFile), zap.Int("created", n))
	}
	return st, nil
}
