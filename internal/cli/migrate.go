package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"interview-scheduler/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the Postgres schema and apply the seed file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		if cfg.DatabaseURL == "" {
			return errors.New("database url required (--database-url or DATABASE_URL)")
		}
		ctx := cmd.Context()
		pg, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pg.Close()

		if err := pg.Migrate(ctx); err != nil {
			return err
		}
		logger.Info("schema up to date")

		if cfg.SeedFile != "" {
			n, err := store.LoadSeed(ctx, pg, cfg.SeedFile)
			if err != nil {
				return err
			}
			logger.Info("seed applied", zap.String("file", cfg.SeedFile), zap.Int("created", n))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
