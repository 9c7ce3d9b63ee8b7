package cmd

import (
	"log/slog"

	"github.com/SscSPs/copro_ledger/internal/platform/config"
	"github.com/SscSPs/copro_ledger/pkg/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate up|down",
	Short:     "Apply all migrations, or roll back the latest one",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(database.MigrateUp), string(database.MigrateDown)},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return failed(err, "failed to load configuration")
		}
		if err := database.RunMigrations(slog.Default(), cfg.DatabaseURL, cfg.MigrationsPath, database.MigrationDirection(args[0])); err != nil {
			return failed(err, "migration failed")
		}
		return nil
	},
}
