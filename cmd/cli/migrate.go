package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cartwise/grocery-service/config"
	"github.com/cartwise/grocery-service/internal/database"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database schema migrations",
	Long: `Apply all pending schema migrations to the configured database.
Already-applied migrations are skipped.`,
	Example: `  grocery-service migrate`,
	Args:    cobra.NoArgs,
	RunE:    runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	dbURL := config.GetDatabaseURL()
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL not set")
	}

	if err := database.Migrate(dbURL, cfg.Database.MigrationsPath); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	logger.Info().Msg("Migrations applied")
	return nil
}
