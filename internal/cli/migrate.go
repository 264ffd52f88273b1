package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/codepulse/internal/adapters/turso"
	"github.com/emiliopalmerini/codepulse/internal/infrastructure/config"
	"github.com/emiliopalmerini/codepulse/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Run all pending database migrations.

Examples:
  codepulse migrate           # Apply all pending migrations
  codepulse migrate --status  # Show the current schema version`,
	RunE: runMigrate,
}

var migrateStatus bool

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "Show the current schema version without migrating")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := turso.NewDB(cfg.Database.URL, cfg.Database.AuthToken)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if migrateStatus {
		if err := migrate.EnsureMigrationsTable(ctx, db); err != nil {
			return fmt.Errorf("failed to create migrations table: %w", err)
		}
		version, dirty, err := migrate.CurrentVersion(ctx, db)
		if err != nil {
			return fmt.Errorf("failed to get current version: %w", err)
		}
		state := "clean"
		if dirty {
			state = "dirty"
		}
		fmt.Printf("Schema version: %d (%s)\n", version, state)
		return nil
	}

	if err := migrate.RunAll(ctx, db); err != nil {
		return err
	}

	version, _, _ := migrate.CurrentVersion(ctx, db)
	fmt.Printf("Migrated to version %d\n", version)
	return nil
}
