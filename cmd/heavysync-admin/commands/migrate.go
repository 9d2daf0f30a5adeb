package commands

import (
	"fmt"
	"log/slog"

	"heavysync/internal/repository"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// migrateCmd brings the schema up to date
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(cmd.Context(), func(db *gorm.DB, log *slog.Logger) error {
			if err := repository.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
			return nil
		})
	},
}
