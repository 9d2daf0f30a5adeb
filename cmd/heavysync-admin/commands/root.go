package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"heavysync/internal/app"
	"heavysync/internal/config"
	"heavysync/pkg/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "heavysync-admin",
	Short: "Maintenance commands for the HeavySync database",
	Long: `heavysync-admin runs schema migrations and account maintenance against the
database named by DATABASE_URL (.env is read when present).`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(migrateCmd, createAdminCmd, resetPasswordCmd)
}

// withDatabase opens the configured Postgres database for the duration of fn.
func withDatabase(ctx context.Context, fn func(db *gorm.DB, log *slog.Logger) error) error {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}
	if cfg.UsesMemoryStore() {
		return errors.New("admin commands need a Postgres DATABASE_URL")
	}

	log := app.NewLogger(cfg.LogFormat)
	db, err := database.ConnectDB(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer database.Close(db)

	return fn(db, log)
}
