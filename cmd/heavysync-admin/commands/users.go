package commands

import (
	"fmt"
	"log/slog"

	"heavysync/internal/admin"
	"heavysync/internal/repository"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	// create-admin flags
	adminInput admin.CreateAdminInput

	// reset-password flags
	resetUsername string
	resetPassword string
)

// createAdminCmd registers a user with the admin role
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	Long: `Create an administrator account. The same rules as public registration apply.

Example:
  heavysync-admin create-admin --username ops --email ops@example.com --password Secret1 --full-name "Ops Team"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(cmd.Context(), func(db *gorm.DB, log *slog.Logger) error {
			user, err := admin.New(repository.NewStore(db), log).CreateAdmin(cmd.Context(), adminInput)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Admin %s created (id %s)\n", user.Username, user.ID)
			return nil
		})
	},
}

// resetPasswordCmd sets a new password for an existing user
var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Set a new password for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(cmd.Context(), func(db *gorm.DB, log *slog.Logger) error {
			if err := admin.New(repository.NewStore(db), log).ResetPassword(cmd.Context(), resetUsername, resetPassword); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Password for %s has been reset\n", resetUsername)
			return nil
		})
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminInput.Username, "username", "", "login name")
	createAdminCmd.Flags().StringVar(&adminInput.Email, "email", "", "email address")
	createAdminCmd.Flags().StringVar(&adminInput.Password, "password", "", "initial password")
	createAdminCmd.Flags().StringVar(&adminInput.FullName, "full-name", "", "display name")
	for _, name := range []string{"username", "email", "password", "full-name"} {
		_ = createAdminCmd.MarkFlagRequired(name)
	}

	resetPasswordCmd.Flags().StringVar(&resetUsername, "username", "", "login name")
	resetPasswordCmd.Flags().StringVar(&resetPassword, "password", "", "new password")
	_ = resetPasswordCmd.MarkFlagRequired("username")
	_ = resetPasswordCmd.MarkFlagRequired("password")
}
