package user

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tasklane/adapter/cli"
	"github.com/felixgeelhaar/tasklane/internal/identity/application/commands"
)

var email string

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new user",
	Long: `Create a new user. Emails are unique.

Examples:
  tasklane user create "Ann Lee" --email ann@example.com`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		u, err := app.CreateUserHandler.Handle(cmd.Context(), commands.CreateUserCommand{
			Name:  args[0],
			Email: email,
		})
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "User created: %d\n", u.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "  name:  %s\n", u.Name)
		fmt.Fprintf(cmd.OutOrStdout(), "  email: %s\n", u.Email)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVarP(&email, "email", "e", "", "email address (required)")
	_ = createCmd.MarkFlagRequired("email")
}
