package user

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tasklane/adapter/cli"
	"github.com/felixgeelhaar/tasklane/internal/identity/application/commands"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [id]",
	Short:   "Delete a user and all of their tasks",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		result, err := app.DeleteUserHandler.Handle(cmd.Context(), commands.DeleteUserCommand{UserID: id})
		if err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "User deleted: %d\n", result.DeletedID)
		return nil
	},
}
