package user

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tasklane/adapter/cli"
	"github.com/felixgeelhaar/tasklane/internal/identity/application/queries"
	"github.com/felixgeelhaar/tasklane/internal/shared/infrastructure/convert"
)

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		u, err := app.GetUserHandler.Handle(cmd.Context(), queries.GetUserQuery{UserID: id})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "User %d\n", u.ID)
		fmt.Fprintf(out, "  name:    %s\n", u.Name)
		fmt.Fprintf(out, "  email:   %s\n", u.Email)
		fmt.Fprintf(out, "  created: %s\n", u.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "  updated: %s\n", u.UpdatedAt.Format("2006-01-02 15:04:05"))
		return nil
	},
}

func parseID(value string) (int64, error) {
	id, err := convert.ParseID(value)
	if err != nil {
		return 0, fmt.Errorf("invalid user id %q", value)
	}
	return id, nil
}
