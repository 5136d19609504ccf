package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tasklane/adapter/cli"
	"github.com/felixgeelhaar/tasklane/internal/productivity/application/queries"
)

var showCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show task details",
	Long: `Display detailed information about a specific task.

Examples:
  tasklane task show 3`,
	Aliases: []string{"get", "view"},
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

		t, err := app.GetTaskHandler.Handle(cmd.Context(), queries.GetTaskQuery{TaskID: id})
		if err != nil {
			return err
		}

		printTask(cmd, t)
		return nil
	},
}

func printTask(cmd *cobra.Command, t *queries.TaskDTO) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Task %d: %s\n", t.ID, t.Title)
	if t.Description != nil {
		fmt.Fprintf(out, "  description: %s\n", *t.Description)
	}
	fmt.Fprintf(out, "  status:      %s\n", t.Status)
	fmt.Fprintf(out, "  priority:    %s\n", t.Priority)
	fmt.Fprintf(out, "  owner:       %s <%s> (id %d)\n", t.UserName, t.UserEmail, t.UserID)
	if t.DueDate != nil {
		fmt.Fprintf(out, "  due:         %s\n", *t.DueDate)
	}
	fmt.Fprintf(out, "  created:     %s\n", t.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "  updated:     %s\n", t.UpdatedAt.Format("2006-01-02 15:04:05"))
}
