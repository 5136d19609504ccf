package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tasklane/adapter/cli"
	"github.com/felixgeelhaar/tasklane/internal/productivity/application/commands"
)

var (
	userID      int64
	status      string
	priority    string
	description string
	dueDate     string
)

var createCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new task",
	Long: `Create a new task for a user. Status defaults to pending and
priority to medium.

Examples:
  tasklane task create "Write report" --user 1
  tasklane task create "Review PR" -u 2 -p high --due 2030-01-31
  tasklane task create "Plan sprint" -u 1 --status in_progress --description "Q3"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		t, err := app.CreateTaskHandler.Handle(cmd.Context(), commands.CreateTaskCommand{
			Title:       args[0],
			Description: optional(cmd, "description", description),
			Status:      status,
			Priority:    priority,
			UserID:      userID,
			DueDate:     optional(cmd, "due", dueDate),
		})
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Task created: %d\n", t.ID)
		fmt.Fprintf(out, "  title:    %s\n", t.Title)
		fmt.Fprintf(out, "  owner:    %s <%s>\n", t.UserName, t.UserEmail)
		fmt.Fprintf(out, "  status:   %s\n", t.Status)
		fmt.Fprintf(out, "  priority: %s\n", t.Priority)
		if t.DueDate != nil {
			fmt.Fprintf(out, "  due:      %s\n", *t.DueDate)
		}
		return nil
	},
}

func init() {
	createCmd.Flags().Int64VarP(&userID, "user", "u", 0, "owner user id (required)")
	createCmd.Flags().StringVarP(&status, "status", "s", "", "status (pending, in_progress, completed)")
	createCmd.Flags().StringVarP(&priority, "priority", "p", "", "priority (low, medium, high)")
	createCmd.Flags().StringVar(&description, "description", "", "task description")
	createCmd.Flags().StringVar(&dueDate, "due", "", "due date (YYYY-MM-DD)")
	_ = createCmd.MarkFlagRequired("user")
}
