package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tasklane/adapter/cli"
	"github.com/felixgeelhaar/tasklane/internal/productivity/application/commands"
	"github.com/felixgeelhaar/tasklane/internal/productivity/application/queries"
)

var (
	updateTitle       string
	updateDescription string
	updateStatus      string
	updatePriority    string
	updateUser        int64
	updateDue         string
	clearDue          bool
)

var updateCmd = &cobra.Command{
	Use:   "update [task-id]",
	Short: "Update a task",
	Long: `Update the properties of an existing task. Fields without a flag
keep their current value.

Examples:
  tasklane task update 3 --title "New title"
  tasklane task update 3 --status completed
  tasklane task update 3 --due 2030-12-31
  tasklane task update 3 --clear-due`,
	Aliases: []string{"edit"},
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

		current, err := app.GetTaskHandler.Handle(cmd.Context(), queries.GetTaskQuery{TaskID: id})
		if err != nil {
			return err
		}

		updateTaskCmd := mergeUpdate(cmd, current)
		t, err := app.UpdateTaskHandler.Handle(cmd.Context(), updateTaskCmd)
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Task updated.")
		printTask(cmd, t)
		return nil
	},
}

// mergeUpdate overlays the changed flags on the stored task, producing the
// full replacement the update handler expects.
func mergeUpdate(cmd *cobra.Command, current *queries.TaskDTO) commands.UpdateTaskCommand {
	c := commands.UpdateTaskCommand{
		TaskID: current.ID,
		CreateTaskCommand: commands.CreateTaskCommand{
			Title:       current.Title,
			Description: current.Description,
			Status:      current.Status,
			Priority:    current.Priority,
			UserID:      current.UserID,
			DueDate:     current.DueDate,
		},
	}

	flags := cmd.Flags()
	if flags.Changed("title") {
		c.Title = updateTitle
	}
	if flags.Changed("description") {
		c.Description = &updateDescription
	}
	if flags.Changed("status") {
		c.Status = updateStatus
	}
	if flags.Changed("priority") {
		c.Priority = updatePriority
	}
	if flags.Changed("user") {
		c.UserID = updateUser
	}
	if flags.Changed("due") {
		c.DueDate = &updateDue
	}
	if clearDue {
		c.DueDate = nil
	}
	return c
}

func init() {
	updateCmd.Flags().StringVarP(&updateTitle, "title", "t", "", "new title")
	updateCmd.Flags().StringVar(&updateDescription, "description", "", "new description (empty clears it)")
	updateCmd.Flags().StringVarP(&updateStatus, "status", "s", "", "new status (pending, in_progress, completed)")
	updateCmd.Flags().StringVarP(&updatePriority, "priority", "p", "", "new priority (low, medium, high)")
	updateCmd.Flags().Int64VarP(&updateUser, "user", "u", 0, "move the task to another user")
	updateCmd.Flags().StringVar(&updateDue, "due", "", "new due date (YYYY-MM-DD)")
	updateCmd.Flags().BoolVar(&clearDue, "clear-due", false, "remove the due date")
}
