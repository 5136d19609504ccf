package task

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tasklane/adapter/cli"
	"github.com/felixgeelhaar/tasklane/internal/productivity/application/queries"
)

var (
	filterUser     string
	filterStatus   string
	filterPriority string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List tasks, newest first, with optional exact-match filters.

Examples:
  tasklane task list
  tasklane task list --user 1 --status pending
  tasklane task list --priority high`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		tasks, err := app.ListTasksHandler.Handle(cmd.Context(), filterQuery())
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(tasks) == 0 {
			fmt.Fprintln(out, "No tasks found.")
			return nil
		}

		fmt.Fprintf(out, "Tasks (%d):\n", len(tasks))
		fmt.Fprintln(out, strings.Repeat("-", 60))
		for _, t := range tasks {
			fmt.Fprintf(out, "%s %s %s\n", getStatusIcon(t.Status), t.Title, getPriorityBadge(t.Priority))
			fmt.Fprintf(out, "   ID: %d  Owner: %s\n", t.ID, t.UserName)
			if t.DueDate != nil {
				fmt.Fprintf(out, "   Due: %s\n", *t.DueDate)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func filterQuery() queries.ListTasksQuery {
	return queries.ListTasksQuery{
		UserID:   filterUser,
		Status:   filterStatus,
		Priority: filterPriority,
	}
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&filterUser, "user", "u", "", "filter by owner user id")
	cmd.Flags().StringVarP(&filterStatus, "status", "s", "", "filter by status (pending, in_progress, completed)")
	cmd.Flags().StringVarP(&filterPriority, "priority", "p", "", "filter by priority (low, medium, high)")
}

func getStatusIcon(status string) string {
	switch status {
	case "completed":
		return "[x]"
	case "in_progress":
		return "[>]"
	default:
		return "[ ]"
	}
}

func getPriorityBadge(priority string) string {
	switch priority {
	case "high":
		return "(!)"
	case "medium":
		return "(~)"
	case "low":
		return "(.)"
	default:
		return ""
	}
}

func init() {
	addFilterFlags(listCmd)
}
