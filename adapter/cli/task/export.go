package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tasklane/adapter/cli"
	"github.com/felixgeelhaar/tasklane/internal/productivity/application/queries"
	"github.com/felixgeelhaar/tasklane/internal/shared/infrastructure/security"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tasks as JSON, CSV or PDF",
	Long: `Export tasks matching the filters. Without --output the report is
written to stdout.

Examples:
  tasklane task export --format csv
  tasklane task export --format pdf -o tasks.pdf
  tasklane task export --format json --user 1 --status pending`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		export, err := app.ExportTasksHandler.Handle(cmd.Context(), queries.ExportTasksQuery{
			ListTasksQuery: filterQuery(),
			Format:         exportFormat,
		})
		if err != nil {
			return fmt.Errorf("failed to export tasks: %w", err)
		}

		if exportOutput == "" {
			_, err := cmd.OutOrStdout().Write(export.Body)
			return err
		}

		path, err := security.WriteFile(exportOutput, export.Body, 0o644)
		if err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s (%s)\n", path, export.ContentType)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "output format (json, csv, pdf)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
	addFilterFlags(exportCmd)
}
