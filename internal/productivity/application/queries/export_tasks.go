package queries

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/felixgeelhaar/tasklane/internal/productivity/domain/task"
	sharedDomain "github.com/felixgeelhaar/tasklane/internal/shared/domain"
)

// ErrInvalidExportFormat is returned for formats other than json, csv and pdf.
var ErrInvalidExportFormat = &sharedDomain.ValidationError{Message: "Invalid format value"}

var csvHeader = []string{
	"id", "title", "description", "status", "priority", "user_id",
	"due_date", "created_at", "updated_at", "user_name", "user_email",
}

// ExportTasksQuery selects tasks like ListTasksQuery and renders them in
// Format ("json" when empty).
type ExportTasksQuery struct {
	ListTasksQuery
	Format string
}

// Export is a rendered task report.
type Export struct {
	ContentType string
	Filename    string
	Body        []byte
}

// ExportTasksHandler handles the ExportTasksQuery.
type ExportTasksHandler struct {
	taskRepo task.Repository
	now      func() time.Time
}

// NewExportTasksHandler creates a new ExportTasksHandler.
func NewExportTasksHandler(taskRepo task.Repository) *ExportTasksHandler {
	return &ExportTasksHandler{taskRepo: taskRepo, now: time.Now}
}

// Handle executes the ExportTasksQuery.
func (h *ExportTasksHandler) Handle(ctx context.Context, query ExportTasksQuery) (*Export, error) {
	format := strings.ToLower(strings.TrimSpace(query.Format))
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" && format != "pdf" {
		return nil, ErrInvalidExportFormat
	}

	filter, err := query.Filter()
	if err != nil {
		return nil, err
	}
	tasks, err := h.taskRepo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	dtos := toTaskDTOs(tasks)

	export := &Export{Filename: "tasks." + format}
	switch format {
	case "json":
		export.ContentType = "application/json"
		export.Body, err = json.MarshalIndent(dtos, "", "  ")
	case "csv":
		export.ContentType = "text/csv"
		export.Body, err = renderCSV(dtos)
	case "pdf":
		export.ContentType = "application/pdf"
		export.Body, err = renderPDF(dtos, h.now())
	}
	if err != nil {
		return nil, fmt.Errorf("render %s export: %w", format, err)
	}
	return export, nil
}

func renderCSV(tasks []TaskDTO) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, t := range tasks {
		record := []string{
			strconv.FormatInt(t.ID, 10),
			t.Title,
			deref(t.Description),
			t.Status,
			t.Priority,
			strconv.FormatInt(t.UserID, 10),
			deref(t.DueDate),
			t.CreatedAt.UTC().Format(time.RFC3339),
			t.UpdatedAt.UTC().Format(time.RFC3339),
			t.UserName,
			t.UserEmail,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderPDF(tasks []TaskDTO, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Task report", false)
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task Report")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(40, 6, fmt.Sprintf("Generated %s, %d tasks", generatedAt.UTC().Format(time.RFC1123), len(tasks)))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	for _, t := range tasks {
		due := "no due date"
		if t.DueDate != nil {
			due = "due " + *t.DueDate
		}
		line := fmt.Sprintf("#%d [%s/%s] %s (%s, %s)", t.ID, t.Status, t.Priority, t.Title, t.UserName, due)
		pdf.MultiCell(0, 6, line, "0", "L", false)
		if t.Description != nil {
			pdf.SetFont("Arial", "I", 9)
			pdf.MultiCell(0, 5, "    "+*t.Description, "0", "L", false)
			pdf.SetFont("Arial", "", 10)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
