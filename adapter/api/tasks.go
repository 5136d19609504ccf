package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/tasklane/internal/app"
	"github.com/felixgeelhaar/tasklane/internal/productivity/application/commands"
	"github.com/felixgeelhaar/tasklane/internal/productivity/application/queries"
)

// TaskRequest is the body of POST /tasks and PUT /tasks/{id}. Empty
// description and due_date are stored as null.
type TaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	UserID      OwnerID `json:"user_id"`
	DueDate     *string `json:"due_date"`
}

// OwnerID is the task's user_id. Browser forms post it as a string, so it
// decodes from a JSON number or a numeric string. An empty string or null
// decodes to 0, which task validation rejects as missing.
type OwnerID int64

func (id *OwnerID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*id = 0
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
		if raw == "" {
			*id = 0
			return nil
		}
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("user_id: %w", err)
	}
	*id = OwnerID(n)
	return nil
}

func (req TaskRequest) command() commands.CreateTaskCommand {
	return commands.CreateTaskCommand{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		UserID:      int64(req.UserID),
		DueDate:     req.DueDate,
	}
}

// TaskHandler serves the /tasks routes.
type TaskHandler struct {
	list   *queries.ListTasksHandler
	get    *queries.GetTaskHandler
	export *queries.ExportTasksHandler
	create *commands.CreateTaskHandler
	update *commands.UpdateTaskHandler
	delete *commands.DeleteTaskHandler
	logger *slog.Logger
}

// NewTaskHandler creates a TaskHandler from the container's handlers.
func NewTaskHandler(c *app.Container, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		list:   c.ListTasksHandler,
		get:    c.GetTaskHandler,
		export: c.ExportTasksHandler,
		create: c.CreateTaskHandler,
		update: c.UpdateTaskHandler,
		delete: c.DeleteTaskHandler,
		logger: logger,
	}
}

func listQuery(r *http.Request) queries.ListTasksQuery {
	q := r.URL.Query()
	return queries.ListTasksQuery{
		UserID:   q.Get("userId"),
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
	}
}

// List handles GET /tasks?userId=&status=&priority=
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.list.Handle(r.Context(), listQuery(r))
	if err != nil {
		writeDomainError(w, r, h.logger, "fetch tasks", err)
		return
	}
	if tasks == nil {
		tasks = []queries.TaskDTO{}
	}

	writeJSON(w, http.StatusOK, tasks)
}

// Export handles GET /tasks/export?format=json|csv|pdf. It accepts the
// same filters as List.
func (h *TaskHandler) Export(w http.ResponseWriter, r *http.Request) {
	export, err := h.export.Handle(r.Context(), queries.ExportTasksQuery{
		ListTasksQuery: listQuery(r),
		Format:         r.URL.Query().Get("format"),
	})
	if err != nil {
		writeDomainError(w, r, h.logger, "export tasks", err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+export.Filename+"\"")
	w.Header().Set("Content-Length", strconv.Itoa(len(export.Body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(export.Body); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write export", "error", err)
	}
}

// Get handles GET /tasks/{id}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, r, h.logger, "fetch task", err)
		return
	}

	task, err := h.get.Handle(r.Context(), queries.GetTaskQuery{TaskID: id})
	if err != nil {
		writeDomainError(w, r, h.logger, "fetch task", err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// Create handles POST /tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TaskRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, r, h.logger, "create task", errInvalidJSON)
		return
	}

	task, err := h.create.Handle(r.Context(), req.command())
	if err != nil {
		writeDomainError(w, r, h.logger, "create task", err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// Update handles PUT /tasks/{id}. The body replaces every writable field.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, r, h.logger, "update task", err)
		return
	}

	var req TaskRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, r, h.logger, "update task", errInvalidJSON)
		return
	}

	task, err := h.update.Handle(r.Context(), commands.UpdateTaskCommand{
		TaskID:            id,
		CreateTaskCommand: req.command(),
	})
	if err != nil {
		writeDomainError(w, r, h.logger, "update task", err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// Delete handles DELETE /tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, r, h.logger, "delete task", err)
		return
	}

	result, err := h.delete.Handle(r.Context(), commands.DeleteTaskCommand{TaskID: id})
	if err != nil {
		writeDomainError(w, r, h.logger, "delete task", err)
		return
	}

	writeJSON(w, http.StatusOK, DeleteResponse{
		Message:   "Task deleted successfully",
		DeletedID: result.DeletedID,
	})
}
