package api

import (
	"log/slog"
	"net/http"

	"github.com/felixgeelhaar/tasklane/internal/app"
	"github.com/felixgeelhaar/tasklane/internal/identity/application/commands"
	"github.com/felixgeelhaar/tasklane/internal/identity/application/queries"
)

// UserRequest is the body of POST /users and PUT /users/{id}.
type UserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DeleteResponse is returned by the delete endpoints.
type DeleteResponse struct {
	Message   string `json:"message"`
	DeletedID int64  `json:"deletedId"`
}

// UserHandler serves the /users routes.
type UserHandler struct {
	list   *queries.ListUsersHandler
	get    *queries.GetUserHandler
	create *commands.CreateUserHandler
	update *commands.UpdateUserHandler
	delete *commands.DeleteUserHandler
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler from the container's handlers.
func NewUserHandler(c *app.Container, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		list:   c.ListUsersHandler,
		get:    c.GetUserHandler,
		create: c.CreateUserHandler,
		update: c.UpdateUserHandler,
		delete: c.DeleteUserHandler,
		logger: logger,
	}
}

// List handles GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.list.Handle(r.Context())
	if err != nil {
		writeDomainError(w, r, h.logger, "fetch users", err)
		return
	}
	if users == nil {
		users = []queries.UserDTO{}
	}

	writeJSON(w, http.StatusOK, users)
}

// Get handles GET /users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, r, h.logger, "fetch user", err)
		return
	}

	user, err := h.get.Handle(r.Context(), queries.GetUserQuery{UserID: id})
	if err != nil {
		writeDomainError(w, r, h.logger, "fetch user", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Create handles POST /users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, r, h.logger, "create user", errInvalidJSON)
		return
	}

	user, err := h.create.Handle(r.Context(), commands.CreateUserCommand{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		writeDomainError(w, r, h.logger, "create user", err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Update handles PUT /users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, r, h.logger, "update user", err)
		return
	}

	var req UserRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, r, h.logger, "update user", errInvalidJSON)
		return
	}

	user, err := h.update.Handle(r.Context(), commands.UpdateUserCommand{
		UserID: id,
		Name:   req.Name,
		Email:  req.Email,
	})
	if err != nil {
		writeDomainError(w, r, h.logger, "update user", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Delete handles DELETE /users/{id}. The user's tasks go with it.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, r, h.logger, "delete user", err)
		return
	}

	result, err := h.delete.Handle(r.Context(), commands.DeleteUserCommand{UserID: id})
	if err != nil {
		writeDomainError(w, r, h.logger, "delete user", err)
		return
	}

	writeJSON(w, http.StatusOK, DeleteResponse{
		Message:   "User deleted successfully",
		DeletedID: result.DeletedID,
	})
}
