package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	sharedDomain "github.com/felixgeelhaar/tasklane/internal/shared/domain"
	"github.com/felixgeelhaar/tasklane/internal/shared/infrastructure/convert"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

var (
	errInvalidJSON = &sharedDomain.ValidationError{Message: "Invalid JSON body"}
	errInvalidID   = &sharedDomain.ValidationError{Message: "Invalid id"}

	errServerFailure = errors.New("server error response")
	errTrailingData  = errors.New("unexpected data after JSON body")
)

// decodeBody decodes exactly one JSON value from the request body.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}

// writeDomainError maps an application error onto a status code. Errors
// that are not validation, not-found or conflict errors are storage
// failures: they are logged and answered with a generic message.
func writeDomainError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, operation string, err error) {
	var (
		validation *sharedDomain.ValidationError
		notFound   *sharedDomain.NotFoundError
		conflict   *sharedDomain.ConflictError
	)

	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation.Message)
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &conflict):
		writeError(w, http.StatusConflict, conflict.Message)
	default:
		logger.ErrorContext(r.Context(), "request failed",
			"operation", operation,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "Failed to "+operation)
	}
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := convert.ParseID(r.PathValue("id"))
	if err != nil {
		return 0, errInvalidID
	}
	return id, nil
}
