package errors

import (
	"net/http"

	"github.com/go-chi/render"
)

// APIError is an error with a fixed HTTP status and a stable machine code.
// The error handler renders it as problem details.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// WithDetails returns a copy of e carrying details
func (e *APIError) WithDetails(details interface{}) *APIError {
	c := *e
	c.Details = details
	return &c
}

// ValidationError describes one rejected query parameter
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors lists every rejected parameter of a request
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// New creates an APIError
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message}
}

var (
	ErrPageNotFound       = New(http.StatusNotFound, "PAGE_NOT_FOUND", "Dashboard page not found")
	ErrReloadInProgress   = New(http.StatusConflict, "RELOAD_IN_PROGRESS", "A dataset reload is already running")
	ErrExportFailed       = New(http.StatusInternalServerError, "EXPORT_FAILED", "Dataset export failed")
	ErrDatasetUnavailable = New(http.StatusServiceUnavailable, "DATASET_UNAVAILABLE", "Dataset has not been loaded")

	errValidation   = New(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed")
	errInvalidQuery = New(http.StatusBadRequest, "INVALID_QUERY", "Query parameters could not be read")
)

// ErrValidation rejects a single query parameter
func ErrValidation(field, message string) *APIError {
	return errValidation.WithDetails(ValidationError{Field: field, Message: message})
}

// NewValidationErrors rejects several query parameters at once
func NewValidationErrors(errs []ValidationError) *APIError {
	return errValidation.WithDetails(ValidationErrors{Errors: errs})
}

// InvalidQuery wraps a failure to decode or check the query itself
func InvalidQuery(err error) *APIError {
	return errInvalidQuery.WithDetails(err.Error())
}
