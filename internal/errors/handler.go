package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/go-chi/render"

	"github.com/komalvinayak/Ecommerce-Analysis/internal/infrastructure"
)

// Problem types, relative URIs as RFC 7807 allows
const (
	TypeValidation = "/errors/validation"
	TypeNotFound   = "/errors/not-found"
	TypeConflict   = "/errors/conflict"
	TypeRateLimit  = "/errors/rate-limit"
	TypeTimeout    = "/errors/timeout"
	TypeInternal   = "/errors/internal"

	TypeDataSchema      = "/errors/data/schema"
	TypeDataUnreadable  = "/errors/data/unreadable"
	TypeDataUnavailable = "/errors/data/unavailable"
)

type mapping struct {
	status      int
	problemType string
}

var byErrorType = map[ErrorType]mapping{
	ErrTypeValidation: {http.StatusBadRequest, TypeValidation},
	ErrTypeSchema:     {http.StatusUnprocessableEntity, TypeDataSchema},
	ErrTypeParsing:    {http.StatusUnprocessableEntity, TypeDataUnreadable},
	ErrTypeSource:     {http.StatusBadGateway, TypeDataUnreadable},
}

var byStatus = map[int]string{
	http.StatusBadRequest:          TypeValidation,
	http.StatusNotFound:            TypeNotFound,
	http.StatusConflict:            TypeConflict,
	http.StatusUnprocessableEntity: TypeDataSchema,
	http.StatusTooManyRequests:     TypeRateLimit,
	http.StatusServiceUnavailable:  TypeDataUnavailable,
}

// ErrorHandler renders every failed request as problem details and logs it
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates an error handler. includeStack adds a goroutine
// stack to 5xx responses and belongs to development builds only.
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError writes err as problem details. A nil error writes nothing.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	problem := toProblem(err, r.URL.Path)

	level := slog.LevelWarn
	if problem.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "request failed",
		slog.String("error", err.Error()),
		slog.Int("status", problem.Status),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	if h.includeStack && problem.Status >= http.StatusInternalServerError {
		buf := make([]byte, 8<<10)
		problem.WithExtension("stack", string(buf[:runtime.Stack(buf, false)]))
	}
	h.write(w, r, problem)
}

// NotFound is the router's 404 handler
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, NewProblemDetails(http.StatusNotFound, TypeNotFound, "Not Found",
		"The requested resource was not found", r.URL.Path))
}

// MethodNotAllowed is the router's 405 handler
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, NewProblemDetails(http.StatusMethodNotAllowed, TypeInternal, "Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method), r.URL.Path))
}

func (h *ErrorHandler) write(w http.ResponseWriter, r *http.Request, problem *ProblemDetails) {
	if traceID := infrastructure.GetTraceID(r.Context()); traceID != "" {
		problem.WithExtension("trace_id", traceID)
	}
	render.Render(w, r, problem)
}

func toProblem(err error, instance string) *ProblemDetails {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblemDetails(http.StatusGatewayTimeout, TypeTimeout, "Request Timeout",
			"The request took too long to process and was cancelled", instance)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		problemType, ok := byStatus[apiErr.StatusCode]
		if !ok {
			problemType = TypeInternal
		}
		problem := NewProblemDetails(apiErr.StatusCode, problemType, http.StatusText(apiErr.StatusCode),
			apiErr.Message, instance).
			WithExtension("error_code", apiErr.ErrorCode)
		if apiErr.Details != nil {
			problem.WithExtension("details", apiErr.Details)
		}
		return problem
	}

	var typed Typed
	if errors.As(err, &typed) {
		m, ok := byErrorType[typed.ErrorType()]
		if !ok {
			m = mapping{http.StatusInternalServerError, TypeInternal}
		}
		problem := NewProblemDetails(m.status, m.problemType, http.StatusText(m.status), typed.Error(), instance).
			WithExtension("error_type", string(typed.ErrorType()))

		var appErr *AppError
		if errors.As(err, &appErr) && len(appErr.Fields) > 0 {
			problem.WithExtension("source", appErr.Fields)
		}
		return problem
	}

	return NewProblemDetails(http.StatusInternalServerError, TypeInternal, "Internal Server Error",
		"An unexpected error occurred while processing your request", instance)
}
