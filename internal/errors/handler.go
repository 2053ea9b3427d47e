package errors

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// ErrorHandler provides centralized error handling for HTTP handlers.
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler. Stack traces are only
// attached to responses when includeStack is true, which should be
// limited to development builds.
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError converts any error to an APIError and writes the response.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())

	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("remote_addr", r.RemoteAddr),
	)

	apiErr := h.toAPIError(err)
	render.Render(w, r, NewErrorResponse(apiErr))
}

// HandlePanic recovers a panic value into a 500 response.
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, rec interface{}) {
	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.Any("panic", rec),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", string(debug.Stack())),
	)

	apiErr := ErrPanic(rec)
	if h.includeStack {
		if recovery, ok := apiErr.Details.(PanicRecovery); ok {
			recovery.Stack = string(debug.Stack())
			apiErr.Details = recovery
		}
	}
	render.Render(w, r, NewErrorResponse(apiErr))
}

// toAPIError maps an arbitrary error to an APIError.
func (h *ErrorHandler) toAPIError(err error) *APIError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return New(http.StatusGatewayTimeout, "REQUEST_TIMEOUT", "The request took too long to process and was cancelled")
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	return NewWithDetails(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error", err.Error())
}
