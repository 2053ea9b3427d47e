package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_REQUEST", "bad input")
	assert.Equal(t, "bad input", err.Error())
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		statusCode int
		errorCode  string
	}{
		{"invalid request", ErrInvalidRequest, http.StatusBadRequest, "INVALID_REQUEST"},
		{"validation failed", ErrValidationFailed, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"not found", ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"dimension not found", ErrDimensionNotFound, http.StatusNotFound, "DIMENSION_NOT_FOUND"},
		{"payload too large", ErrPayloadTooLarge, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
		{"rate limit", ErrRateLimitExceeded, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{"dataset not loaded", ErrDatasetNotLoaded, http.StatusServiceUnavailable, "DATASET_NOT_LOADED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.statusCode, tt.err.StatusCode)
			assert.Equal(t, tt.errorCode, tt.err.ErrorCode)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("year_min", "must be a positive integer")

	require.Equal(t, http.StatusBadRequest, err.StatusCode)
	detail, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "year_min", detail.Field)
	assert.Equal(t, "must be a positive integer", detail.Message)
}

func TestDatasetLoadError(t *testing.T) {
	err := DatasetLoadError(fmt.Errorf("missing required columns"))

	assert.Equal(t, http.StatusUnprocessableEntity, err.StatusCode)
	assert.Equal(t, "DATASET_LOAD_FAILED", err.ErrorCode)
	assert.Equal(t, "missing required columns", err.Details)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrDatasetNotLoaded)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "DATASET_NOT_LOADED", resp.Error.ErrorCode)
}

func newTestHandler(t *testing.T) *ErrorHandler {
	t.Helper()
	return NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), false)
}

func TestErrorHandler_APIError(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/summary", nil)
	h.HandleError(rec, req, ErrDatasetNotLoaded)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "DATASET_NOT_LOADED", resp.Error.ErrorCode)
}

func TestErrorHandler_WrappedAPIError(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/records", nil)
	h.HandleError(rec, req, fmt.Errorf("listing records: %w", ErrInvalidParameter))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrorHandler_GenericError(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/summary", nil)
	h.HandleError(rec, req, fmt.Errorf("disk on fire"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INTERNAL_SERVER_ERROR", resp.Error.ErrorCode)
	assert.Equal(t, "disk on fire", resp.Error.Details)
}

func TestErrorHandler_ContextCancelled(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/summary", nil)
	h.HandleError(rec, req, context.DeadlineExceeded)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestErrorHandler_NilError(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/summary", nil)
	h.HandleError(rec, req, nil)

	// Nothing written for a nil error.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestErrorHandler_Panic(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/dataset", nil)
	h.HandlePanic(rec, req, "boom")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INTERNAL_SERVER_ERROR", resp.Error.ErrorCode)
}
