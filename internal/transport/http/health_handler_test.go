package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evpulse/internal/services"
)

func newHealthRouter(t *testing.T, loaded bool) chi.Router {
	t.Helper()

	logger := testLogger()
	data := services.NewDataService(logger, nil)
	if loaded {
		csv := "Make,Model,Model Year\nTesla,Model 3,2020\n"
		_, err := data.ReplaceFromUpload(context.Background(), strings.NewReader(csv), "fixture.csv")
		require.NoError(t, err)
	}

	handler := NewHealthHandler(services.NewHealthService("test", "", data, logger), logger)

	r := chi.NewRouter()
	r.Get("/api/health", handler.HealthCheck)
	r.Get("/api/health/live", handler.LivenessCheck)
	r.Get("/api/health/ready", handler.ReadinessCheck)
	r.Get("/api/version", handler.Version)
	return r
}

func TestHealthCheck(t *testing.T) {
	router := newHealthRouter(t, true)

	rec := doRequest(t, router, "GET", "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var status services.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "test", status.Version)
	assert.True(t, status.Dataset.Loaded)
}

func TestHealthCheck_Degraded(t *testing.T) {
	router := newHealthRouter(t, false)

	rec := doRequest(t, router, "GET", "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var status services.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "degraded", status.Status)
}

func TestLivenessCheck(t *testing.T) {
	router := newHealthRouter(t, false)

	rec := doRequest(t, router, "GET", "/api/health/live", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadinessCheck(t *testing.T) {
	router := newHealthRouter(t, true)

	rec := doRequest(t, router, "GET", "/api/health/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadinessCheck_NotReady(t *testing.T) {
	router := newHealthRouter(t, false)

	rec := doRequest(t, router, "GET", "/api/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestVersion(t *testing.T) {
	router := newHealthRouter(t, false)

	rec := doRequest(t, router, "GET", "/api/version", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var info services.VersionInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "test", info.Version)
	assert.NotEmpty(t, info.GoVersion)
}
