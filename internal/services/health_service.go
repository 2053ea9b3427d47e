package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	startTime time.Time
	data      *DataService
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Dataset   DatasetStatus          `json:"dataset"`
}

// VersionInfo represents build information
type VersionInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
}

// NewHealthService creates a new health service with injected dependencies
func NewHealthService(version, buildTime string, data *DataService, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		buildTime: buildTime,
		startTime: time.Now(),
		data:      data,
		logger:    logger,
	}
}

// Check returns the overall health status. The service is degraded rather
// than unhealthy when no dataset is loaded, since the upload endpoint can
// still bring one in.
func (hs *HealthService) Check(ctx context.Context) HealthStatus {
	dataset := hs.data.Status()

	status := "healthy"
	if !dataset.Loaded {
		status = "degraded"
	}

	return HealthStatus{
		Status:    status,
		Timestamp: time.Now(),
		Version:   hs.version,
		Uptime:    time.Since(hs.startTime).Round(time.Second).String(),
		Runtime: map[string]interface{}{
			"go_version": runtime.Version(),
			"os":         runtime.GOOS,
			"arch":       runtime.GOARCH,
			"goroutines": runtime.NumGoroutine(),
		},
		Dataset: dataset,
	}
}

// Ready reports whether the service can serve dashboard views, which
// requires a loaded dataset.
func (hs *HealthService) Ready(ctx context.Context) bool {
	return hs.data.Status().Loaded
}

// Version returns build information
func (hs *HealthService) Version() VersionInfo {
	return VersionInfo{
		Version:   hs.version,
		BuildTime: hs.buildTime,
		GoVersion: runtime.Version(),
	}
}
