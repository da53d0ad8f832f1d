package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/komalvinayak/Ecommerce-Analysis/internal/files"
	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts"
)

// DatasetStatusProvider reports on the published dataset
type DatasetStatusProvider interface {
	Status() DatasetStatus
}

// ClientCounter reports connected WebSocket clients
type ClientCounter interface {
	ClientCount() int
}

// SourceChecker compares the expected source workbooks with the disk
type SourceChecker func() (files.SourceReport, error)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	datasets  DatasetStatusProvider
	hub       ClientCounter
	sources   SourceChecker
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// NewHealthService creates a health service. hub and sources may be nil.
func NewHealthService(datasets DatasetStatusProvider, hub ClientCounter, sources SourceChecker, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   contracts.Version,
		datasets:  datasets,
		hub:       hub,
		sources:   sources,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck is ready once a dataset is published
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]interface{}),
	}

	dataset := hs.checkDataset()
	status.Services["dataset"] = dataset
	status.Services["websocket"] = hs.checkWebSocket()
	if hs.sources != nil {
		status.Services["sources"] = hs.checkSources()
	}

	// missing workbooks only matter at the next reload
	if dataset.Status != "ready" {
		status.Status = "not_ready"
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	info := contracts.GetVersionInfo()
	return map[string]interface{}{
		"version":      info.Version,
		"build_time":   info.BuildTime,
		"git_commit":   info.GitCommit,
		"go_version":   info.GoVersion,
		"os":           info.OS,
		"arch":         info.Architecture,
		"data_format":  info.DataFormat,
		"api_version":  info.APIVersion,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
}

func (hs *HealthService) checkDataset() ServiceHealth {
	if hs.datasets == nil {
		return ServiceHealth{Status: "not_ready", Message: "dataset service not configured"}
	}
	st := hs.datasets.Status()
	if !st.Loaded {
		msg := "dataset not loaded"
		if st.LastError != "" {
			msg = st.LastError
		}
		return ServiceHealth{Status: "not_ready", Message: msg, Details: st}
	}
	if st.LastError != "" {
		return ServiceHealth{Status: "ready", Message: "last reload failed, serving previous dataset", Details: st}
	}
	return ServiceHealth{Status: "ready", Details: st}
}

func (hs *HealthService) checkWebSocket() ServiceHealth {
	if hs.hub == nil {
		return ServiceHealth{Status: "disabled"}
	}
	return ServiceHealth{Status: "ready", Details: map[string]int{"clients": hs.hub.ClientCount()}}
}

func (hs *HealthService) checkSources() ServiceHealth {
	report, err := hs.sources()
	if err != nil {
		return ServiceHealth{Status: "degraded", Message: err.Error()}
	}
	if !report.Complete() {
		return ServiceHealth{Status: "degraded", Message: "source workbooks missing", Details: report}
	}
	return ServiceHealth{Status: "ready", Details: report}
}
