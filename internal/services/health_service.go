package services

import (
	"time"

	"seisprep/internal/infrastructure"
)

// HealthService reports process liveness and readiness.
type HealthService struct {
	started  time.Time
	pipeline *PipelineService
}

// NewHealthService creates a health service.
func NewHealthService(pipeline *PipelineService) *HealthService {
	return &HealthService{started: time.Now(), pipeline: pipeline}
}

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	RunInProgress bool   `json:"run_in_progress"`
}

// HealthCheck returns the overall service health.
func (s *HealthService) HealthCheck() HealthStatus {
	return HealthStatus{
		Status:        "healthy",
		Version:       infrastructure.ServiceVersion,
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
		RunInProgress: s.pipeline.Running(),
	}
}

// LivenessCheck reports that the process is alive.
func (s *HealthService) LivenessCheck() map[string]string {
	return map[string]string{"status": "alive"}
}

// ReadinessCheck reports whether the service can accept a run request.
func (s *HealthService) ReadinessCheck() map[string]any {
	return map[string]any{
		"status": "ready",
		"busy":   s.pipeline.Running(),
	}
}
