package domain

import "context"

// HealthStatus is the readiness probe payload.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Healthy reports whether every dependency answered.
func (h HealthStatus) Healthy() bool {
	return h.Status == "healthy"
}

// APIInfo is returned by the root probe.
type APIInfo struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

type HealthUsecase interface {
	Info() APIInfo
	Check(ctx context.Context) HealthStatus
}
