package dto

import "time"

// HealthResponse estado básico del servicio.
type HealthResponse struct {
	Service     string    `json:"service"`
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Version     string    `json:"version"`
	Environment string    `json:"environment"`
}

// ComponentHealth estado de una dependencia.
type ComponentHealth struct {
	Status    string  `json:"status"`
	LatencyMs float64 `json:"latency_ms"`
	Target    string  `json:"target,omitempty"`
	Error     string  `json:"error,omitempty"`
	Stats     any     `json:"stats,omitempty"`
}

// DetailedHealthResponse estado del servicio y de sus dependencias. Status: healthy | degraded.
type DetailedHealthResponse struct {
	HealthResponse
	Database     ComponentHealth             `json:"database"`
	Cache        ComponentHealth             `json:"cache"`
	Dependencies map[string]DependencyStatus `json:"dependencies"`
}

// DependencyStatus servicio externo declarado (no se sondea).
type DependencyStatus struct {
	Status      string `json:"status"`
	Description string `json:"description"`
}

// ReadinessResponse resultado de /health/ready.
type ReadinessResponse struct {
	Status string          `json:"status"`
	Checks map[string]bool `json:"checks"`
}
