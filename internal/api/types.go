package api

import "github.com/vestadash/vesta/internal/dashboard"

// ConfigResponse is the payload for GET /api/v1/config: the redacted
// dashboard document, groups in source order.
type ConfigResponse struct {
	Groups      []dashboard.ClientGroup `json:"groups"`
	GeneratedAt string                  `json:"generated_at"`
}

// PingResponse is the payload for GET /api/v1/ping.
type PingResponse struct {
	StatusCode int `json:"status_code"`
}

// StatsResponse is the payload for GET /api/v1/stats.
type StatsResponse struct {
	dashboard.Stats

	SnapshotID string `json:"snapshot_id"`
	LoadedAt   string `json:"loaded_at"`
}

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status     string `json:"status"`
	SnapshotID string `json:"snapshot_id"`
	LoadedAt   string `json:"loaded_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}
