package types

import (
	"time"

	"github.com/urmzd/intelliglow/pkg/bulb"
	"github.com/urmzd/intelliglow/pkg/discovery"
)

// --- Request DTOs ---

// ScanRequest is the request body for POST /discovery/scan
type ScanRequest struct {
	TimeoutSeconds float64 `json:"timeout_seconds"`
}

// ConnectRequest is the request body for POST /bulbs/connect
type ConnectRequest struct {
	Host string `json:"host" binding:"required"`
	Port int    `json:"port"`
}

// --- Response DTOs ---

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned from GET /health
type HealthResponse struct {
	Status         string    `json:"status"`
	ConnectedBulbs int       `json:"connected_bulbs"`
	Timestamp      time.Time `json:"timestamp"`
}

// ScanResponse is returned from POST /discovery/scan
type ScanResponse struct {
	Bulbs []DiscoveredBulb `json:"bulbs"`
	Count int              `json:"count"`
}

// DiscoveredBulb is one scan responder
type DiscoveredBulb struct {
	Address        string  `json:"address"`
	ResponseTimeMS float64 `json:"response_time_ms"`
}

// ListBulbsResponse is returned from GET /bulbs
type ListBulbsResponse struct {
	Bulbs []discovery.BulbStatus `json:"bulbs"`
	Count int                    `json:"count"`
}

// ConnectResponse is returned from POST /bulbs/connect
type ConnectResponse struct {
	Bulb   string      `json:"bulb"`
	Status bulb.Status `json:"status"`
}

// StatusResponse is returned from GET /bulbs/{address}/status and
// POST /bulbs/{address}/state
type StatusResponse struct {
	Bulb      string      `json:"bulb"`
	Status    bulb.Status `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
}

// PingResponse is returned from POST /bulbs/{address}/ping
type PingResponse struct {
	Bulb           string  `json:"bulb"`
	Reachable      bool    `json:"reachable"`
	ResponseTimeMS float64 `json:"response_time_ms,omitempty"`
}

// DisconnectResponse is returned from DELETE /bulbs/{address}
type DisconnectResponse struct {
	Bulb   string `json:"bulb"`
	Status string `json:"status"`
}
