package mcp

import (
	"github.com/urmzd/intelliglow/pkg/bulb"
	"github.com/urmzd/intelliglow/pkg/discovery"
)

// --- Health Tool ---

// GetHealthInput is the input for the get_health tool
type GetHealthInput struct{}

// GetHealthOutput is the output for the get_health tool
type GetHealthOutput struct {
	Status         string `json:"status" jsonschema:"description=Overall health status (healthy or degraded)"`
	ConnectedBulbs int    `json:"connected_bulbs" jsonschema:"description=Number of live bulb connections"`
	Timestamp      string `json:"timestamp" jsonschema:"description=ISO8601 timestamp"`
}

// --- Discover Bulbs Tool ---

// DiscoverBulbsInput is the input for the discover_bulbs tool
type DiscoverBulbsInput struct {
	TimeoutSeconds float64 `json:"timeout_seconds,omitempty" jsonschema:"description=Overall scan budget in seconds (default 5)"`
}

// DiscoverBulbsOutput is the output for the discover_bulbs tool
type DiscoverBulbsOutput struct {
	Bulbs []BulbInfo `json:"bulbs" jsonschema:"description=Bulbs that responded, fastest first"`
	Count int        `json:"count" jsonschema:"description=Total number of bulbs found"`
}

// BulbInfo represents a discovered bulb in tool outputs
type BulbInfo struct {
	Address        string  `json:"address" jsonschema:"description=Bulb address as host:port"`
	ResponseTimeMS float64 `json:"response_time_ms" jsonschema:"description=Probe round-trip time in milliseconds"`
}

// --- Connect Tool ---

// ConnectBulbInput is the input for the connect_to_bulb tool
type ConnectBulbInput struct {
	Host string `json:"host" jsonschema:"required,description=Bulb IP address or hostname"`
	Port int    `json:"port,omitempty" jsonschema:"description=Bulb UDP port (default 4000)"`
}

// ConnectBulbOutput is the output for the connect_to_bulb tool
type ConnectBulbOutput struct {
	Success bool        `json:"success" jsonschema:"description=Whether the connection was established"`
	Bulb    string      `json:"bulb" jsonschema:"description=Bulb address as host:port"`
	Status  bulb.Status `json:"status" jsonschema:"description=Bulb state snapshot after connecting"`
}

// --- Disconnect Tool ---

// DisconnectBulbInput is the input for the disconnect_bulb tool
type DisconnectBulbInput struct {
	Host string `json:"host" jsonschema:"required,description=Bulb IP address or hostname"`
	Port int    `json:"port,omitempty" jsonschema:"description=Bulb UDP port (default 4000)"`
}

// DisconnectBulbOutput is the output for the disconnect_bulb tool
type DisconnectBulbOutput struct {
	Success bool   `json:"success" jsonschema:"description=Whether a connection existed and was closed"`
	Message string `json:"message" jsonschema:"description=Status message"`
}

// --- Control Tools ---

// ControlOutput is the shared output for turn_on_bulb, turn_off_bulb,
// set_bulb_brightness, set_bulb_color and set_bulb_state
type ControlOutput struct {
	Bulb   string      `json:"bulb" jsonschema:"description=Bulb address as host:port"`
	Status bulb.Status `json:"status" jsonschema:"description=Bulb state snapshot after the change"`
}

// TurnOnBulbInput is the input for the turn_on_bulb tool
type TurnOnBulbInput struct {
	Host string `json:"host,omitempty" jsonschema:"description=Bulb IP address (defaults to the configured bulb)"`
	Port int    `json:"port,omitempty" jsonschema:"description=Bulb UDP port (default 4000)"`
}

// TurnOffBulbInput is the input for the turn_off_bulb tool
type TurnOffBulbInput struct {
	Host string `json:"host,omitempty" jsonschema:"description=Bulb IP address (defaults to the configured bulb)"`
	Port int    `json:"port,omitempty" jsonschema:"description=Bulb UDP port (default 4000)"`
}

// SetBrightnessInput is the input for the set_bulb_brightness tool
type SetBrightnessInput struct {
	Brightness int    `json:"brightness" jsonschema:"required,description=Brightness level 0-100"`
	Host       string `json:"host,omitempty" jsonschema:"description=Bulb IP address (defaults to the configured bulb)"`
	Port       int    `json:"port,omitempty" jsonschema:"description=Bulb UDP port (default 4000)"`
}

// SetColorInput is the input for the set_bulb_color tool
type SetColorInput struct {
	Color string `json:"color" jsonschema:"required,description=Hex color like #FF8800"`
	Host  string `json:"host,omitempty" jsonschema:"description=Bulb IP address (defaults to the configured bulb)"`
	Port  int    `json:"port,omitempty" jsonschema:"description=Bulb UDP port (default 4000)"`
}

// SetStateInput is the input for the set_bulb_state tool
type SetStateInput struct {
	State map[string]any `json:"state" jsonschema:"required,description=State properties to set (any of power, brightness, color)"`
	Host  string         `json:"host,omitempty" jsonschema:"description=Bulb IP address (defaults to the configured bulb)"`
	Port  int            `json:"port,omitempty" jsonschema:"description=Bulb UDP port (default 4000)"`
}

// --- Status Tools ---

// GetStatusInput is the input for the get_bulb_status tool
type GetStatusInput struct {
	Host string `json:"host,omitempty" jsonschema:"description=Bulb IP address (defaults to the configured bulb)"`
	Port int    `json:"port,omitempty" jsonschema:"description=Bulb UDP port (default 4000)"`
}

// GetStatusOutput is the output for the get_bulb_status tool
type GetStatusOutput struct {
	Bulb   string      `json:"bulb" jsonschema:"description=Bulb address as host:port"`
	Status bulb.Status `json:"status" jsonschema:"description=Latest bulb state snapshot"`
}

// GetAllStatusesOutput is the output for the get_all_bulb_statuses tool
type GetAllStatusesOutput struct {
	Bulbs []discovery.BulbStatus `json:"bulbs" jsonschema:"description=Status of every connected bulb"`
	Count int                    `json:"count" jsonschema:"description=Number of connected bulbs"`
}

// --- Ping Tool ---

// PingBulbInput is the input for the ping_bulb tool
type PingBulbInput struct {
	Host string `json:"host,omitempty" jsonschema:"description=Bulb IP address (defaults to the configured bulb)"`
	Port int    `json:"port,omitempty" jsonschema:"description=Bulb UDP port (default 4000)"`
}

// PingBulbOutput is the output for the ping_bulb tool
type PingBulbOutput struct {
	Bulb           string  `json:"bulb" jsonschema:"description=Bulb address as host:port"`
	Reachable      bool    `json:"reachable" jsonschema:"description=Whether the bulb answered"`
	ResponseTimeMS float64 `json:"response_time_ms" jsonschema:"description=Round-trip time in milliseconds"`
}

// BulbToInfo converts a discovery result to BulbInfo
func BulbToInfo(b discovery.Bulb) BulbInfo {
	return BulbInfo{
		Address:        b.Addr.String(),
		ResponseTimeMS: float64(b.ResponseTime.Microseconds()) / 1000,
	}
}
