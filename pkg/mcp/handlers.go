package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/urmzd/intelliglow/pkg/bulb"
)

func (s *Server) handleGetHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	connected := s.registry.Len()

	status := "healthy"
	if s.defaultBulb != nil && !s.registry.IsConnected(*s.defaultBulb) {
		status = "degraded"
	}

	out := GetHealthOutput{
		Status:         status,
		ConnectedBulbs: connected,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}

	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleDiscoverBulbs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	timeout := bulb.DefaultTimeout
	if v, ok := request.GetArguments()["timeout_seconds"]; ok {
		if f, ok := v.(float64); ok && f > 0 {
			timeout = time.Duration(f * float64(time.Second))
		}
	}

	bulbs, err := s.scanner.Discover(ctx, timeout, s.scanPorts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("discovery failed: %s", err)), nil
	}

	infos := make([]BulbInfo, 0, len(bulbs))
	for _, b := range bulbs {
		infos = append(infos, BulbToInfo(b))
	}

	out := DiscoverBulbsOutput{
		Bulbs: infos,
		Count: len(infos),
	}

	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleConnectBulb(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	host, err := requiredString(request, "host")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	addr := bulb.Addr{Host: host, Port: optionalPort(request)}

	c, err := s.registry.Connect(ctx, addr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to connect to bulb %s: %s", addr, err)), nil
	}

	out := ConnectBulbOutput{
		Success: true,
		Bulb:    addr.String(),
		Status:  c.LastStatus(),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleDisconnectBulb(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	host, err := requiredString(request, "host")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	addr := bulb.Addr{Host: host, Port: optionalPort(request)}

	removed := s.registry.Disconnect(addr)
	msg := fmt.Sprintf("Disconnected from bulb %s", addr)
	if !removed {
		msg = fmt.Sprintf("No connection to bulb %s", addr)
	}

	out := DisconnectBulbOutput{
		Success: removed,
		Message: msg,
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleTurnOnBulb(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, err := s.resolveClient(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := c.TurnOn(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to turn on bulb: %s", err)), nil
	}

	return s.controlResult(ctx, c), nil
}

func (s *Server) handleTurnOffBulb(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, err := s.resolveClient(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := c.TurnOff(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to turn off bulb: %s", err)), nil
	}

	return s.controlResult(ctx, c), nil
}

func (s *Server) handleSetBrightness(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, ok := request.GetArguments()["brightness"]
	if !ok {
		return mcp.NewToolResultError(`required parameter "brightness" is missing`), nil
	}
	f, ok := v.(float64)
	if !ok {
		return mcp.NewToolResultError(`parameter "brightness" must be a number`), nil
	}

	c, err := s.resolveClient(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := c.SetBrightness(ctx, int(f)); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to set brightness: %s", err)), nil
	}

	return s.controlResult(ctx, c), nil
}

func (s *Server) handleSetColor(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hex, err := requiredString(request, "color")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	c, err := s.resolveClient(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := c.SetColorHex(ctx, hex); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to set color: %s", err)), nil
	}

	return s.controlResult(ctx, c), nil
}

func (s *Server) handleSetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stateRaw, ok := request.GetArguments()["state"]
	if !ok {
		return mcp.NewToolResultError(`required parameter "state" is missing`), nil
	}
	state, ok := stateRaw.(map[string]any)
	if !ok {
		return mcp.NewToolResultError(`parameter "state" must be an object`), nil
	}

	// Validate up front so a bad payload sends nothing at all.
	if err := s.validator.ValidateState(state); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("validation error: %s", err)), nil
	}

	c, err := s.resolveClient(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := c.ApplyState(ctx, state); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to set bulb state: %s", err)), nil
	}

	return s.controlResult(ctx, c), nil
}

func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, err := s.resolveClient(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	status, err := c.GetStatus(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get bulb status: %s", err)), nil
	}

	out := GetStatusOutput{
		Bulb:   c.Addr().String(),
		Status: status,
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleGetAllStatuses(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	statuses := s.registry.GetAllStatuses(ctx)

	out := GetAllStatusesOutput{
		Bulbs: statuses,
		Count: len(statuses),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handlePingBulb(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, err := s.resolveClient(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	start := time.Now()
	pingErr := c.Ping(ctx)
	rtt := time.Since(start)

	out := PingBulbOutput{
		Bulb:      c.Addr().String(),
		Reachable: pingErr == nil,
	}
	if pingErr == nil {
		out.ResponseTimeMS = float64(rtt.Microseconds()) / 1000
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// --- helpers ---

// resolveClient turns the optional host/port arguments into a live client.
// Without a host the configured default bulb is used; connections are
// established on demand through the registry.
func (s *Server) resolveClient(ctx context.Context, request mcp.CallToolRequest) (*bulb.Client, error) {
	args := request.GetArguments()

	host := ""
	if v, ok := args["host"].(string); ok {
		host = v
	}

	var addr bulb.Addr
	if host != "" {
		addr = bulb.Addr{Host: host, Port: optionalPort(request)}
	} else {
		if s.defaultBulb == nil {
			return nil, fmt.Errorf("no host given and no default bulb is configured")
		}
		addr = *s.defaultBulb
	}

	c, err := s.registry.Connect(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to bulb %s: %s", addr, err)
	}
	return c, nil
}

// controlResult builds the standard mutation result: the bulb address plus a
// freshly fetched state snapshot.
func (s *Server) controlResult(ctx context.Context, c *bulb.Client) *mcp.CallToolResult {
	status, _ := c.GetStatus(ctx)
	out := ControlOutput{
		Bulb:   c.Addr().String(),
		Status: status,
	}
	return mcp.NewToolResultText(formatJSON(out))
}

func requiredString(request mcp.CallToolRequest, key string) (string, error) {
	args := request.GetArguments()
	v, ok := args[key]
	if !ok || v == nil {
		return "", fmt.Errorf("required parameter %q is missing", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("parameter %q must be a non-empty string", key)
	}
	return s, nil
}

func optionalPort(request mcp.CallToolRequest) int {
	if v, ok := request.GetArguments()["port"]; ok {
		if f, ok := v.(float64); ok && f > 0 {
			return int(f)
		}
	}
	return bulb.DefaultPort
}

func formatJSON(v any) string {
	b, err := encodeJSON(v)
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal response: %s"}`, err)
	}
	return string(b)
}

func encodeJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
