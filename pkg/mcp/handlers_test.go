package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/urmzd/intelliglow/pkg/bulb"
	"github.com/urmzd/intelliglow/pkg/bulb/bulbtest"
	"github.com/urmzd/intelliglow/pkg/bulb/schema"
	"github.com/urmzd/intelliglow/pkg/discovery"
)

func newTestServer(t *testing.T, defaultBulb *bulb.Addr) *Server {
	t.Helper()
	registry := discovery.NewRegistry()
	t.Cleanup(registry.CloseAll)
	return NewServer(registry, discovery.NewScanner(), schema.NewValidator(), defaultBulb, discovery.PortRange{})
}

func callRequest(args map[string]any) mcpgo.CallToolRequest {
	req := mcpgo.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcpgo.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := result.Content[0].(mcpgo.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", result.Content[0])
	}
	return tc.Text
}

func TestTurnOnDefaultBulb(t *testing.T) {
	srv := bulbtest.Start(t)
	defer srv.Close()

	addr := bulb.Addr{Host: srv.Host(), Port: srv.Port()}
	s := newTestServer(t, &addr)

	result, err := s.handleTurnOnBulb(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("tool error: %s", resultText(t, result))
	}

	var out ControlOutput
	if err := json.Unmarshal([]byte(resultText(t, result)), &out); err != nil {
		t.Fatal(err)
	}
	if out.Bulb != addr.String() {
		t.Errorf("bulb = %s, want %s", out.Bulb, addr)
	}
	if !out.Status.Power {
		t.Error("bulb should report power on")
	}
}

func TestTurnOnWithoutDefaultBulb(t *testing.T) {
	s := newTestServer(t, nil)

	result, err := s.handleTurnOnBulb(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Fatal("expected tool error without host or default bulb")
	}
	if !strings.Contains(resultText(t, result), "no default bulb") {
		t.Errorf("unexpected error text: %s", resultText(t, result))
	}
}

func TestConnectAndDisconnect(t *testing.T) {
	srv := bulbtest.Start(t)
	defer srv.Close()

	s := newTestServer(t, nil)
	args := map[string]any{"host": srv.Host(), "port": float64(srv.Port())}

	result, err := s.handleConnectBulb(context.Background(), callRequest(args))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("connect failed: %s", resultText(t, result))
	}
	if s.registry.Len() != 1 {
		t.Fatalf("registry len = %d, want 1", s.registry.Len())
	}

	result, err = s.handleDisconnectBulb(context.Background(), callRequest(args))
	if err != nil {
		t.Fatal(err)
	}
	var out DisconnectBulbOutput
	if err := json.Unmarshal([]byte(resultText(t, result)), &out); err != nil {
		t.Fatal(err)
	}
	if !out.Success {
		t.Error("disconnect should report success")
	}
	if s.registry.Len() != 0 {
		t.Errorf("registry len = %d after disconnect", s.registry.Len())
	}
}

func TestConnectMissingHost(t *testing.T) {
	s := newTestServer(t, nil)

	result, err := s.handleConnectBulb(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Fatal("expected tool error for missing host")
	}
}

func TestSetStateValidatesBeforeSending(t *testing.T) {
	srv := bulbtest.Start(t)
	defer srv.Close()

	addr := bulb.Addr{Host: srv.Host(), Port: srv.Port()}
	s := newTestServer(t, &addr)

	result, err := s.handleSetState(context.Background(), callRequest(map[string]any{
		"state": map[string]any{"brightness": float64(500)},
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Fatal("expected validation error")
	}
	// Validation failed before any connection was made.
	if srv.Received() != 0 {
		t.Errorf("bulb received %d datagrams, want 0", srv.Received())
	}
}

func TestSetStateComposite(t *testing.T) {
	srv := bulbtest.Start(t)
	defer srv.Close()

	addr := bulb.Addr{Host: srv.Host(), Port: srv.Port()}
	s := newTestServer(t, &addr)

	result, err := s.handleSetState(context.Background(), callRequest(map[string]any{
		"state": map[string]any{
			"power":      true,
			"brightness": float64(80),
			"color":      map[string]any{"r": float64(255), "g": float64(128), "b": float64(0)},
		},
	}))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("set state failed: %s", resultText(t, result))
	}

	var out ControlOutput
	if err := json.Unmarshal([]byte(resultText(t, result)), &out); err != nil {
		t.Fatal(err)
	}
	if !out.Status.Power || out.Status.Brightness != 80 {
		t.Errorf("status = %+v", out.Status)
	}
	if out.Status.Color.Hex() != "#FF8000" {
		t.Errorf("color = %s, want #FF8000", out.Status.Color.Hex())
	}
}

func TestSetColorInvalidHex(t *testing.T) {
	srv := bulbtest.Start(t)
	defer srv.Close()

	addr := bulb.Addr{Host: srv.Host(), Port: srv.Port()}
	s := newTestServer(t, &addr)

	result, err := s.handleSetColor(context.Background(), callRequest(map[string]any{
		"color": "#GGGGGG",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Fatal("expected tool error for bad hex color")
	}
}

func TestGetAllStatuses(t *testing.T) {
	srv1 := bulbtest.Start(t)
	defer srv1.Close()
	srv2 := bulbtest.Start(t)
	defer srv2.Close()

	s := newTestServer(t, nil)
	ctx := context.Background()
	for _, srv := range []*bulbtest.Server{srv1, srv2} {
		if _, err := s.registry.Connect(ctx, bulb.Addr{Host: srv.Host(), Port: srv.Port()}); err != nil {
			t.Fatal(err)
		}
	}

	result, err := s.handleGetAllStatuses(ctx, callRequest(nil))
	if err != nil {
		t.Fatal(err)
	}

	var out GetAllStatusesOutput
	if err := json.Unmarshal([]byte(resultText(t, result)), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 2 {
		t.Errorf("count = %d, want 2", out.Count)
	}
}

func TestPingBulb(t *testing.T) {
	srv := bulbtest.Start(t)
	defer srv.Close()

	addr := bulb.Addr{Host: srv.Host(), Port: srv.Port()}
	s := newTestServer(t, &addr)

	result, err := s.handlePingBulb(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatal(err)
	}

	var out PingBulbOutput
	if err := json.Unmarshal([]byte(resultText(t, result)), &out); err != nil {
		t.Fatal(err)
	}
	if !out.Reachable {
		t.Error("bulb should be reachable")
	}
	if out.ResponseTimeMS <= 0 {
		t.Errorf("response time = %v, want > 0", out.ResponseTimeMS)
	}
}

func TestGetHealth(t *testing.T) {
	srv := bulbtest.Start(t)
	defer srv.Close()

	addr := bulb.Addr{Host: srv.Host(), Port: srv.Port()}
	s := newTestServer(t, &addr)

	// Default bulb not connected yet: degraded.
	result, err := s.handleGetHealth(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatal(err)
	}
	var out GetHealthOutput
	if err := json.Unmarshal([]byte(resultText(t, result)), &out); err != nil {
		t.Fatal(err)
	}
	if out.Status != "degraded" {
		t.Errorf("status = %s, want degraded", out.Status)
	}

	if _, err := s.registry.Connect(context.Background(), addr); err != nil {
		t.Fatal(err)
	}

	result, err = s.handleGetHealth(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &out); err != nil {
		t.Fatal(err)
	}
	if out.Status != "healthy" || out.ConnectedBulbs != 1 {
		t.Errorf("health = %+v", out)
	}
}
