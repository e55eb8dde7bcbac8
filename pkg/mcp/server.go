package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/urmzd/intelliglow/pkg/bulb"
	"github.com/urmzd/intelliglow/pkg/bulb/schema"
	"github.com/urmzd/intelliglow/pkg/discovery"
)

// Server wraps the MCP server with IntelliGlow's bulb control functionality.
type Server struct {
	mcpServer *server.MCPServer
	registry  *discovery.Registry
	scanner   *discovery.Scanner
	validator *schema.Validator

	// defaultBulb is the address tools fall back to when no host/port is
	// given. Sourced once at startup from configuration; nil when no
	// default bulb is configured.
	defaultBulb *bulb.Addr

	// scanPorts is the port range discover_bulbs probes. The zero value
	// means the scanner default.
	scanPorts discovery.PortRange
}

// NewServer creates a new MCP server for bulb control.
func NewServer(registry *discovery.Registry, scanner *discovery.Scanner, validator *schema.Validator, defaultBulb *bulb.Addr, scanPorts discovery.PortRange) *Server {
	s := &Server{
		registry:    registry,
		scanner:     scanner,
		validator:   validator,
		defaultBulb: defaultBulb,
		scanPorts:   scanPorts,
	}

	// Create MCP server
	s.mcpServer = server.NewMCPServer(
		"intelliglow",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Register all tools
	s.registerTools()

	return s
}

// ServeStdio starts the MCP server using stdio transport.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
