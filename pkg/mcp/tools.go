package mcp

import "github.com/mark3labs/mcp-go/mcp"

// registerTools registers all MCP tools with the server
func (s *Server) registerTools() {
	// Health check
	s.mcpServer.AddTool(
		mcp.NewTool("get_health",
			mcp.WithDescription("Check the health status of the IntelliGlow service and its bulb connections"),
		),
		s.handleGetHealth,
	)

	// Discover bulbs
	s.mcpServer.AddTool(
		mcp.NewTool("discover_bulbs",
			mcp.WithDescription("Scan the local network for IntelliGlow bulbs"),
			mcp.WithNumber("timeout_seconds",
				mcp.Description("Overall scan budget in seconds (default 5)"),
			),
		),
		s.handleDiscoverBulbs,
	)

	// Connect to bulb
	s.mcpServer.AddTool(
		mcp.NewTool("connect_to_bulb",
			mcp.WithDescription("Connect to a bulb at a specific address and register the connection"),
			mcp.WithString("host",
				mcp.Required(),
				mcp.Description("Bulb IP address or hostname"),
			),
			mcp.WithNumber("port",
				mcp.Description("Bulb UDP port (default 4000)"),
			),
		),
		s.handleConnectBulb,
	)

	// Disconnect bulb
	s.mcpServer.AddTool(
		mcp.NewTool("disconnect_bulb",
			mcp.WithDescription("Close the connection to a bulb and remove it from the registry"),
			mcp.WithString("host",
				mcp.Required(),
				mcp.Description("Bulb IP address or hostname"),
			),
			mcp.WithNumber("port",
				mcp.Description("Bulb UDP port (default 4000)"),
			),
		),
		s.handleDisconnectBulb,
	)

	// Turn on
	s.mcpServer.AddTool(
		mcp.NewTool("turn_on_bulb",
			mcp.WithDescription("Turn a bulb on"),
			mcp.WithString("host",
				mcp.Description("Bulb IP address (defaults to the configured bulb)"),
			),
			mcp.WithNumber("port",
				mcp.Description("Bulb UDP port (default 4000)"),
			),
		),
		s.handleTurnOnBulb,
	)

	// Turn off
	s.mcpServer.AddTool(
		mcp.NewTool("turn_off_bulb",
			mcp.WithDescription("Turn a bulb off"),
			mcp.WithString("host",
				mcp.Description("Bulb IP address (defaults to the configured bulb)"),
			),
			mcp.WithNumber("port",
				mcp.Description("Bulb UDP port (default 4000)"),
			),
		),
		s.handleTurnOffBulb,
	)

	// Set brightness
	s.mcpServer.AddTool(
		mcp.NewTool("set_bulb_brightness",
			mcp.WithDescription("Set a bulb's brightness level"),
			mcp.WithNumber("brightness",
				mcp.Required(),
				mcp.Description("Brightness level 0-100"),
			),
			mcp.WithString("host",
				mcp.Description("Bulb IP address (defaults to the configured bulb)"),
			),
			mcp.WithNumber("port",
				mcp.Description("Bulb UDP port (default 4000)"),
			),
		),
		s.handleSetBrightness,
	)

	// Set color
	s.mcpServer.AddTool(
		mcp.NewTool("set_bulb_color",
			mcp.WithDescription("Set a bulb's color from a hex string like #FF8800"),
			mcp.WithString("color",
				mcp.Required(),
				mcp.Description("Hex color, 6 digits, with or without a leading #"),
			),
			mcp.WithString("host",
				mcp.Description("Bulb IP address (defaults to the configured bulb)"),
			),
			mcp.WithNumber("port",
				mcp.Description("Bulb UDP port (default 4000)"),
			),
		),
		s.handleSetColor,
	)

	// Set composite state
	s.mcpServer.AddTool(
		mcp.NewTool("set_bulb_state",
			mcp.WithDescription("Set several bulb properties at once. Accepts any subset of power, brightness and color, validated before anything is sent."),
			mcp.WithObject("state",
				mcp.Required(),
				mcp.Description("State properties to set (e.g. {\"power\": true, \"brightness\": 80})"),
			),
			mcp.WithString("host",
				mcp.Description("Bulb IP address (defaults to the configured bulb)"),
			),
			mcp.WithNumber("port",
				mcp.Description("Bulb UDP port (default 4000)"),
			),
		),
		s.handleSetState,
	)

	// Get status
	s.mcpServer.AddTool(
		mcp.NewTool("get_bulb_status",
			mcp.WithDescription("Get the current state of a bulb (power, brightness, color, reachability)"),
			mcp.WithString("host",
				mcp.Description("Bulb IP address (defaults to the configured bulb)"),
			),
			mcp.WithNumber("port",
				mcp.Description("Bulb UDP port (default 4000)"),
			),
		),
		s.handleGetStatus,
	)

	// Get all statuses
	s.mcpServer.AddTool(
		mcp.NewTool("get_all_bulb_statuses",
			mcp.WithDescription("Get the current state of every connected bulb"),
		),
		s.handleGetAllStatuses,
	)

	// Ping
	s.mcpServer.AddTool(
		mcp.NewTool("ping_bulb",
			mcp.WithDescription("Check whether a bulb is reachable and measure the round-trip time"),
			mcp.WithString("host",
				mcp.Description("Bulb IP address (defaults to the configured bulb)"),
			),
			mcp.WithNumber("port",
				mcp.Description("Bulb UDP port (default 4000)"),
			),
		),
		s.handlePingBulb,
	)
}
