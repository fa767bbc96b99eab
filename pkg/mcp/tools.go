package mcp

import "github.com/mark3labs/mcp-go/mcp"

// registerTools registers all MCP tools with the server
func (s *Server) registerTools() {
	// Health check
	s.mcpServer.AddTool(
		mcp.NewTool("get_health",
			mcp.WithDescription("Check the health of every device adapter; overall status is degraded when any adapter is offline"),
		),
		s.handleGetHealth,
	)

	// Aggregated status
	s.mcpServer.AddTool(
		mcp.NewTool("get_status",
			mcp.WithDescription("Get the current state of all devices: per-room lights, TV power/app/volume, vacuum state and battery"),
		),
		s.handleGetStatus,
	)

	// Direct command execution
	s.mcpServer.AddTool(
		mcp.NewTool("execute_command",
			mcp.WithDescription("Execute a command on a device adapter"),
			mcp.WithString("device",
				mcp.Required(),
				mcp.Description("Device type: lights, tv or vacuum"),
			),
			mcp.WithString("command",
				mcp.Required(),
				mcp.Description("Command name, e.g. toggle, set_brightness, launch_app, start, dock"),
			),
			mcp.WithObject("params",
				mcp.Description("Command parameters, e.g. {\"room\": \"kitchen\", \"state\": true}"),
			),
		),
		s.handleExecuteCommand,
	)

	// Parser only
	s.mcpServer.AddTool(
		mcp.NewTool("interpret",
			mcp.WithDescription("Parse a natural-language utterance (Russian or English) into a canonical intent without executing it"),
			mcp.WithString("text",
				mcp.Required(),
				mcp.Description("Free-text command, e.g. \"включи свет на кухне\" or \"start vacuum\""),
			),
		),
		s.handleInterpret,
	)

	// Parse and dispatch
	s.mcpServer.AddTool(
		mcp.NewTool("send_command",
			mcp.WithDescription("Parse a natural-language utterance and execute the resulting command"),
			mcp.WithString("text",
				mcp.Required(),
				mcp.Description("Free-text command, e.g. \"выключи весь свет\" or \"tv netflix\""),
			),
		),
		s.handleSendCommand,
	)
}
