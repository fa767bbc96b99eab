package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/urmzd/butler/pkg/command"
	"github.com/urmzd/butler/pkg/device"
	"github.com/urmzd/butler/pkg/device/schema"
)

// Server wraps the MCP server with Butler's command-dispatch core. The
// stdio transport is local and trusted, so tool calls bypass the caller
// gates and talk to the dispatcher directly.
type Server struct {
	mcpServer    *server.MCPServer
	registry     *device.Registry
	orchestrator *command.Orchestrator
	validator    *schema.Validator
}

// NewServer creates a new MCP server for home control
func NewServer(registry *device.Registry, orchestrator *command.Orchestrator, validator *schema.Validator) *Server {
	s := &Server{
		registry:     registry,
		orchestrator: orchestrator,
		validator:    validator,
	}

	s.mcpServer = server.NewMCPServer(
		"butler",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerTools()

	return s
}

// ServeStdio starts the MCP server using stdio transport
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
