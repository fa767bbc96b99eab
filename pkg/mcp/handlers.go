package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/urmzd/butler/pkg/intent"
)

func (s *Server) handleGetHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report := s.registry.HealthCheck(ctx)
	return mcp.NewToolResultText(formatJSON(report)), nil
}

func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	results := s.registry.StatusAll(ctx)

	out := GetStatusOutput{
		Devices: results,
		Count:   len(results),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleExecuteCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deviceType, err := requiredString(request, "device")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cmd, err := requiredString(request, "command")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	params := map[string]any{}
	if raw, ok := request.GetArguments()["params"]; ok {
		if pm, ok := raw.(map[string]any); ok {
			params = pm
		}
	}

	if err := s.validator.ValidateCommand(deviceType, cmd, params); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("validation error: %s", err)), nil
	}

	if err := s.registry.Execute(ctx, deviceType, cmd, params); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("command failed: %s", err)), nil
	}

	out := ExecuteCommandOutput{
		Success: true,
		Device:  deviceType,
		Command: cmd,
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleInterpret(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := requiredString(request, "text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	in := intent.Parse(text)

	out := InterpretOutput{
		Device:     string(in.Device),
		Action:     in.Action,
		Room:       in.Room,
		Value:      in.Value,
		Understood: in.Device != intent.DeviceUnknown,
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleSendCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := requiredString(request, "text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	outcome := s.orchestrator.Execute(ctx, intent.Parse(text))
	if !outcome.Success {
		return mcp.NewToolResultError(outcome.Message), nil
	}
	return mcp.NewToolResultText(formatJSON(outcome)), nil
}

// --- helpers ---

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

func formatJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal response: %s"}`, err)
	}
	return string(b)
}
