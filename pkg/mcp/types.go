package mcp

import "github.com/urmzd/butler/pkg/device"

// --- Get Status Tool ---

// GetStatusOutput is the output for the get_status tool
type GetStatusOutput struct {
	Devices map[string]device.StatusResult `json:"devices" jsonschema:"description=Per-adapter status snapshots"`
	Count   int                            `json:"count" jsonschema:"description=Number of registered adapters"`
}

// --- Execute Command Tool ---

// ExecuteCommandOutput is the output for the execute_command tool
type ExecuteCommandOutput struct {
	Success bool   `json:"success" jsonschema:"description=Whether the command executed"`
	Device  string `json:"device" jsonschema:"description=Device type the command ran against"`
	Command string `json:"command" jsonschema:"description=Command name"`
}

// --- Interpret Tool ---

// InterpretOutput is the output for the interpret tool
type InterpretOutput struct {
	Device     string `json:"device" jsonschema:"description=Resolved device type (light/tv/vacuum/status/unknown)"`
	Action     string `json:"action,omitempty" jsonschema:"description=Resolved action"`
	Room       string `json:"room,omitempty" jsonschema:"description=Resolved room for light commands"`
	Value      *int   `json:"value,omitempty" jsonschema:"description=Extracted numeric value (brightness/volume/fan power)"`
	Understood bool   `json:"understood" jsonschema:"description=Whether the utterance resolved to an executable intent"`
}
