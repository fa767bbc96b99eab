package schema

import "encoding/json"

// Command parameter schemas for the HTTP control surface, keyed by
// device type then command. An absent entry means the command takes no
// parameters; the empty-schema fast path in Validate covers it.
var commandSchemas = map[string]map[string]json.RawMessage{
	"lights": {
		"toggle": json.RawMessage(`{
			"$schema": "https://json-schema.org/draft/2020-12/schema",
			"type": "object",
			"properties": {
				"room": {"type": "string", "enum": ["hallway", "kitchen", "room", "bathroom", "toilet"]},
				"state": {"type": "boolean"}
			},
			"required": ["room", "state"],
			"additionalProperties": false
		}`),
		"set_brightness": json.RawMessage(`{
			"$schema": "https://json-schema.org/draft/2020-12/schema",
			"type": "object",
			"properties": {
				"room": {"type": "string", "enum": ["hallway", "kitchen", "room", "bathroom", "toilet"]},
				"brightness": {"type": "number", "minimum": 0, "maximum": 100}
			},
			"required": ["room", "brightness"],
			"additionalProperties": false
		}`),
		"toggle_all": json.RawMessage(`{
			"$schema": "https://json-schema.org/draft/2020-12/schema",
			"type": "object",
			"properties": {
				"state": {"type": "boolean"}
			},
			"required": ["state"],
			"additionalProperties": false
		}`),
	},
	"tv": {
		"launch_app": json.RawMessage(`{
			"$schema": "https://json-schema.org/draft/2020-12/schema",
			"type": "object",
			"properties": {
				"app": {"type": "string", "enum": ["netflix", "youtube"]}
			},
			"required": ["app"],
			"additionalProperties": false
		}`),
		"volume": json.RawMessage(`{
			"$schema": "https://json-schema.org/draft/2020-12/schema",
			"type": "object",
			"properties": {
				"action": {"type": "string", "pattern": "^(up|down|[0-9]{1,3})$"}
			},
			"required": ["action"],
			"additionalProperties": false
		}`),
	},
	"vacuum": {
		"set_fan_power": json.RawMessage(`{
			"$schema": "https://json-schema.org/draft/2020-12/schema",
			"type": "object",
			"properties": {
				"power": {"type": "number", "minimum": 0, "maximum": 100}
			},
			"required": ["power"],
			"additionalProperties": false
		}`),
	},
}

// ForCommand returns the parameter schema for a device command, or nil
// when the command takes no parameters.
func ForCommand(deviceType, command string) json.RawMessage {
	if byCommand, ok := commandSchemas[deviceType]; ok {
		return byCommand[command]
	}
	return nil
}
