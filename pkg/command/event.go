package command

import "github.com/urmzd/butler/pkg/auth"

// Kind discriminates how an inbound event carries its payload.
type Kind string

const (
	KindCommand    Kind = "command"
	KindText       Kind = "text"
	KindTranscript Kind = "voice_transcript"
	KindCallback   Kind = "callback"
)

// Event is one inbound request from a transport. Exactly one payload
// field is meaningful per kind: Command/Args for KindCommand, Text for
// KindText and KindTranscript, CallbackID for KindCallback.
type Event struct {
	Caller     auth.Caller `json:"caller"`
	Kind       Kind        `json:"kind"`
	Command    string      `json:"command_name,omitempty"`
	Args       []string    `json:"args,omitempty"`
	Text       string      `json:"free_text,omitempty"`
	CallbackID string      `json:"callback_id,omitempty"`
}

// Code classifies an outcome for transports that branch on failure kind.
type Code string

const (
	CodeOK                Code = "ok"
	CodeUnauthorized      Code = "unauthorized"
	CodeRateLimited       Code = "rate_limited"
	CodeNotUnderstood     Code = "not_understood"
	CodeUnknownDevice     Code = "unknown_device"
	CodeAdapterTimeout    Code = "adapter_timeout"
	CodeAdapterFailure    Code = "adapter_failure"
	CodeValidationFailure Code = "validation_failure"
)

// Outcome is the single result type every transport renders. Message is
// always safe to show to the caller; Data carries structured snapshots
// for status and health requests.
type Outcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    Code   `json:"code"`
	Data    any    `json:"data,omitempty"`
}

func succeed(message string) Outcome {
	return Outcome{Success: true, Message: message, Code: CodeOK}
}

func fail(code Code, message string) Outcome {
	return Outcome{Success: false, Message: message, Code: code}
}
