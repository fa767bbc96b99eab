package types

import (
	"time"

	"github.com/urmzd/butler/pkg/auth"
	"github.com/urmzd/butler/pkg/device"
)

// --- Request DTOs ---

// CreateSessionRequest is the request body for POST /sessions
type CreateSessionRequest struct {
	Caller auth.Caller `json:"caller" binding:"required"`
}

// --- Response DTOs ---

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// StatusResponse is returned from GET /status
type StatusResponse struct {
	Devices   map[string]device.StatusResult `json:"devices"`
	Timestamp time.Time                      `json:"timestamp"`
}

// ExecuteResponse is returned from POST /device/:type/:command
type ExecuteResponse struct {
	Device    string    `json:"device"`
	Command   string    `json:"command"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionResponse is returned from POST /sessions
type SessionResponse struct {
	Token     string    `json:"token"`
	CallerID  int64     `json:"caller_id"`
	CreatedAt time.Time `json:"created_at"`
}

// RevokeAllResponse is returned from DELETE /callers/:id/sessions
type RevokeAllResponse struct {
	Revoked int `json:"revoked"`
}
