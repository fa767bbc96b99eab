package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/urmzd/butler/pkg/api/types"
	"github.com/urmzd/butler/pkg/device"
	"github.com/urmzd/butler/pkg/device/schema"
)

// ControlHandler handles direct device command endpoints
type ControlHandler struct {
	registry  *device.Registry
	validator *schema.Validator
}

// NewControlHandler creates a new control handler
func NewControlHandler(registry *device.Registry, validator *schema.Validator) *ControlHandler {
	return &ControlHandler{registry: registry, validator: validator}
}

// Execute handles POST /device/:type/:command
// @Summary      Execute device command
// @Description  Validates the JSON parameter body against the per-command schema, then dispatches through the registry
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        type     path  string  true  "Device type (lights, tv, vacuum)"
// @Param        command  path  string  true  "Command name"
// @Success      200  {object}  types.ExecuteResponse
// @Failure      400  {object}  types.ErrorResponse  "Invalid body or parameters"
// @Failure      404  {object}  types.ErrorResponse  "Unknown device or command"
// @Failure      409  {object}  types.ErrorResponse  "Command refused in current state"
// @Failure      503  {object}  types.ErrorResponse  "Adapter offline"
// @Failure      504  {object}  types.ErrorResponse  "Adapter timed out"
// @Router       /api/v1/device/{type}/{command} [post]
func (h *ControlHandler) Execute(c *gin.Context) {
	deviceType := c.Param("type")
	cmd := c.Param("command")
	ctx := c.Request.Context()

	params := map[string]any{}
	if err := json.NewDecoder(c.Request.Body).Decode(&params); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	if err := h.validator.ValidateCommand(deviceType, cmd, params); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	if err := h.registry.Execute(ctx, deviceType, cmd, params); err != nil {
		status, code := executeStatus(err)
		c.JSON(status, types.ErrorResponse{
			Error:   code,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.ExecuteResponse{
		Device:    deviceType,
		Command:   cmd,
		Timestamp: time.Now(),
	})
}

// executeStatus maps dispatcher errors onto HTTP statuses.
func executeStatus(err error) (int, string) {
	switch {
	case errors.Is(err, device.ErrUnknownDevice):
		return http.StatusNotFound, "unknown_device"
	case errors.Is(err, device.ErrUnknownCommand):
		return http.StatusNotFound, "unknown_command"
	case errors.Is(err, device.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, device.ErrNotAllowed):
		return http.StatusConflict, "not_allowed"
	case errors.Is(err, device.ErrTimeout):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, device.ErrOffline):
		return http.StatusServiceUnavailable, "offline"
	default:
		return http.StatusInternalServerError, "device_error"
	}
}
