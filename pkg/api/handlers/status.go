package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/urmzd/butler/pkg/api/types"
	"github.com/urmzd/butler/pkg/device"
)

// StatusHandler serves the aggregated device snapshot.
type StatusHandler struct {
	registry *device.Registry
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(registry *device.Registry) *StatusHandler {
	return &StatusHandler{registry: registry}
}

// Status handles GET /status
// @Summary      Device status
// @Description  Returns the latest snapshot from every adapter; unreachable adapters appear as their own entries
// @Tags         status
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Router       /api/v1/status [get]
func (h *StatusHandler) Status(c *gin.Context) {
	results := h.registry.StatusAll(c.Request.Context())

	c.JSON(http.StatusOK, types.StatusResponse{
		Devices:   results,
		Timestamp: time.Now(),
	})
}
