package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/urmzd/butler/pkg/device"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	registry *device.Registry
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(registry *device.Registry) *HealthHandler {
	return &HealthHandler{registry: registry}
}

// Health handles GET /health
// @Summary      Health check
// @Description  Pings every adapter and reports the aggregate health
// @Tags         health
// @Produce      json
// @Success      200  {object}  device.HealthReport  "All adapters online"
// @Failure      503  {object}  device.HealthReport  "One or more adapters offline"
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	report := h.registry.HealthCheck(c.Request.Context())

	httpStatus := http.StatusOK
	if report.Overall != device.HealthHealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, report)
}
