package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/urmzd/butler/pkg/api/types"
	"github.com/urmzd/butler/pkg/command"
)

// EventHandler feeds inbound transport events into the orchestrator.
type EventHandler struct {
	orchestrator *command.Orchestrator
}

// NewEventHandler creates a new event handler
func NewEventHandler(orchestrator *command.Orchestrator) *EventHandler {
	return &EventHandler{orchestrator: orchestrator}
}

// Handle handles POST /event
// @Summary      Inbound transport event
// @Description  Runs the event through the full gate pipeline; gate rejections come back in the outcome code, not the HTTP status, so the transport can relay them to the end user
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        X-Webhook-Secret  header  string  false  "Shared transport secret"
// @Success      200  {object}  command.Outcome
// @Failure      400  {object}  types.ErrorResponse  "Malformed event body"
// @Failure      401  {object}  types.ErrorResponse  "Bad webhook secret"
// @Router       /api/v1/event [post]
func (h *EventHandler) Handle(c *gin.Context) {
	var ev command.Event
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid event body",
		})
		return
	}

	outcome := h.orchestrator.Handle(c.Request.Context(), ev)
	c.JSON(http.StatusOK, outcome)
}
