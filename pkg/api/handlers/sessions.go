package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/urmzd/butler/pkg/api/types"
	"github.com/urmzd/butler/pkg/auth"
)

// SessionHandler serves session issuance, revocation and security stats.
type SessionHandler struct {
	auth *auth.Service
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(authSvc *auth.Service) *SessionHandler {
	return &SessionHandler{auth: authSvc}
}

// Create handles POST /sessions
// @Summary      Issue session token
// @Description  Runs the caller through the same authorize gate as any command; a denied caller gets no token
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Success      201  {object}  types.SessionResponse
// @Failure      400  {object}  types.ErrorResponse  "Invalid request body"
// @Failure      403  {object}  types.ErrorResponse  "Caller not allowed"
// @Router       /api/v1/sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	var req types.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	if !h.auth.Authorize(req.Caller) {
		c.JSON(http.StatusForbidden, types.ErrorResponse{
			Error:   "unauthorized",
			Message: "Caller is not allowed",
		})
		return
	}

	token, err := h.auth.IssueToken(req.Caller.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "token_error",
			Message: "Failed to issue token",
		})
		return
	}

	c.JSON(http.StatusCreated, types.SessionResponse{
		Token:     token,
		CallerID:  req.Caller.ID,
		CreatedAt: time.Now(),
	})
}

// Revoke handles DELETE /sessions/:token
// @Summary      Revoke session token
// @Tags         sessions
// @Produce      json
// @Param        token  path  string  true  "Session token"
// @Success      204  "Token revoked"
// @Failure      404  {object}  types.ErrorResponse  "Unknown or expired token"
// @Router       /api/v1/sessions/{token} [delete]
func (h *SessionHandler) Revoke(c *gin.Context) {
	if !h.auth.RevokeToken(c.Param("token")) {
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   "not_found",
			Message: "Unknown or expired token",
		})
		return
	}
	c.Status(http.StatusNoContent)
}

// RevokeAll handles DELETE /callers/:id/sessions
// @Summary      Revoke all caller sessions
// @Tags         sessions
// @Produce      json
// @Param        id  path  int  true  "Caller id"
// @Success      200  {object}  types.RevokeAllResponse
// @Failure      400  {object}  types.ErrorResponse  "Caller id must be an integer"
// @Router       /api/v1/callers/{id}/sessions [delete]
func (h *SessionHandler) RevokeAll(c *gin.Context) {
	callerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "Caller id must be an integer",
		})
		return
	}

	revoked := h.auth.RevokeAll(callerID)
	c.JSON(http.StatusOK, types.RevokeAllResponse{Revoked: revoked})
}

// Stats handles GET /security/stats
// @Summary      Security statistics
// @Description  Active sessions, locked-out callers and recorded failures
// @Tags         sessions
// @Produce      json
// @Success      200  {object}  auth.Stats
// @Router       /api/v1/security/stats [get]
func (h *SessionHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.auth.SecurityStats())
}
