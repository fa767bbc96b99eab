package api

import (
	"github.com/gin-gonic/gin"

	"github.com/urmzd/butler/pkg/api/handlers"
	"github.com/urmzd/butler/pkg/auth"
	"github.com/urmzd/butler/pkg/command"
	"github.com/urmzd/butler/pkg/device"
	"github.com/urmzd/butler/pkg/device/schema"
)

// Router holds the Gin engine and dependencies
type Router struct {
	engine       *gin.Engine
	registry     *device.Registry
	orchestrator *command.Orchestrator
	auth         *auth.Service
	validator    *schema.Validator
}

// NewRouter creates a new API router
func NewRouter(registry *device.Registry, orchestrator *command.Orchestrator, authSvc *auth.Service, validator *schema.Validator) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	SetupMiddleware(engine)

	router := &Router{
		engine:       engine,
		registry:     registry,
		orchestrator: orchestrator,
		auth:         authSvc,
		validator:    validator,
	}

	router.setupRoutes()

	return router
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	// Health check at root
	healthHandler := handlers.NewHealthHandler(r.registry)
	r.engine.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.engine.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.Health)

		// Device status and direct control
		statusHandler := handlers.NewStatusHandler(r.registry)
		v1.GET("/status", statusHandler.Status)

		controlHandler := handlers.NewControlHandler(r.registry, r.validator)
		v1.POST("/device/:type/:command", controlHandler.Execute)

		// Inbound events from the chat/webhook transport
		eventHandler := handlers.NewEventHandler(r.orchestrator)
		v1.POST("/event", WebhookSecret(r.auth), eventHandler.Handle)

		// Sessions and security
		sessionHandler := handlers.NewSessionHandler(r.auth)
		v1.POST("/sessions", sessionHandler.Create)
		v1.DELETE("/sessions/:token", sessionHandler.Revoke)
		v1.DELETE("/callers/:id/sessions", sessionHandler.RevokeAll)
		v1.GET("/security/stats", sessionHandler.Stats)
	}
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}

// Handler exposes the engine for servers that manage their own listener.
func (r *Router) Handler() *gin.Engine {
	return r.engine
}
