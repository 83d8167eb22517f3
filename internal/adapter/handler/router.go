package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/johnquangdev/standup-assistant/pkg/config"
	"github.com/johnquangdev/standup-assistant/pkg/middleware"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	standupHandler *Standup
	rosterHandler  *Roster
	archiveHandler *Archive
	roomHandler    *Room
	webhookHandler *WebhookHandler
}

// NewRouter creates a new router. Any handler may be nil; its routes then answer 501.
func NewRouter(cfg *config.Config, standupHandler *Standup, rosterHandler *Roster, archiveHandler *Archive, roomHandler *Room, webhookHandler *WebhookHandler) *Router {
	return &Router{
		cfg:            cfg,
		standupHandler: standupHandler,
		rosterHandler:  rosterHandler,
		archiveHandler: archiveHandler,
		roomHandler:    roomHandler,
		webhookHandler: webhookHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupRosterRoutes(v1)
	rt.setupStandupRoutes(v1)
	rt.setupArchiveRoutes(v1)
	rt.setupWebhookRoutes(v1)
}

// setupRosterRoutes configures roster editing routes
func (rt *Router) setupRosterRoutes(g *echo.Group) {
	team := g.Group("/teams/:team", middleware.RequireTeam())

	if rt.rosterHandler != nil {
		team.GET("/roster", rt.rosterHandler.Get)
		team.PUT("/roster", rt.rosterHandler.Put)
	} else {
		team.GET("/roster", rt.notImplemented)
		team.PUT("/roster", rt.notImplemented)
	}
}

// setupStandupRoutes configures standup command routes
func (rt *Router) setupStandupRoutes(g *echo.Group) {
	s := g.Group("/teams/:team/standup", middleware.RequireTeam())

	if h := rt.standupHandler; h != nil {
		s.GET("", h.Snapshot)
		s.POST("/start", h.Start)
		s.POST("/done", h.Done)
		s.POST("/end", h.End)
		s.POST("/fragments", h.Fragment)
		s.POST("/speech-ack", h.SpeechAck)
		s.POST("/audio", h.Audio)
		s.POST("/notify", h.Notify)
		s.GET("/summary", h.Summary)
	} else {
		s.Any("*", rt.notImplemented)
	}

	if rt.roomHandler != nil {
		s.POST("/livekit-token", rt.roomHandler.Token)
	} else {
		s.POST("/livekit-token", rt.notImplemented)
	}
}

// setupArchiveRoutes configures archived standup routes
func (rt *Router) setupArchiveRoutes(g *echo.Group) {
	if rt.archiveHandler != nil {
		g.GET("/standups/:id", rt.archiveHandler.Get)
		g.GET("/teams/:team/standups", rt.archiveHandler.List, middleware.RequireTeam())
	} else {
		g.GET("/standups/:id", rt.notImplemented)
		g.GET("/teams/:team/standups", rt.notImplemented)
	}
}

// setupWebhookRoutes configures LiveKit webhook routes
func (rt *Router) setupWebhookRoutes(g *echo.Group) {
	if rt.webhookHandler != nil {
		g.POST("/webhooks/livekit", rt.webhookHandler.HandleLiveKitWebhook)
	}
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":   "This endpoint is not available",
		"path":    c.Request().URL.Path,
		"method":  c.Request().Method,
		"message": "The backing service is not configured",
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	env := "production"
	if rt.cfg != nil {
		env = rt.cfg.Server.Environment
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": env,
	})
}
