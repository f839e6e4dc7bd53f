package router

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/websocket"

	"github.com/inkwave/inkchat/internal/config"
	"github.com/inkwave/inkchat/internal/gateway"
	"github.com/inkwave/inkchat/internal/handler"
	"github.com/inkwave/inkchat/internal/middleware"
)

// SetupRouter sets up all routes
func SetupRouter(h *server.Hertz, handlers *Handlers, wsServer *gateway.WsServer) {
	cfg := config.GlobalConfig

	// CORS middleware
	h.Use(middleware.CORS())

	// Health check
	h.GET("/health", func(ctx context.Context, c *app.RequestContext) {
		c.JSON(consts.StatusOK, map[string]string{"status": "ok"})
	})

	// Conversation routes (auth required)
	convGroup := h.Group("/conversations", middleware.JWTAuth())
	{
		convGroup.POST("", handlers.Conversation.Create)
		convGroup.GET("", handlers.Conversation.List)
		convGroup.GET("/:id", handlers.Conversation.Get)
		convGroup.GET("/:id/messages", handlers.Conversation.GetMessages)
		convGroup.POST("/:id/messages", handlers.Conversation.SendMessage)
	}

	// Message routes (auth required)
	msgGroup := h.Group("/messages", middleware.JWTAuth())
	{
		msgGroup.GET("/unread-count", handlers.Message.UnreadCount)
	}

	// WebSocket route using hertz-contrib/websocket with proper origin validation
	allowedOrigins := cfg.Server.AllowedOrigins
	upgrader := &websocket.HertzUpgrader{
		CheckOrigin: func(ctx *app.RequestContext) bool {
			return checkOrigin(ctx, allowedOrigins)
		},
	}

	h.GET("/ws", func(ctx context.Context, c *app.RequestContext) {
		wsServer.HandleHertzConnection(ctx, c, upgrader)
	})
}

// checkOrigin validates the Origin header against allowed origins
func checkOrigin(ctx *app.RequestContext, allowedOrigins []string) bool {
	origin := string(ctx.Request.Header.Peek("Origin"))

	// If no origin header, allow (same-origin request or non-browser client)
	if origin == "" {
		return true
	}

	// If no allowed origins configured, reject all cross-origin requests in production
	if len(allowedOrigins) == 0 {
		return false
	}

	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			// Wildcard - allow all (only use in development!)
			return true
		}
		if strings.EqualFold(origin, allowed) {
			return true
		}
	}

	return false
}

// Handlers holds all HTTP handlers
type Handlers struct {
	Conversation *handler.ConversationHandler
	Message      *handler.MessageHandler
}
