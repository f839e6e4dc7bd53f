package middleware

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/inkwave/inkchat/internal/config"
)

// CORS allows the blog frontend's origins, configured under
// server.allowed_origins. With no origins configured everything is allowed,
// which is only sensible in development.
func CORS() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		origin := string(c.GetHeader("Origin"))

		if allowed := allowOrigin(origin); allowed != "" {
			c.Header("Access-Control-Allow-Origin", allowed)
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization")
			c.Header("Access-Control-Expose-Headers", "Content-Length")
			c.Header("Access-Control-Allow-Credentials", "true")
		}

		if string(c.Method()) == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next(ctx)
	}
}

// allowOrigin returns the value for Access-Control-Allow-Origin, empty when
// the origin is not allowed.
func allowOrigin(origin string) string {
	cfg := config.GlobalConfig
	if cfg == nil || len(cfg.Server.AllowedOrigins) == 0 {
		return "*"
	}

	for _, allowed := range cfg.Server.AllowedOrigins {
		if allowed == "*" {
			return "*"
		}
		if strings.EqualFold(origin, allowed) {
			return origin
		}
	}
	return ""
}
