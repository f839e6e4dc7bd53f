package middleware

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/inkwave/inkchat/internal/config"
	"github.com/inkwave/inkchat/pkg/errcode"
	"github.com/inkwave/inkchat/pkg/response"
	"github.com/inkwave/inkchat/pkg/token"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer token
	BearerPrefix = "Bearer "
	// UserIdKey is the context key for user id
	UserIdKey = "user_id"
	// RoleKey is the context key for the role claim
	RoleKey = "role"
)

// JWTAuth verifies the bearer token issued by the platform's session service
// and stores the identity in the request context.
func JWTAuth() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		authHeader := string(c.GetHeader(AuthorizationHeader))
		if authHeader == "" {
			response.ErrorWithCode(ctx, c, errcode.ErrTokenMissing)
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			response.ErrorWithCode(ctx, c, errcode.ErrTokenInvalid)
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		claims, err := token.Verify(tokenString, config.GlobalConfig.JWT.Secret)
		if err != nil {
			if e, ok := err.(*errcode.Error); ok {
				response.ErrorWithCode(ctx, c, e)
			} else {
				response.ErrorWithCode(ctx, c, errcode.ErrTokenInvalid)
			}
			c.Abort()
			return
		}

		c.Set(UserIdKey, claims.UserId)
		c.Set(RoleKey, claims.Role)

		c.Next(ctx)
	}
}

// GetUserId gets the authenticated user id from context, 0 when absent
func GetUserId(c *app.RequestContext) int64 {
	if v, ok := c.Get(UserIdKey); ok {
		return v.(int64)
	}
	return 0
}

// GetRole gets the role claim from context
func GetRole(c *app.RequestContext) string {
	if v, ok := c.Get(RoleKey); ok {
		return v.(string)
	}
	return ""
}
