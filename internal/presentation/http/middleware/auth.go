package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/kasir-api/internal/presentation/http/dto/response"
	"github.com/sangkips/kasir-api/pkg/logger"
	"github.com/sangkips/kasir-api/pkg/utils"
)

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", true
	}
	return parts[1], true
}

func setClaims(c *gin.Context, log *logger.Logger, claims *utils.JWTClaims) {
	c.Set(keyUserID, claims.UserID)
	c.Set(keyEmail, claims.Email)
	c.Set(keyUsername, claims.Username)
	c.Set(keyRoles, claims.Roles)
	ctx := log.WithField(c.Request.Context(), "user_id", claims.UserID.String())
	c.Request = c.Request.WithContext(ctx)
}

// AuthMiddleware creates a JWT authentication middleware
func AuthMiddleware(jwtManager *utils.JWTManager, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, present := bearerToken(c)
		if !present {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}
		if token == "" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		setClaims(c, log, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware authenticates when a token is sent and lets
// anonymous requests through. A token that is sent but invalid is rejected
// so an expired login is not silently turned into a guest session.
func OptionalAuthMiddleware(jwtManager *utils.JWTManager, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, present := bearerToken(c)
		if !present {
			c.Next()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(token)
		if token == "" || err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		setClaims(c, log, claims)
		c.Next()
	}
}

// RequireRole creates a middleware that requires one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, userRole := range Roles(c) {
			for _, requiredRole := range roles {
				if userRole == requiredRole {
					c.Next()
					return
				}
			}
		}
		response.Forbidden(c, "Insufficient role privileges")
		c.Abort()
	}
}
