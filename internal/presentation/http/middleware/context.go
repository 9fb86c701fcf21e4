package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/kasir-api/internal/application/service"
)

// Gin context keys set by the middleware in this package.
const (
	keyRequestID = "request_id"
	keyUserID    = "user_id"
	keyEmail     = "user_email"
	keyUsername  = "username"
	keyRoles     = "user_roles"
	keySession   = "session"
)

// SessionHeader carries the guest session id between requests.
const SessionHeader = "X-Session-ID"

// UserID returns the authenticated user's id, or nil for anonymous callers.
func UserID(c *gin.Context) *uuid.UUID {
	v, ok := c.Get(keyUserID)
	if !ok {
		return nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}

func Username(c *gin.Context) string {
	return c.GetString(keyUsername)
}

func Roles(c *gin.Context) []string {
	return c.GetStringSlice(keyRoles)
}

// Session returns the session resolved by SessionResolver.
func Session(c *gin.Context) *service.Session {
	v, ok := c.Get(keySession)
	if !ok {
		return nil
	}
	s, _ := v.(*service.Session)
	return s
}
