package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/kasir-api/internal/application/service"
	"github.com/sangkips/kasir-api/internal/presentation/http/dto/response"
	"github.com/sangkips/kasir-api/pkg/logger"
)

// SessionResolver attaches the caller's point-of-sale session. Authenticated
// users get their persisted session; anonymous callers get the guest session
// named by the X-Session-ID header, or a new one whose id is returned in
// the same header.
func SessionResolver(registry *service.SessionRegistry, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := registry.Resolve(c.Request.Context(), UserID(c), c.GetHeader(SessionHeader))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(keySession, session)
		c.Header(SessionHeader, session.ID)
		ctx := log.WithSession(c.Request.Context(), session.ID, string(session.Mode()))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
