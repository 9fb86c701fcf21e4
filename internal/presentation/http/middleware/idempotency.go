package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/kasir-api/internal/domain/entity"
	"github.com/sangkips/kasir-api/internal/domain/repository"
	"github.com/sangkips/kasir-api/internal/presentation/http/dto/response"
	"github.com/sangkips/kasir-api/pkg/logger"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	Log  *logger.Logger
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// idempotencyScope keys replays by session so two tills never share a key space.
func idempotencyScope(c *gin.Context) string {
	if s := Session(c); s != nil {
		return s.Scope()
	}
	if id := UserID(c); id != nil {
		return "user:" + id.String()
	}
	return ""
}

// Idempotency replays the stored response when a sale request is retried
// with the same Idempotency-Key. Requests without a key pass through.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	return idempotency(config, false)
}

// IdempotencyRequired is a stricter version that requires an idempotency key
func IdempotencyRequired(config IdempotencyConfig) gin.HandlerFunc {
	return idempotency(config, true)
}

func idempotency(config IdempotencyConfig, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			if required {
				response.BadRequest(c, "Idempotency-Key header is required for this request")
				c.Abort()
				return
			}
			c.Next()
			return
		}

		scope := idempotencyScope(c)
		if scope == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		existing, err := config.Repo.GetByKey(ctx, key, scope)
		if err != nil {
			config.Log.Warn(ctx, "idempotency lookup failed", err)
			if required {
				response.InternalServerError(c, "Failed to check idempotency key")
				c.Abort()
				return
			}
			c.Next()
			return
		}

		if existing != nil && !existing.IsExpired() {
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		blw := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// Only successful responses are replayed; failures may be retried.
		status := c.Writer.Status()
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return
		}
		record := &entity.IdempotencyKey{
			Key:          key,
			Scope:        scope,
			Endpoint:     c.Request.Method + " " + c.FullPath(),
			ResponseCode: status,
			ResponseBody: blw.body.String(),
			ExpiresAt:    time.Now().Add(IdempotencyKeyTTL),
		}
		if err := config.Repo.Create(ctx, record); err != nil {
			config.Log.Warn(ctx, "failed to store idempotency key", err)
		}
	}
}
