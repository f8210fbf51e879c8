package middleware

import (
	"crypto/subtle"

	pkgLog "github.com/LafyOjo/APIShield-Plus-sub000/pkg/log"
	"github.com/LafyOjo/APIShield-Plus-sub000/pkg/response"

	"github.com/gin-gonic/gin"
)

const internalKeyHeader = "X-Internal-Key"

// InternalAuth returns a middleware that guards service-to-service routes
// with a shared key. An empty configured key disables the check.
func InternalAuth(logger pkgLog.Logger, key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}

		provided := c.GetHeader(internalKeyHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			logger.Warnf(c.Request.Context(), "Invalid internal key | Path: %s", c.Request.URL.Path)
			response.Unauthorized(c)
			c.Abort()
			return
		}

		c.Next()
	}
}
