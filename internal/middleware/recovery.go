package middleware

import (
	pkgLog "github.com/LafyOjo/APIShield-Plus-sub000/pkg/log"
	"github.com/LafyOjo/APIShield-Plus-sub000/pkg/response"

	"github.com/gin-gonic/gin"
)

func Recovery(logger pkgLog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				ctx := c.Request.Context()
				logger.Errorf(ctx, "Panic recovered: %v | Method: %s | Path: %s",
					err, c.Request.Method, c.Request.URL.Path)

				response.PanicError(c, err)
				c.Abort()
			}
		}()
		c.Next()
	}
}
