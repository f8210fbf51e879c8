package httpserver

import (
	"github.com/gin-gonic/gin"

	"github.com/LafyOjo/APIShield-Plus-sub000/pkg/response"
)

// healthCheck reports overall health including backing stores.
func (srv *HTTPServer) healthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	if err := srv.db.PingContext(ctx); err != nil {
		response.HttpError(c, response.NewHTTPError(503, "PostgreSQL connection failed"))
		return
	}
	if err := srv.redis.Ping(ctx).Err(); err != nil {
		response.HttpError(c, response.NewHTTPError(503, "Redis connection failed"))
		return
	}

	response.OK(c, gin.H{
		"status":   "healthy",
		"service":  "trust-engine",
		"postgres": "connected",
		"redis":    "connected",
	})
}

// readyCheck reports whether the service is ready to serve traffic.
func (srv *HTTPServer) readyCheck(c *gin.Context) {
	ctx := c.Request.Context()

	if err := srv.db.PingContext(ctx); err != nil {
		response.HttpError(c, response.NewHTTPError(503, "PostgreSQL connection not available"))
		return
	}

	response.OK(c, gin.H{
		"status":  "ready",
		"service": "trust-engine",
	})
}

// liveCheck reports process liveness only.
func (srv *HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "alive",
		"service": "trust-engine",
	})
}
