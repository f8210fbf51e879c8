package httpserver

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LafyOjo/APIShield-Plus-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
)

const (
	InternalApi = "/internal/api/v1"
)

func (srv *HTTPServer) mapHandlers() error {
	srv.gin.Use(middleware.Recovery(srv.logger))

	// Apply CORS middleware globally
	corsConfig := middleware.DefaultCORSConfig()
	srv.gin.Use(middleware.CORS(corsConfig))

	// Health check endpoints (no auth required)
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	// Prometheus metrics
	if srv.registry != nil {
		srv.gin.GET("/metrics", gin.WrapH(promhttp.HandlerFor(srv.registry, promhttp.HandlerOpts{})))
	}

	// Internal API routes, shared-key guarded
	internal := srv.gin.Group(InternalApi)
	internal.Use(middleware.InternalAuth(srv.logger, srv.internalKey))

	incidents := internal.Group("/incidents")
	incidents.POST("/:id/impact", srv.estimateImpact)
	incidents.POST("/:id/recovery", srv.measureRecovery)

	notifications := internal.Group("/notifications")
	notifications.POST("/dispatch", srv.dispatch)

	return nil
}
