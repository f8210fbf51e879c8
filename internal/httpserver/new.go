package httpserver

import (
	"database/sql"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/LafyOjo/APIShield-Plus-sub000/internal/incident"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/notification"
	pkgLog "github.com/LafyOjo/APIShield-Plus-sub000/pkg/log"
)

// HTTPServer represents the HTTP server with all dependencies.
// New() only wires dependencies and validates them.
// Run() (in httpserver.go) starts HTTP serving.
type HTTPServer struct {
	// Server configuration
	gin         *gin.Engine
	logger      pkgLog.Logger
	port        int
	internalKey string

	// Engine core
	incidentUC     incident.UseCase
	notificationUC notification.UseCase

	// External services
	db       *sql.DB
	redis    *goredis.Client
	registry *prometheus.Registry
}

// Config is the constructor input for HTTPServer.
// Keep this minimal: only fields really needed by HTTPServer.
type Config struct {
	// Server configuration
	Port        int
	Mode        string
	InternalKey string

	// Engine core
	IncidentUC     incident.UseCase
	NotificationUC notification.UseCase

	// External services
	DB       *sql.DB
	Redis    *goredis.Client
	Registry *prometheus.Registry
}

// New creates a new HTTPServer instance with the provided configuration.
// Note: This does NOT start any goroutines. Use (*HTTPServer).Run() to start
// the service.
func New(logger pkgLog.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		gin:         gin.New(),
		logger:      logger,
		port:        cfg.Port,
		internalKey: cfg.InternalKey,

		incidentUC:     cfg.IncidentUC,
		notificationUC: cfg.NotificationUC,

		db:       cfg.DB,
		redis:    cfg.Redis,
		registry: cfg.Registry,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	return srv, nil
}

// validate ensures all required dependencies are provided.
func (srv *HTTPServer) validate() error {
	if srv.logger == nil {
		return errors.New("logger is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.incidentUC == nil {
		return errors.New("incident usecase is required")
	}
	if srv.notificationUC == nil {
		return errors.New("notification usecase is required")
	}
	if srv.db == nil {
		return errors.New("database handle is required")
	}
	if srv.redis == nil {
		return errors.New("redis client is required")
	}

	return nil
}
