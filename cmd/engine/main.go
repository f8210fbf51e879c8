package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/LafyOjo/APIShield-Plus-sub000/config"
	"github.com/LafyOjo/APIShield-Plus-sub000/config/postgre"
	"github.com/LafyOjo/APIShield-Plus-sub000/config/redis"
	analyticsPostgre "github.com/LafyOjo/APIShield-Plus-sub000/internal/analytics/repository/postgre"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/httpserver"
	incidentPostgre "github.com/LafyOjo/APIShield-Plus-sub000/internal/incident/repository/postgre"
	incidentUC "github.com/LafyOjo/APIShield-Plus-sub000/internal/incident/usecase"
	"github.com/LafyOjo/APIShield-Plus-sub000/internal/metrics"
	notificationPostgre "github.com/LafyOjo/APIShield-Plus-sub000/internal/notification/repository/postgre"
	notificationUC "github.com/LafyOjo/APIShield-Plus-sub000/internal/notification/usecase"
	"github.com/LafyOjo/APIShield-Plus-sub000/pkg/lock"
	"github.com/LafyOjo/APIShield-Plus-sub000/pkg/log"
	pkgPostgre "github.com/LafyOjo/APIShield-Plus-sub000/pkg/postgre"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// Initialize logger
	logger := log.Init(log.ZapConfig{
		Level:    cfg.Logger.Level,
		Mode:     cfg.Logger.Mode,
		Encoding: cfg.Logger.Encoding,
	})

	// Initialize PostgreSQL
	ctx := context.Background()
	postgresDB, err := postgre.Connect(ctx, cfg.Postgres)
	if err != nil {
		logger.Error(ctx, "Failed to connect to PostgreSQL: ", err)
		return
	}
	defer postgre.Disconnect(ctx, postgresDB)
	logger.Infof(ctx, "PostgreSQL connected successfully to %s:%d/%s", cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName)

	// Initialize Redis
	redisClient, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		logger.Error(ctx, "Failed to connect to Redis: ", err)
		return
	}
	defer redisClient.Close()
	logger.Infof(ctx, "Redis connected successfully to %s:%d", cfg.Redis.Host, cfg.Redis.Port)

	// Register Prometheus collectors
	registry := prometheus.NewRegistry()
	if err := metrics.Register(registry); err != nil {
		logger.Error(ctx, "Failed to register metrics: ", err)
		return
	}

	// Initialize repositories
	incidentRepo := incidentPostgre.New(logger, postgresDB)
	analyticsRepo := analyticsPostgre.New(logger, postgresDB)
	notificationRepo := notificationPostgre.New(logger, postgresDB)

	// Initialize distributed lock
	locker := lock.New(redisClient, pkgPostgre.NewUUID())

	// Initialize usecases
	incidentUsecase := incidentUC.New(logger, cfg.Engine, incidentRepo, analyticsRepo, locker)
	notificationUsecase := notificationUC.New(logger, cfg.Engine, notificationRepo, analyticsRepo)

	// Initialize HTTP server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		// Server configuration
		Port:        cfg.HTTPServer.Port,
		Mode:        cfg.HTTPServer.Mode,
		InternalKey: cfg.HTTPServer.InternalKey,

		// Engine core
		IncidentUC:     incidentUsecase,
		NotificationUC: notificationUsecase,

		// External services
		DB:       postgresDB,
		Redis:    redisClient,
		Registry: registry,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	if err := httpServer.Run(); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}
}
