package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	_ "github.com/munidigital/tramites-api/api/swagger"
	"github.com/munidigital/tramites-api/internal/handler"
	"github.com/munidigital/tramites-api/internal/repository"
	"github.com/munidigital/tramites-api/internal/router"
	"github.com/munidigital/tramites-api/internal/service"
	"github.com/munidigital/tramites-api/pkg/config"
	"github.com/munidigital/tramites-api/pkg/database"
	"github.com/munidigital/tramites-api/pkg/logger"
	"github.com/munidigital/tramites-api/pkg/storage"
)

// @title Trámites API
// @version 1.0.0
// @description Records management for persons, administrative procedures and their documents
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureSchema(ctx, db); err != nil {
		logr.Sugar().Fatalw("failed to ensure schema", "error", err)
	}
	if err := database.SeedDefaultAdmin(ctx, db, logr); err != nil {
		logr.Sugar().Fatalw("failed to seed default admin", "error", err)
	}

	store, err := storage.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare upload directory", "error", err)
	}

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Search.CacheEnabled {
		client := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logr.Sugar().Warnw("redis unavailable, search cache disabled", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(client, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Search.CacheTTL, logr, true)
		}
	}

	userRepo := repository.NewUserRepository(db)
	personRepo := repository.NewPersonRepository(db)
	procedureRepo := repository.NewProcedureRepository(db)
	documentRepo := repository.NewDocumentRepository(db)

	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      "tramites-api",
	})
	personSvc := service.NewPersonService(personRepo, procedureRepo, cacheSvc, nil, logr)
	procedureSvc := service.NewProcedureService(procedureRepo, cacheSvc, nil, logr)
	documentSvc := service.NewDocumentService(documentRepo, procedureRepo, store, cacheSvc, logr, service.DocumentServiceConfig{
		MaxFileSize: cfg.Uploads.MaxFileSizeBytes,
	})

	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		Person:    handler.NewPersonHandler(personSvc),
		Procedure: handler.NewProcedureHandler(procedureSvc),
		Document:  handler.NewDocumentHandler(documentSvc),
		Metrics:   handler.NewMetricsHandler(metricsSvc),
	}

	r := router.New(cfg, logr, handlers, authSvc, metricsSvc)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "uploads", store.Dir())
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
