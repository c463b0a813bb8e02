package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/registrar-office/portal-api/api/swagger"
	"github.com/registrar-office/portal-api/internal/handler"
	"github.com/registrar-office/portal-api/internal/middleware"
	"github.com/registrar-office/portal-api/internal/repository"
	"github.com/registrar-office/portal-api/internal/seed"
	"github.com/registrar-office/portal-api/internal/service"
	"github.com/registrar-office/portal-api/pkg/cache"
	"github.com/registrar-office/portal-api/pkg/config"
	"github.com/registrar-office/portal-api/pkg/database"
	"github.com/registrar-office/portal-api/pkg/logger"
	corsmiddleware "github.com/registrar-office/portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/registrar-office/portal-api/pkg/middleware/requestid"
)

// @title Registrar Office Portal API
// @version 0.1.0
// @description Document requests, payments, petitions and the academic calendar
// @BasePath /api
// @schemes http

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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, calendar caching disabled", "error", err)
		redisClient = nil
	}

	userRepo := repository.NewUserRepository(db)
	documentRepo := repository.NewDocumentRequestRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	petitionRepo := repository.NewPetitionRepository(db)
	majorRepo := repository.NewMajorApplicationRepository(db)
	calendarRepo := repository.NewCalendarRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	notificationSvc := service.NewNotificationService(notificationRepo, logr, cfg.Notifications.Enabled)
	documentSvc := service.NewDocumentService(documentRepo, paymentRepo, notificationSvc, userRepo, metricsSvc, nil, logr)
	paymentSvc := service.NewPaymentService(paymentRepo, documentRepo, nil, notificationSvc, userRepo, metricsSvc, nil, logr)
	petitionSvc := service.NewPetitionService(petitionRepo, notificationSvc, userRepo, metricsSvc, nil, logr)
	majorSvc := service.NewMajorApplicationService(majorRepo, notificationSvc, userRepo, metricsSvc, nil, logr)
	calendarSvc := service.NewCalendarService(calendarRepo, cacheRepo, cfg.Calendar.CacheTTL, metricsSvc, nil, logr)

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		exportSvc = service.NewExportService(documentRepo, nil, nil, logr)
	}

	if cfg.Seed.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := seed.Run(ctx, userRepo, calendarRepo, logr); err != nil {
			logr.Sugar().Warnw("seed failed", "error", err)
		}
		cancel()
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, authSvc, handler.Handlers{
		Auth:              handler.NewAuthHandler(authSvc),
		DocumentRequests:  handler.NewDocumentRequestHandler(documentSvc, exportSvc),
		Payments:          handler.NewPaymentHandler(paymentSvc),
		Petitions:         handler.NewPetitionHandler(petitionSvc),
		MajorApplications: handler.NewMajorApplicationHandler(majorSvc),
		Calendar:          handler.NewCalendarHandler(calendarSvc),
		Notifications:     handler.NewNotificationHandler(notificationSvc),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
