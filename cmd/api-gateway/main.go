package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-substitute-api/api/swagger"
	"github.com/noah-isme/sma-substitute-api/internal/handler"
	internalmiddleware "github.com/noah-isme/sma-substitute-api/internal/middleware"
	"github.com/noah-isme/sma-substitute-api/internal/models"
	"github.com/noah-isme/sma-substitute-api/internal/repository"
	"github.com/noah-isme/sma-substitute-api/internal/service"
	"github.com/noah-isme/sma-substitute-api/pkg/cache"
	"github.com/noah-isme/sma-substitute-api/pkg/config"
	"github.com/noah-isme/sma-substitute-api/pkg/database"
	"github.com/noah-isme/sma-substitute-api/pkg/jobs"
	"github.com/noah-isme/sma-substitute-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-substitute-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-substitute-api/pkg/middleware/requestid"
)

// @title Substitute Staffing API
// @version 1.0.0
// @description Availability, coverage and replacement urgency for substitute staff
// @BasePath /api/v1
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Policy.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, policy cache disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	validate := validator.New()

	substituteRepo := repository.NewSubstituteRepository(db)
	collaboratorRepo := repository.NewCollaboratorRepository(db)
	schoolRepo := repository.NewSchoolRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db, logr)
	assignmentRepo := repository.NewAssignmentRepository(db)
	absenceRepo := repository.NewAbsenceRepository(db)
	presenceRepo := repository.NewPresenceRepository(db, logr)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Policy.CacheTTL, logr, cfg.Policy.Enabled && redisClient != nil)
	policySvc := service.NewPolicyService(schoolRepo, cacheSvc, cfg.Policy.CacheTTL, validate, logr)
	coverageSvc := service.NewCoverageService(absenceRepo, presenceRepo, assignmentRepo, substituteRepo, availabilityRepo, metricsSvc, logr)
	urgencySvc := service.NewUrgencyService(absenceRepo, coverageSvc, policySvc, validate, logr)
	availabilitySvc := service.NewAvailabilityService(substituteRepo, availabilityRepo, assignmentRepo, absenceRepo, service.CalendarOptions{
		HideWednesday: cfg.Calendar.HideWednesday,
		MaxRangeDays:  cfg.Calendar.MaxRangeDays,
	}, validate, logr)

	syncQueue := jobs.NewQueue("absence-sync", coverageSvc.HandleSyncJob, jobs.QueueConfig{
		Workers:    cfg.Sync.Workers,
		MaxRetries: cfg.Sync.Retries,
		RetryDelay: cfg.Sync.RetryDelay,
		Logger:     logr,
	})
	syncQueue.Start(ctx)
	defer syncQueue.Stop()

	assignmentSvc := service.NewAssignmentService(assignmentRepo, substituteRepo, collaboratorRepo, absenceRepo, syncQueue, validate, logr)
	tokenSvc := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer)

	coverageHandler := handler.NewCoverageHandler(coverageSvc)
	urgencyHandler := handler.NewUrgencyHandler(urgencySvc)
	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	schoolHandler := handler.NewSchoolHandler(policySvc)

	deps := map[string]handler.Pinger{"postgres": db}
	if redisClient != nil {
		deps["redis"] = handler.PingFunc(cacheRepo.Ping)
	}
	metricsHandler := handler.NewMetricsHandler(metricsSvc, deps)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.JWT(tokenSvc))

	readers := internalmiddleware.RequireRoles(models.RoleAdmin, models.RoleCoordinator, models.RoleViewer)
	writers := internalmiddleware.RequireRoles(models.RoleAdmin, models.RoleCoordinator)

	absences := api.Group("/absences")
	{
		absences.GET("/preview", readers, coverageHandler.Preview)
		absences.GET("/urgency", readers, urgencyHandler.List)
		absences.GET("/urgency/export", readers, urgencyHandler.Export)
		absences.GET("/:id/coverage", readers, coverageHandler.Coverage)
		absences.GET("/:id/candidates", readers, coverageHandler.Candidates)
		absences.GET("/:id/urgency", readers, urgencyHandler.Get)
		absences.POST("/:id/sync", writers, coverageHandler.Sync)
	}

	substitutes := api.Group("/substitutes")
	{
		substitutes.GET("/:id/calendar", readers, availabilityHandler.Calendar)
		substitutes.POST("/:id/periods", writers, availabilityHandler.CreatePeriod)
		substitutes.PUT("/:id/overrides", writers, availabilityHandler.SetOverride)
	}

	api.POST("/assignments", writers, assignmentHandler.Create)
	api.PUT("/schools/:id/deadline", internalmiddleware.RequireRoles(models.RoleAdmin), schoolHandler.UpdateDeadline)
	api.GET("/metrics/summary", internalmiddleware.RequireRoles(models.RoleAdmin), metricsHandler.Summary)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
