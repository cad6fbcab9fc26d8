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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/askeland/crewplan-api/api/swagger"
	"github.com/askeland/crewplan-api/internal/engine"
	"github.com/askeland/crewplan-api/internal/handler"
	"github.com/askeland/crewplan-api/internal/middleware"
	"github.com/askeland/crewplan-api/internal/repository"
	"github.com/askeland/crewplan-api/internal/service"
	"github.com/askeland/crewplan-api/pkg/cache"
	"github.com/askeland/crewplan-api/pkg/config"
	"github.com/askeland/crewplan-api/pkg/database"
	"github.com/askeland/crewplan-api/pkg/jobs"
	"github.com/askeland/crewplan-api/pkg/logger"
	corsmiddleware "github.com/askeland/crewplan-api/pkg/middleware/cors"
	reqidmiddleware "github.com/askeland/crewplan-api/pkg/middleware/requestid"
	"github.com/askeland/crewplan-api/pkg/storage"
)

// @title CrewPlan API
// @version 0.1.0
// @description Weekly cleaning schedule with conflict detection and resolution suggestions
// @BasePath /api/v1
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, insight caching disabled", "error", err)
		redisClient = nil
	}

	assignmentRepo := repository.NewAssignmentRepository(db)
	workerRepo := repository.NewWorkerRepository(db)
	siteRepo := repository.NewSiteRepository(db)
	vacationRepo := repository.NewVacationRepository(db)
	reportRepo := repository.NewReportJobRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	eng := engine.New(logr)

	insightSvc := service.NewInsightService(eng, assignmentRepo, workerRepo, siteRepo, vacationRepo, cacheRepo, metricsSvc, logr, service.InsightServiceConfig{
		CacheTTL:     cfg.Insights.CacheTTL,
		DismissedTTL: cfg.Insights.DismissedTTL,
	})
	assignmentSvc := service.NewAssignmentService(assignmentRepo, insightSvc, validate, logr)
	workerSvc := service.NewWorkerService(workerRepo, insightSvc, validate, logr)
	siteSvc := service.NewSiteService(siteRepo, insightSvc, validate, logr)
	vacationSvc := service.NewVacationService(vacationRepo, insightSvc, validate, logr)

	var reportSvc *service.ReportService
	var exportSvc *service.ExportService
	var reportQueue *jobs.Queue
	if cfg.Reports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init report storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		exportSvc = service.NewExportService(insightSvc, store, signer, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Reports.SignedURLTTL,
		}, logr, nil, nil)

		reportQueue = jobs.NewQueue("reports", func(ctx context.Context, job jobs.Job) error {
			return reportSvc.ProcessJob(ctx, job)
		}, jobs.QueueConfig{
			Workers:    cfg.Reports.WorkerConcurrency,
			MaxRetries: cfg.Reports.WorkerRetries,
			Logger:     logr,
		})
		reportSvc = service.NewReportService(reportRepo, reportQueue, exportSvc, logr, service.ReportServiceConfig{
			ResultTTL:       cfg.Reports.SignedURLTTL,
			CleanupInterval: cfg.Reports.CleanupInterval,
			MaxRetries:      cfg.Reports.WorkerRetries,
		})

		reportQueue.Start(ctx)
		reportSvc.RecoverPendingJobs(ctx)
		reportSvc.StartCleanup(ctx)
	}

	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	rosterHandler := handler.NewRosterHandler(workerSvc, siteSvc)
	vacationHandler := handler.NewVacationHandler(vacationSvc)
	insightHandler := handler.NewInsightHandler(insightSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	var reportHandler *handler.ReportHandler
	if reportSvc != nil {
		reportHandler = handler.NewReportHandler(reportSvc)
	} else {
		reportHandler = handler.NewReportHandler(nil)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/assignments", assignmentHandler.List)
		api.POST("/assignments", assignmentHandler.Create)
		api.GET("/assignments/:id", assignmentHandler.Get)
		api.PATCH("/assignments/:id", assignmentHandler.Update)
		api.DELETE("/assignments/:id", assignmentHandler.Delete)

		api.GET("/workers", rosterHandler.ListWorkers)
		api.POST("/workers", rosterHandler.CreateWorker)
		api.PATCH("/workers/:id", rosterHandler.UpdateWorker)
		api.DELETE("/workers/:id", rosterHandler.DeleteWorker)

		api.GET("/sites", rosterHandler.ListSites)
		api.PUT("/sites", rosterHandler.UpsertSite)
		api.DELETE("/sites/:id", rosterHandler.DeleteSite)

		api.GET("/vacations", vacationHandler.List)
		api.POST("/vacations", vacationHandler.Create)
		api.DELETE("/vacations/:id", vacationHandler.Delete)

		api.GET("/insights/conflicts", insightHandler.Conflicts)
		api.GET("/insights/summary", insightHandler.Summary)
		api.POST("/insights/validate", insightHandler.Validate)
		api.GET("/insights/suggestions", insightHandler.Suggestions)
		api.POST("/insights/suggestions/:id/dismiss", insightHandler.Dismiss)

		api.POST("/reports/generate", reportHandler.Generate)
		api.GET("/reports/:id", reportHandler.Status)
		api.GET("/export/:token", reportHandler.Download)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "reports", cfg.Reports.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}
	if reportQueue != nil {
		reportQueue.Stop()
	}
	if err := cacheRepo.Close(); err != nil {
		logr.Sugar().Warnw("redis close failed", "error", err)
	}
}
