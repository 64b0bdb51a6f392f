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
	"go.uber.org/zap"

	_ "github.com/edulite/scorebook-api/api/swagger"
	"github.com/edulite/scorebook-api/internal/handler"
	"github.com/edulite/scorebook-api/internal/middleware"
	"github.com/edulite/scorebook-api/internal/repository"
	"github.com/edulite/scorebook-api/internal/service"
	"github.com/edulite/scorebook-api/pkg/cache"
	"github.com/edulite/scorebook-api/pkg/config"
	"github.com/edulite/scorebook-api/pkg/database"
	"github.com/edulite/scorebook-api/pkg/logger"
	corsmiddleware "github.com/edulite/scorebook-api/pkg/middleware/cors"
	reqidmiddleware "github.com/edulite/scorebook-api/pkg/middleware/requestid"
)

// @title Scorebook API
// @version 0.1.0
// @description Examination score recording, statistics and ranking service
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	scoreRepo := repository.NewScoreRepository(db)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := scoreRepo.EnsureSchema(ctx); err != nil {
		cancel()
		logr.Sugar().Fatalw("schema migration failed", "error", err)
	}
	cancel()

	metricsSvc := service.NewMetricsService()

	var cacheRepo *repository.CacheRepository
	if cfg.Analytics.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, analytics cache disabled", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Analytics.CacheTTL, logr, cfg.Analytics.CacheEnabled && cacheRepo != nil)

	scoreSvc := service.NewScoreService(scoreRepo, cacheSvc, logr)
	statsSvc := service.NewStatisticsService(scoreRepo, cacheSvc, metricsSvc, logr)
	rankingSvc := service.NewRankingService(scoreRepo, cacheSvc, metricsSvc, logr)
	transferSvc := service.NewTransferService(scoreRepo, statsSvc, cacheSvc, logr)

	scoreHandler := handler.NewScoreHandler(scoreSvc)
	analyticsHandler := handler.NewAnalyticsHandler(statsSvc)
	rankingHandler := handler.NewRankingHandler(rankingSvc)
	catalogHandler := handler.NewCatalogHandler(scoreSvc)
	transferHandler := handler.NewTransferHandler(transferSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		scores := api.Group("/scores")
		{
			scores.GET("", scoreHandler.List)
			scores.POST("", scoreHandler.Create)
			scores.GET("/export", transferHandler.Export)
			scores.POST("/import", transferHandler.Import)
			scores.GET("/:id", scoreHandler.Get)
			scores.PUT("/:id", scoreHandler.Update)
			scores.DELETE("/:id", scoreHandler.Delete)
		}

		catalog := api.Group("/catalog")
		{
			catalog.GET("/classes", catalogHandler.Classes)
			catalog.GET("/courses", catalogHandler.Courses)
			catalog.GET("/exam-dates", catalogHandler.ExamDates)
		}

		analytics := api.Group("/analytics")
		{
			analytics.GET("/statistics", analyticsHandler.Statistics)
			analytics.GET("/distribution", analyticsHandler.Distribution)
			analytics.GET("/trend", analyticsHandler.Trend)
			analytics.GET("/comparison", analyticsHandler.Comparison)
			analytics.GET("/report", transferHandler.Report)
		}

		rankings := api.Group("/rankings")
		{
			rankings.GET("/course", rankingHandler.Course)
			rankings.GET("/total", rankingHandler.Total)
		}

		api.GET("/system/metrics", metricsHandler.Snapshot)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
