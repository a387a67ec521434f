package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"

	"commonAssessment/app/echo-server/router"
	"commonAssessment/business/model"
	"commonAssessment/business/recommend"
	"commonAssessment/internal/middleware"
	psqlRepo "commonAssessment/internal/repository/postgres"
	redisRepo "commonAssessment/internal/repository/redis"
	"commonAssessment/internal/rest"
	"commonAssessment/pkg/config"
	"commonAssessment/pkg/database"
	redisdb "commonAssessment/pkg/database/redis"
	"commonAssessment/pkg/logger"
	"commonAssessment/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	defer logger.Sync()
	logger.Info("Starting recommendation API", "version", cfg.App.Version, "env", cfg.App.Environment)

	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Init cache
	var (
		redisClient *goredis.Client
		recoCache   *redisRepo.RecommendationCache
		cache       recommend.ResultCache
	)
	if cfg.Redis.Enabled {
		redisClient, err = redisdb.NewRedisClient(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", "error", err)
		}
		recoCache = redisRepo.NewRecommendationCache(redisClient, cfg.Redis.CacheTTL)
		cache = recoCache
		logger.Info("Recommendation cache enabled", "ttl", cfg.Redis.CacheTTL)
	}

	// Init repo
	clientRepo := psqlRepo.NewClientRepository(db)
	resultRepo := psqlRepo.NewRecommendationRepository(db)
	artifactRepo := psqlRepo.NewModelArtifactRepository(db)

	// Load models
	var store model.ArtifactStore = model.NewDirStore(cfg.Models.Dir)
	if cfg.Models.Source == config.ModelSourcePostgres {
		store = artifactRepo
	}

	registry := model.NewRegistry()
	loader := &model.Loader{Registry: registry, Store: store, DefaultModel: cfg.Models.DefaultModel}
	if recoCache != nil {
		loader.Cache = recoCache
	}

	loadCtx, loadCancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = model.LoadRegistry(loadCtx, registry, store, cfg.Models.DefaultModel)
	loadCancel()
	if err != nil {
		// the API stays up and answers 503 until POST /ml/models/reload succeeds
		logger.Error("No scoring model loaded", "source", cfg.Models.Source, "error", err)
	}

	// Init service
	schema, err := recommend.LoadSchemaFile(cfg.Engine.FeatureSchemaPath)
	if err != nil {
		logger.Fatal("Failed to load feature schema", "error", err)
	}

	order, err := recommend.ParseOrder(cfg.Engine.ResultOrder)
	if err != nil {
		logger.Fatal("Invalid result order", "error", err)
	}

	recoService, err := recommend.NewService(schema, registry, clientRepo, resultRepo, cache, recommend.Config{
		TopK:           cfg.Engine.TopK,
		Order:          order,
		StrictFeatures: cfg.Engine.StrictFeatures,
	})
	if err != nil {
		logger.Fatal("Failed to build recommendation service", "error", err)
	}

	// Init handler
	recoHandler := rest.NewRecommendationHandler(recoService, resultRepo, cfg.Server.RequestTimeout)
	modelHandler := rest.NewModelHandler(registry, loader)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.TraceID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  cfg.Server.AllowOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, middleware.HeaderTraceID},
		ExposeHeaders: []string{middleware.HeaderTraceID},
	}))

	authRequired := middleware.AuthMiddleware(cfg.JWT.SecretKey)
	adminOnly := middleware.AdminOnly()

	// Setup routes
	router.SetOpsRoutes(e)
	api := e.Group("/api/v1")
	router.SetRecommendationRoutes(api, recoHandler, authRequired)
	router.SetModelRoutes(api, modelHandler, authRequired, adminOnly)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if err := redisdb.CloseRedisClient(redisClient); err != nil {
		logger.Error("Redis close error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("Server stopped")
}
