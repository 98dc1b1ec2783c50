package main

import (
	"os"

	"github.com/campus-hub/quiz-service/internal/cache"
	"github.com/campus-hub/quiz-service/internal/config"
	"github.com/campus-hub/quiz-service/internal/handlers"
	"github.com/campus-hub/quiz-service/internal/repositories/postgres"
	"github.com/campus-hub/quiz-service/internal/services"
	"github.com/campus-hub/quiz-service/internal/utils"
	"github.com/campus-hub/quiz-service/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	var logger utils.Logger
	cfg, err := config.LoadConfig()
	if err != nil {
		logger = utils.NewDefaultLogger()
		logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogger := utils.ToSlogLogger(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := pkg.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	var cacheService cache.CacheService = cache.NoopCache{}
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, running without cache", "error", err)
	} else {
		cacheService = cache.NewRedisCache(redisClient, slogger)
		defer redisClient.Close()
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", "error", err)
		}
	}()

	validator := utils.NewValidator()
	repo := postgres.NewRepository(db)

	quizService := services.NewQuizService(repo, publisher, cacheService, slogger, validator)
	attemptService := services.NewAttemptService(repo, slogger, validator)
	exportService := services.NewExportService(repo, slogger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(quizService, attemptService, exportService, validator, logger)
	handlerManager.SetupRoutes(router, cfg.Casdoor, logger)

	logger.Info("Starting quiz service", "port", cfg.Port, "environment", cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
