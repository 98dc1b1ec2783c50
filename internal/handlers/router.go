package handlers

import (
	"github.com/campus-hub/quiz-service/internal/config"
	"github.com/campus-hub/quiz-service/internal/services"
	"github.com/campus-hub/quiz-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	quizHandler    *QuizHandler
	attemptHandler *AttemptHandler
}

func NewHandlerManager(
	quizService services.QuizService,
	attemptService services.AttemptService,
	exportService services.ExportService,
	validator *utils.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		quizHandler:    NewQuizHandler(quizService, exportService, validator, logger),
		attemptHandler: NewAttemptHandler(attemptService, validator, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine, casdoorCfg config.CasdoorConfig, logger utils.Logger) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(AuthMiddleware(casdoorCfg, logger))
	{
		// Quiz management
		quizzes := v1.Group("/quizzes")
		{
			quizzes.POST("", hm.quizHandler.CreateQuiz)
			quizzes.GET("/:id", hm.quizHandler.GetQuiz)
			quizzes.PUT("/:id/questions", hm.quizHandler.ReplaceQuestions)
			quizzes.POST("/:id/publish", hm.quizHandler.PublishQuiz)
			quizzes.DELETE("/:id", hm.quizHandler.DeleteQuiz)
			quizzes.GET("/:id/results/export", hm.quizHandler.ExportResults)

			// Attempt lifecycle
			quizzes.POST("/:id/attempts", hm.attemptHandler.StartOrResume)
		}

		attempts := v1.Group("/attempts")
		{
			attempts.POST("/:attempt_id/submit", hm.attemptHandler.Submit)
			attempts.POST("/:attempt_id/violations", hm.attemptHandler.ReportViolation)
			attempts.POST("/:attempt_id/restart", hm.attemptHandler.Restart)
			attempts.GET("/:attempt_id/results", hm.attemptHandler.GetResults)
		}

		// Quiz listing for a module, with the caller's attempt state
		v1.GET("/modules/:module_id/quizzes", hm.attemptHandler.ListForModule)
	}
}
