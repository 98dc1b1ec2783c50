package handlers

import (
	"net/http"

	"github.com/campus-hub/quiz-service/internal/services"
	"github.com/campus-hub/quiz-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	BaseHandler
	quizService   services.QuizService
	exportService services.ExportService
	validator     *utils.Validator
}

type ReplaceQuestionsRequest struct {
	Questions []services.QuestionInput `json:"questions" validate:"required,min=1,dive"`
}

func NewQuizHandler(
	quizService services.QuizService,
	exportService services.ExportService,
	validator *utils.Validator,
	logger utils.Logger,
) *QuizHandler {
	return &QuizHandler{
		BaseHandler:   NewBaseHandler(logger),
		quizService:   quizService,
		exportService: exportService,
		validator:     validator,
	}
}

// CreateQuiz creates a quiz together with its question set.
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	caller, ok := RequireCaller(c)
	if !ok {
		return
	}

	var req services.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating quiz", "module_id", req.ModuleID, "questions_count", len(req.Questions))

	quiz, err := h.quizService.Create(c.Request.Context(), &req, caller)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

// GetQuiz returns a quiz with its questions.
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quizID := ParseIDParam(c, "id")
	if quizID == 0 {
		return
	}
	caller, ok := RequireCaller(c)
	if !ok {
		return
	}

	quiz, err := h.quizService.GetWithQuestions(c.Request.Context(), quizID, caller)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// ReplaceQuestions swaps a quiz's full question set.
func (h *QuizHandler) ReplaceQuestions(c *gin.Context) {
	quizID := ParseIDParam(c, "id")
	if quizID == 0 {
		return
	}
	caller, ok := RequireCaller(c)
	if !ok {
		return
	}

	var req ReplaceQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Replacing quiz questions", "quiz_id", quizID, "questions_count", len(req.Questions))

	quiz, err := h.quizService.ReplaceQuestions(c.Request.Context(), quizID, req.Questions, caller)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// PublishQuiz marks the quiz available to students and dispatches the
// published notification.
func (h *QuizHandler) PublishQuiz(c *gin.Context) {
	quizID := ParseIDParam(c, "id")
	if quizID == 0 {
		return
	}
	caller, ok := RequireCaller(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Publishing quiz", "quiz_id", quizID)

	if err := h.quizService.Publish(c.Request.Context(), quizID, caller); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "quiz published"})
}

// DeleteQuiz removes a quiz; its questions cascade.
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	quizID := ParseIDParam(c, "id")
	if quizID == 0 {
		return
	}
	caller, ok := RequireCaller(c)
	if !ok {
		return
	}

	if err := h.quizService.Delete(c.Request.Context(), quizID, caller); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "quiz deleted"})
}

// ExportResults streams the quiz's attempt results as an xlsx workbook.
func (h *QuizHandler) ExportResults(c *gin.Context) {
	quizID := ParseIDParam(c, "id")
	if quizID == 0 {
		return
	}
	caller, ok := RequireCaller(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting quiz results", "quiz_id", quizID)

	buf, filename, err := h.exportService.ExportResults(c.Request.Context(), quizID, caller)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
