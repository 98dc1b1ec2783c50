package handlers

import (
	"net/http"

	"github.com/campus-hub/quiz-service/internal/services"
	"github.com/campus-hub/quiz-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type AttemptHandler struct {
	BaseHandler
	attemptService services.AttemptService
	validator      *utils.Validator
}

type SubmitAttemptRequest struct {
	Answers []services.SubmittedAnswer `json:"answers" validate:"dive"`
}

func NewAttemptHandler(
	attemptService services.AttemptService,
	validator *utils.Validator,
	logger utils.Logger,
) *AttemptHandler {
	return &AttemptHandler{
		BaseHandler:    NewBaseHandler(logger),
		attemptService: attemptService,
		validator:      validator,
	}
}

// StartOrResume creates or resumes the caller's attempt for a quiz.
func (h *AttemptHandler) StartOrResume(c *gin.Context) {
	quizID := ParseIDParam(c, "id")
	if quizID == 0 {
		return
	}
	caller, ok := RequireCaller(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Starting or resuming attempt", "quiz_id", quizID)

	view, err := h.attemptService.StartOrResume(c.Request.Context(), quizID, caller)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Submit scores and closes the caller's attempt.
func (h *AttemptHandler) Submit(c *gin.Context) {
	attemptID := ParseIDParam(c, "attempt_id")
	if attemptID == 0 {
		return
	}
	caller, ok := RequireCaller(c)
	if !ok {
		return
	}

	var req SubmitAttemptRequest
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

	h.LogRequest(c, "Submitting attempt", "attempt_id", attemptID, "answers_count", len(req.Answers))

	view, err := h.attemptService.Submit(c.Request.Context(), attemptID, req.Answers, caller)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// ReportViolation records one proctoring violation against an attempt.
func (h *AttemptHandler) ReportViolation(c *gin.Context) {
	attemptID := ParseIDParam(c, "attempt_id")
	if attemptID == 0 {
		return
	}
	caller, ok := RequireCaller(c)
	if !ok {
		return
	}

	var req services.ReportViolationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Reporting violation", "attempt_id", attemptID, "type", req.Type)

	decision, err := h.attemptService.ReportViolation(c.Request.Context(), attemptID, &req, caller)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, decision)
}

// Restart reopens an attempt with a fresh duration (quiz owner or admin).
func (h *AttemptHandler) Restart(c *gin.Context) {
	attemptID := ParseIDParam(c, "attempt_id")
	if attemptID == 0 {
		return
	}
	caller, ok := RequireCaller(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Restarting attempt", "attempt_id", attemptID)

	view, err := h.attemptService.Restart(c.Request.Context(), attemptID, caller)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetResults returns the visibility-filtered attempt record.
func (h *AttemptHandler) GetResults(c *gin.Context) {
	attemptID := ParseIDParam(c, "attempt_id")
	if attemptID == 0 {
		return
	}
	caller, ok := RequireCaller(c)
	if !ok {
		return
	}

	view, err := h.attemptService.GetResults(c.Request.Context(), attemptID, caller)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// ListForModule lists a module's quizzes with the caller's attempt state.
func (h *AttemptHandler) ListForModule(c *gin.Context) {
	moduleID := ParseIDParam(c, "module_id")
	if moduleID == 0 {
		return
	}
	caller, ok := RequireCaller(c)
	if !ok {
		return
	}

	summaries, err := h.attemptService.ListForModule(c.Request.Context(), moduleID, caller)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}
