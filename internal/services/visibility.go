package services

import (
	"time"

	"github.com/campus-hub/quiz-service/internal/models"
)

// AttemptView is the caller-facing projection of an attempt. Depending on
// role, state and deadline it is either the full record or a redacted one.
type AttemptView struct {
	ID             uint                 `json:"id"`
	QuizID         uint                 `json:"quiz_id"`
	StudentID      string               `json:"student_id"`
	Status         models.AttemptStatus `json:"status"`
	StartedAt      time.Time            `json:"started_at"`
	SubmittedAt    *time.Time           `json:"submitted_at,omitempty"`
	Score          *float64             `json:"score"`
	Reason         *string              `json:"reason,omitempty"`
	ResultsPending bool                 `json:"results_pending"`
	Answers        []AnswerView         `json:"answers"`
	RemainingSecs  int64                `json:"remaining_seconds"`
}

type AnswerView struct {
	QuestionID     uint    `json:"question_id"`
	SelectedOption *string `json:"selected_option"`
	IsCorrect      bool    `json:"is_correct"`
}

// BuildAttemptView shapes what an attempt record may reveal to the caller.
//
// A student looking at their own attempt before the window closes (and not
// cancelled) gets a redacted view: score withheld, answers empty,
// results_pending set. Once the deadline plus grace has passed, or the
// attempt was cancelled, there is nothing left worth withholding. Lecturers
// and admins always see the full record.
func BuildAttemptView(attempt *models.QuizAttempt, quiz *models.Quiz, answers []models.QuizAnswer, role models.UserRole, now time.Time) *AttemptView {
	view := &AttemptView{
		ID:            attempt.ID,
		QuizID:        attempt.QuizID,
		StudentID:     attempt.StudentID,
		Status:        attempt.Status,
		StartedAt:     attempt.StartedAt,
		SubmittedAt:   attempt.SubmittedAt,
		Score:         attempt.Score,
		Reason:        attempt.Reason,
		RemainingSecs: int64(RemainingTime(attempt.StartedAt, quiz.Duration, now).Seconds()),
	}

	switch role {
	case models.RoleStudent:
		expired := IsAttemptExpired(attempt.StartedAt, quiz.Duration, now)
		if !expired && attempt.Status != models.AttemptCancelled {
			view.Score = nil
			view.Answers = []AnswerView{}
			view.ResultsPending = true
			return view
		}
	case models.RoleLecturer, models.RoleAdmin:
		// Full detail always.
	}

	view.Answers = make([]AnswerView, 0, len(answers))
	for _, answer := range answers {
		view.Answers = append(view.Answers, AnswerView{
			QuestionID:     answer.QuestionID,
			SelectedOption: answer.SelectedOption,
			IsCorrect:      answer.IsCorrect,
		})
	}
	return view
}

// MaskedListStatus is the status shown in the quiz *list* view. For students
// it masks SUBMITTED and TIMED_OUT back to IN_PROGRESS while time remains,
// so the list does not reveal completion before the window closes. The
// detail view is never masked.
func MaskedListStatus(attempt *models.QuizAttempt, quiz *models.Quiz, role models.UserRole, now time.Time) models.AttemptStatus {
	if role != models.RoleStudent {
		return attempt.Status
	}
	if attempt.Status != models.AttemptSubmitted && attempt.Status != models.AttemptTimedOut {
		return attempt.Status
	}
	if IsAttemptExpired(attempt.StartedAt, quiz.Duration, now) {
		return attempt.Status
	}
	return models.AttemptInProgress
}

// QuizSummary is one row of the module quiz listing, carrying the caller's
// attempt state when one exists.
type QuizSummary struct {
	QuizID         uint                  `json:"quiz_id"`
	Title          string                `json:"title"`
	Duration       int                   `json:"duration"`
	TotalMarks     float64               `json:"total_marks"`
	Published      bool                  `json:"published"`
	AvailableFrom  *time.Time            `json:"available_from,omitempty"`
	AvailableUntil *time.Time            `json:"available_until,omitempty"`
	AttemptID      *uint                 `json:"attempt_id,omitempty"`
	AttemptStatus  *models.AttemptStatus `json:"attempt_status,omitempty"`
}
