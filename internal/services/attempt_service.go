package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/campus-hub/quiz-service/internal/models"
	"github.com/campus-hub/quiz-service/internal/repositories"
	"github.com/campus-hub/quiz-service/internal/utils"
	"gorm.io/gorm"
)

// AttemptService owns the quiz attempt lifecycle: start/resume, submit,
// violation reporting, lecturer restart and result disclosure.
type AttemptService interface {
	StartOrResume(ctx context.Context, quizID uint, caller models.Caller) (*AttemptView, error)
	Submit(ctx context.Context, attemptID uint, answers []SubmittedAnswer, caller models.Caller) (*AttemptView, error)
	ReportViolation(ctx context.Context, attemptID uint, req *ReportViolationRequest, caller models.Caller) (*ViolationDecision, error)
	Restart(ctx context.Context, attemptID uint, caller models.Caller) (*AttemptView, error)
	GetResults(ctx context.Context, attemptID uint, caller models.Caller) (*AttemptView, error)
	ListForModule(ctx context.Context, moduleID uint, caller models.Caller) ([]QuizSummary, error)
}

type ReportViolationRequest struct {
	Type           models.ViolationType `json:"type" validate:"required,violation_type"`
	Details        string               `json:"details" validate:"max=2000"`
	ExplicitCancel bool                 `json:"explicit_cancel"`
}

type attemptService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *utils.Validator
	now       func() time.Time
}

func NewAttemptService(repo repositories.Repository, logger *slog.Logger, validator *utils.Validator) AttemptService {
	return &attemptService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		now:       time.Now,
	}
}

// ===== CORE ATTEMPT OPERATIONS =====

// StartOrResume creates a student's attempt on first call and resumes it on
// subsequent calls while time remains. The deadline, not the stored status,
// decides: a SUBMITTED or TIMED_OUT attempt flips back to IN_PROGRESS when
// the window is still open, a CANCELLED attempt never resumes, and an
// expired one is rejected.
func (s *attemptService) StartOrResume(ctx context.Context, quizID uint, caller models.Caller) (*AttemptView, error) {
	s.logger.Info("Starting or resuming quiz attempt",
		"quiz_id", quizID,
		"student_id", caller.ID)

	if caller.Role != models.RoleStudent {
		return nil, NewPermissionError(caller.ID, quizID, "quiz", "attempt", "only students take quizzes")
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, nil, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	now := s.now()
	if !quiz.Published {
		return nil, ErrQuizNotPublished
	}
	if quiz.AvailableFrom != nil && now.Before(*quiz.AvailableFrom) {
		return nil, ErrQuizNotAvailable
	}
	if quiz.AvailableUntil != nil && now.After(*quiz.AvailableUntil) {
		return nil, ErrQuizNotAvailable
	}

	var attempt *models.QuizAttempt
	err = s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		existing, err := s.repo.Attempt().GetByQuizAndStudentForUpdate(ctx, tx, quizID, caller.ID)
		if err != nil && !repositories.IsNotFoundError(err) {
			return fmt.Errorf("failed to get current attempt: %w", err)
		}

		if existing == nil || repositories.IsNotFoundError(err) {
			attempt = &models.QuizAttempt{
				QuizID:    quizID,
				StudentID: caller.ID,
				Status:    models.AttemptInProgress,
				StartedAt: now,
			}
			return s.repo.Attempt().Create(ctx, tx, attempt)
		}

		if existing.Status == models.AttemptCancelled {
			return ErrAttemptCancelled
		}
		if IsAttemptExpired(existing.StartedAt, quiz.Duration, now) {
			return ErrAttemptExpired
		}

		if existing.Status != models.AttemptInProgress {
			existing.Status = models.AttemptInProgress
			existing.SubmittedAt = nil
			existing.Score = nil
			if err := s.repo.Attempt().Update(ctx, tx, existing); err != nil {
				return fmt.Errorf("failed to reopen attempt: %w", err)
			}
		}
		attempt = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Quiz attempt active",
		"attempt_id", attempt.ID,
		"quiz_id", quizID,
		"student_id", caller.ID)

	return BuildAttemptView(attempt, quiz, nil, caller.Role, now), nil
}

// Submit scores the submitted answer set and closes the attempt. The
// existing answers are replaced wholesale inside the same transaction so
// scoring always works from one consistent snapshot; a second submit is
// rejected on the status guard, never double-counted.
func (s *attemptService) Submit(ctx context.Context, attemptID uint, answers []SubmittedAnswer, caller models.Caller) (*AttemptView, error) {
	s.logger.Info("Submitting quiz attempt",
		"attempt_id", attemptID,
		"student_id", caller.ID,
		"answers_count", len(answers))

	for i := range answers {
		if err := s.validator.Validate(&answers[i]); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}
	}

	now := s.now()
	var (
		attempt *models.QuizAttempt
		quiz    *models.Quiz
		rows    []models.QuizAnswer
	)

	err := s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		attempt, err = s.repo.Attempt().GetByIDForUpdate(ctx, tx, attemptID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrAttemptNotFound
			}
			return fmt.Errorf("failed to get attempt: %w", err)
		}

		if attempt.StudentID != caller.ID {
			return NewPermissionError(caller.ID, attemptID, "attempt", "submit", "not owned by student")
		}
		if attempt.Status != models.AttemptInProgress {
			return ErrAttemptNotActive
		}

		quiz, err = s.repo.Quiz().GetByID(ctx, tx, attempt.QuizID)
		if err != nil {
			return fmt.Errorf("failed to get quiz: %w", err)
		}
		questions, err := s.repo.Question().GetByQuiz(ctx, tx, attempt.QuizID)
		if err != nil {
			return fmt.Errorf("failed to get questions: %w", err)
		}

		score, scored := ScoreAttempt(questions, answers)
		if err := s.repo.Answer().ReplaceForAttempt(ctx, tx, attemptID, scored); err != nil {
			return err
		}
		rows = scored

		attempt.Status = models.AttemptSubmitted
		attempt.SubmittedAt = &now
		attempt.Score = &score
		return s.repo.Attempt().Update(ctx, tx, attempt)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Quiz attempt submitted",
		"attempt_id", attemptID,
		"student_id", caller.ID,
		"score", *attempt.Score)

	return BuildAttemptView(attempt, quiz, rows, caller.Role, now), nil
}

// ReportViolation appends one proctoring violation and applies the
// escalation policy. Finished attempts (submitted or cancelled) accrue
// nothing. The insert, the count and the possible cancellation are one
// atomic unit under the attempt's row lock, so two concurrent reports
// cannot race past each other's count.
func (s *attemptService) ReportViolation(ctx context.Context, attemptID uint, req *ReportViolationRequest, caller models.Caller) (*ViolationDecision, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	s.logger.Info("Recording proctoring violation",
		"attempt_id", attemptID,
		"type", req.Type,
		"explicit_cancel", req.ExplicitCancel)

	now := s.now()
	var decision ViolationDecision

	err := s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		attempt, err := s.repo.Attempt().GetByIDForUpdate(ctx, tx, attemptID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrAttemptNotFound
			}
			return fmt.Errorf("failed to get attempt: %w", err)
		}

		if caller.Role == models.RoleStudent && attempt.StudentID != caller.ID {
			return NewPermissionError(caller.ID, attemptID, "attempt", "report_violation", "not owned by student")
		}
		if attempt.Status == models.AttemptSubmitted || attempt.Status == models.AttemptCancelled {
			return ErrAttemptFinished
		}

		violation := &models.QuizViolation{
			AttemptID: attemptID,
			Type:      req.Type,
			Details:   req.Details,
		}
		if err := s.repo.Violation().Create(ctx, tx, violation); err != nil {
			return fmt.Errorf("failed to record violation: %w", err)
		}

		count, err := s.repo.Violation().CountByAttempt(ctx, tx, attemptID)
		if err != nil {
			return fmt.Errorf("failed to count violations: %w", err)
		}

		decision = EvaluateViolation(req.Type, req.Details, req.ExplicitCancel, count)
		if !decision.Cancelled {
			return nil
		}

		attempt.Status = models.AttemptCancelled
		attempt.Reason = &decision.Reason
		attempt.SubmittedAt = &now
		return s.repo.Attempt().Update(ctx, tx, attempt)
	})
	if err != nil {
		return nil, err
	}

	if decision.Cancelled {
		s.logger.Warn("Attempt cancelled by violation policy",
			"attempt_id", attemptID,
			"violation_count", decision.Count,
			"type", req.Type)
	}

	return &decision, nil
}

// Restart reopens an attempt with a fresh full duration: answers wiped,
// score reset to zero, timestamps and reason cleared. Only the owning
// lecturer or an admin may do this; it is the single way out of CANCELLED.
// The violation log is not touched - it persists across restarts as an
// audit trail.
func (s *attemptService) Restart(ctx context.Context, attemptID uint, caller models.Caller) (*AttemptView, error) {
	s.logger.Info("Restarting quiz attempt",
		"attempt_id", attemptID,
		"caller_id", caller.ID,
		"caller_role", caller.Role)

	now := s.now()
	var (
		attempt *models.QuizAttempt
		quiz    *models.Quiz
	)

	err := s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		attempt, err = s.repo.Attempt().GetByIDForUpdate(ctx, tx, attemptID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrAttemptNotFound
			}
			return fmt.Errorf("failed to get attempt: %w", err)
		}

		quiz, err = s.repo.Quiz().GetByID(ctx, tx, attempt.QuizID)
		if err != nil {
			return fmt.Errorf("failed to get quiz: %w", err)
		}

		allowed := caller.Role == models.RoleAdmin ||
			(caller.Role == models.RoleLecturer && quiz.LecturerID == caller.ID)
		if !allowed {
			return NewPermissionError(caller.ID, attemptID, "attempt", "restart", "not quiz owner or admin")
		}

		if err := s.repo.Answer().DeleteForAttempt(ctx, tx, attemptID); err != nil {
			return fmt.Errorf("failed to wipe answers: %w", err)
		}

		zero := float64(0)
		attempt.Status = models.AttemptInProgress
		attempt.StartedAt = now
		attempt.SubmittedAt = nil
		attempt.Score = &zero
		attempt.Reason = nil
		return s.repo.Attempt().Update(ctx, tx, attempt)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Quiz attempt restarted",
		"attempt_id", attemptID,
		"caller_id", caller.ID)

	return BuildAttemptView(attempt, quiz, nil, caller.Role, now), nil
}

// ===== RESULT OPERATIONS =====

// GetResults returns the visibility-filtered projection of an attempt.
// Expiry is re-derived from the deadline on every read; a stale IN_PROGRESS
// past the window is treated as disclosable, not trusted.
func (s *attemptService) GetResults(ctx context.Context, attemptID uint, caller models.Caller) (*AttemptView, error) {
	attempt, err := s.repo.Attempt().GetByIDWithDetails(ctx, nil, attemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}

	switch caller.Role {
	case models.RoleStudent:
		if attempt.StudentID != caller.ID {
			return nil, NewPermissionError(caller.ID, attemptID, "attempt", "read", "not owned by student")
		}
	case models.RoleLecturer:
		if attempt.Quiz.LecturerID != caller.ID {
			return nil, NewPermissionError(caller.ID, attemptID, "attempt", "read", "not quiz owner")
		}
	case models.RoleAdmin:
		// Unrestricted.
	default:
		return nil, ErrForbidden
	}

	return BuildAttemptView(attempt, &attempt.Quiz, attempt.Answers, caller.Role, s.now()), nil
}

// ListForModule lists a module's quizzes with the caller's attempt state.
// Students see published quizzes only, with the list-level status mask
// applied so completion is not revealed while time remains.
func (s *attemptService) ListForModule(ctx context.Context, moduleID uint, caller models.Caller) ([]QuizSummary, error) {
	filters := repositories.QuizFilters{}
	if caller.Role == models.RoleStudent {
		published := true
		filters.Published = &published
	}

	quizzes, err := s.repo.Quiz().ListByModule(ctx, nil, moduleID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	summaries := make([]QuizSummary, 0, len(quizzes))
	byQuiz := make(map[uint]*models.QuizAttempt)

	if caller.Role == models.RoleStudent && len(quizzes) > 0 {
		quizIDs := make([]uint, 0, len(quizzes))
		for _, quiz := range quizzes {
			quizIDs = append(quizIDs, quiz.ID)
		}
		attempts, err := s.repo.Attempt().GetByQuizzesAndStudent(ctx, nil, quizIDs, caller.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get attempts: %w", err)
		}
		for _, attempt := range attempts {
			byQuiz[attempt.QuizID] = attempt
		}
	}

	now := s.now()
	for _, quiz := range quizzes {
		summary := QuizSummary{
			QuizID:         quiz.ID,
			Title:          quiz.Title,
			Duration:       quiz.Duration,
			TotalMarks:     quiz.TotalMarks,
			Published:      quiz.Published,
			AvailableFrom:  quiz.AvailableFrom,
			AvailableUntil: quiz.AvailableUntil,
		}
		if attempt, ok := byQuiz[quiz.ID]; ok {
			status := MaskedListStatus(attempt, quiz, caller.Role, now)
			summary.AttemptID = &attempt.ID
			summary.AttemptStatus = &status
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}
