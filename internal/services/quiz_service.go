package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/campus-hub/quiz-service/internal/cache"
	"github.com/campus-hub/quiz-service/internal/events"
	"github.com/campus-hub/quiz-service/internal/models"
	"github.com/campus-hub/quiz-service/internal/repositories"
	"github.com/campus-hub/quiz-service/internal/utils"
	"gorm.io/gorm"
)

const quizCacheTTL = 5 * time.Minute

// QuizService covers the quiz-side surface the attempt lifecycle depends
// on: creating a quiz with its questions, replacing the question set (with
// the total-marks invariant), and publishing.
type QuizService interface {
	Create(ctx context.Context, req *CreateQuizRequest, caller models.Caller) (*models.Quiz, error)
	GetWithQuestions(ctx context.Context, quizID uint, caller models.Caller) (*models.Quiz, error)
	ReplaceQuestions(ctx context.Context, quizID uint, questions []QuestionInput, caller models.Caller) (*models.Quiz, error)
	Publish(ctx context.Context, quizID uint, caller models.Caller) error
	Delete(ctx context.Context, quizID uint, caller models.Caller) error
}

type CreateQuizRequest struct {
	ModuleID       uint            `json:"module_id" validate:"required"`
	Title          string          `json:"title" validate:"required,min=1,max=200"`
	Duration       int             `json:"duration" validate:"required,min=1,max=300"`
	AvailableFrom  *time.Time      `json:"available_from"`
	AvailableUntil *time.Time      `json:"available_until"`
	Questions      []QuestionInput `json:"questions" validate:"dive"`
}

type QuestionInput struct {
	Text          string  `json:"text" validate:"required"`
	OptionA       string  `json:"option_a" validate:"required"`
	OptionB       string  `json:"option_b" validate:"required"`
	OptionC       *string `json:"option_c"`
	OptionD       *string `json:"option_d"`
	CorrectOption string  `json:"correct_option" validate:"required,option_letter"`
	Marks         float64 `json:"marks" validate:"required,gt=0"`
}

type quizService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	cache     cache.CacheService
	logger    *slog.Logger
	validator *utils.Validator
}

func NewQuizService(
	repo repositories.Repository,
	publisher events.EventPublisher,
	cacheService cache.CacheService,
	logger *slog.Logger,
	validator *utils.Validator,
) QuizService {
	return &quizService{
		repo:      repo,
		publisher: publisher,
		cache:     cacheService,
		logger:    logger,
		validator: validator,
	}
}

func quizCacheKey(quizID uint) string {
	return fmt.Sprintf("quiz:%d:questions", quizID)
}

func (s *quizService) Create(ctx context.Context, req *CreateQuizRequest, caller models.Caller) (*models.Quiz, error) {
	if caller.Role != models.RoleLecturer && caller.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	questions, total, err := buildQuestions(req.Questions)
	if err != nil {
		return nil, err
	}

	quiz := &models.Quiz{
		ModuleID:       req.ModuleID,
		Title:          req.Title,
		LecturerID:     caller.ID,
		Duration:       req.Duration,
		AvailableFrom:  req.AvailableFrom,
		AvailableUntil: req.AvailableUntil,
		TotalMarks:     total,
		Questions:      questions,
	}

	err = s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		return s.repo.Quiz().Create(ctx, tx, quiz)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	s.logger.Info("Quiz created",
		"quiz_id", quiz.ID,
		"module_id", quiz.ModuleID,
		"lecturer_id", caller.ID,
		"questions_count", len(questions))

	return quiz, nil
}

func (s *quizService) GetWithQuestions(ctx context.Context, quizID uint, caller models.Caller) (*models.Quiz, error) {
	var cached models.Quiz
	if err := s.cache.Get(ctx, quizCacheKey(quizID), &cached); err == nil {
		return &cached, nil
	}

	quiz, err := s.repo.Quiz().GetByIDWithQuestions(ctx, nil, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	if err := s.cache.Set(ctx, quizCacheKey(quizID), quiz, quizCacheTTL); err != nil {
		s.logger.Warn("Failed to cache quiz", "quiz_id", quizID, "error", err)
	}
	return quiz, nil
}

// ReplaceQuestions swaps the full question set and recomputes total marks in
// the same transaction. Total marks is derived state; it must never be left
// stale after a question change.
func (s *quizService) ReplaceQuestions(ctx context.Context, quizID uint, inputs []QuestionInput, caller models.Caller) (*models.Quiz, error) {
	for i := range inputs {
		if err := s.validator.Validate(&inputs[i]); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}
	}

	questions, total, err := buildQuestions(inputs)
	if err != nil {
		return nil, err
	}

	var quiz *models.Quiz
	err = s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		quiz, err = s.repo.Quiz().GetByID(ctx, tx, quizID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrQuizNotFound
			}
			return fmt.Errorf("failed to get quiz: %w", err)
		}
		if err := s.authorizeOwner(quiz, caller, "edit_questions"); err != nil {
			return err
		}

		if err := s.repo.Question().ReplaceForQuiz(ctx, tx, quizID, questions); err != nil {
			return err
		}
		if err := s.repo.Quiz().UpdateTotalMarks(ctx, tx, quizID, total); err != nil {
			return fmt.Errorf("failed to update total marks: %w", err)
		}
		quiz.TotalMarks = total
		quiz.Questions = questions
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Delete(ctx, quizCacheKey(quizID)); err != nil {
		s.logger.Warn("Failed to invalidate quiz cache", "quiz_id", quizID, "error", err)
	}

	s.logger.Info("Quiz questions replaced",
		"quiz_id", quizID,
		"questions_count", len(questions),
		"total_marks", total)

	return quiz, nil
}

// Publish flips the published flag and hands a "quiz published" event to the
// notification dispatcher. The dispatch is best-effort and decoupled: a slow
// or failing notification path is logged and swallowed, never surfaced to
// the caller of publish.
func (s *quizService) Publish(ctx context.Context, quizID uint, caller models.Caller) error {
	var quiz *models.Quiz
	err := s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		quiz, err = s.repo.Quiz().GetByID(ctx, tx, quizID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrQuizNotFound
			}
			return fmt.Errorf("failed to get quiz: %w", err)
		}
		if err := s.authorizeOwner(quiz, caller, "publish"); err != nil {
			return err
		}
		return s.repo.Quiz().SetPublished(ctx, tx, quizID, true)
	})
	if err != nil {
		return err
	}

	if err := s.cache.Delete(ctx, quizCacheKey(quizID)); err != nil {
		s.logger.Warn("Failed to invalidate quiz cache", "quiz_id", quizID, "error", err)
	}

	s.logger.Info("Quiz published", "quiz_id", quizID, "lecturer_id", caller.ID)

	event := events.NewQuizPublishedEvent(
		quiz.ID, quiz.Title, quiz.ModuleID, quiz.LecturerID,
		quiz.Duration, quiz.AvailableFrom, quiz.AvailableUntil,
	)
	go func() {
		if err := s.publisher.PublishNotificationEvent(context.Background(), event); err != nil {
			s.logger.Error("Failed to publish quiz published event",
				"quiz_id", quiz.ID,
				"error", err)
		}
	}()

	return nil
}

func (s *quizService) Delete(ctx context.Context, quizID uint, caller models.Caller) error {
	err := s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		quiz, err := s.repo.Quiz().GetByID(ctx, tx, quizID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrQuizNotFound
			}
			return fmt.Errorf("failed to get quiz: %w", err)
		}
		if err := s.authorizeOwner(quiz, caller, "delete"); err != nil {
			return err
		}
		return s.repo.Quiz().Delete(ctx, tx, quizID)
	})
	if err != nil {
		return err
	}

	if err := s.cache.Delete(ctx, quizCacheKey(quizID)); err != nil {
		s.logger.Warn("Failed to invalidate quiz cache", "quiz_id", quizID, "error", err)
	}
	return nil
}

func (s *quizService) authorizeOwner(quiz *models.Quiz, caller models.Caller, action string) error {
	if caller.Role == models.RoleAdmin {
		return nil
	}
	if caller.Role == models.RoleLecturer && quiz.LecturerID == caller.ID {
		return nil
	}
	return NewPermissionError(caller.ID, quiz.ID, "quiz", action, "not quiz owner or admin")
}

// buildQuestions converts inputs to models and enforces the option
// invariant: the correct option must reference a populated option.
func buildQuestions(inputs []QuestionInput) ([]models.QuizQuestion, float64, error) {
	questions := make([]models.QuizQuestion, 0, len(inputs))
	var total float64

	for i, input := range inputs {
		question := models.QuizQuestion{
			Text:          input.Text,
			OptionA:       input.OptionA,
			OptionB:       input.OptionB,
			OptionC:       input.OptionC,
			OptionD:       input.OptionD,
			CorrectOption: input.CorrectOption,
			Marks:         input.Marks,
		}
		if !question.HasOption(input.CorrectOption) {
			return nil, 0, fmt.Errorf("question %d: %w", i+1, ErrQuestionBadOption)
		}
		total += input.Marks
		questions = append(questions, question)
	}
	return questions, total, nil
}
