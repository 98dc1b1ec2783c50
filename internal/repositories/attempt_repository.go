package repositories

import (
	"context"
	"time"

	"github.com/campus-hub/quiz-service/internal/models"
	"gorm.io/gorm"
)

// AttemptRepository interface for quiz attempt operations
type AttemptRepository interface {
	Create(ctx context.Context, tx *gorm.DB, attempt *models.QuizAttempt) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.QuizAttempt, error)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.QuizAttempt, error) // Include quiz, answers, violations
	Update(ctx context.Context, tx *gorm.DB, attempt *models.QuizAttempt) error

	// GetByIDForUpdate loads the attempt under a row lock. Every
	// read-modify-write of attempt state (submit, violation, restart) must
	// go through this inside a transaction so concurrent mutations of the
	// same attempt serialize instead of racing past each other's reads.
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.QuizAttempt, error)

	GetByQuizAndStudent(ctx context.Context, tx *gorm.DB, quizID uint, studentID string) (*models.QuizAttempt, error)
	GetByQuizAndStudentForUpdate(ctx context.Context, tx *gorm.DB, quizID uint, studentID string) (*models.QuizAttempt, error)
	GetByQuizzesAndStudent(ctx context.Context, tx *gorm.DB, quizIDs []uint, studentID string) ([]*models.QuizAttempt, error)
	ListByQuiz(ctx context.Context, tx *gorm.DB, quizID uint, filters AttemptFilters) ([]*models.QuizAttempt, error)

	// GetExpiredInProgress feeds the external timeout sweep: attempts still
	// nominally IN_PROGRESS whose deadline passed before cutoff. The service
	// itself never trusts a stale status and re-derives expiry on read.
	GetExpiredInProgress(ctx context.Context, tx *gorm.DB, cutoff time.Time) ([]*models.QuizAttempt, error)
}

// AnswerRepository interface for quiz answer operations
type AnswerRepository interface {
	GetByAttempt(ctx context.Context, tx *gorm.DB, attemptID uint) ([]models.QuizAnswer, error)

	// ReplaceForAttempt deletes the attempt's existing answers and inserts
	// the new set. Submit and restart always replace, never patch.
	ReplaceForAttempt(ctx context.Context, tx *gorm.DB, attemptID uint, answers []models.QuizAnswer) error

	DeleteForAttempt(ctx context.Context, tx *gorm.DB, attemptID uint) error
}

// ViolationRepository interface for the append-only proctoring log
type ViolationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, violation *models.QuizViolation) error
	GetByAttempt(ctx context.Context, tx *gorm.DB, attemptID uint) ([]models.QuizViolation, error)
	CountByAttempt(ctx context.Context, tx *gorm.DB, attemptID uint) (int64, error)
}
