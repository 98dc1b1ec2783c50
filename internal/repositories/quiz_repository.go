package repositories

import (
	"context"

	"github.com/campus-hub/quiz-service/internal/models"
	"gorm.io/gorm"
)

// QuizRepository interface for quiz operations
type QuizRepository interface {
	Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error)
	GetByIDWithQuestions(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error)
	Update(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error // Soft delete, questions cascade

	ListByModule(ctx context.Context, tx *gorm.DB, moduleID uint, filters QuizFilters) ([]*models.Quiz, error)

	// UpdateTotalMarks persists the recomputed sum of question marks.
	// Total marks is derived state and must never be left stale after a
	// question change.
	UpdateTotalMarks(ctx context.Context, tx *gorm.DB, id uint, total float64) error

	SetPublished(ctx context.Context, tx *gorm.DB, id uint, published bool) error
	IsOwner(ctx context.Context, tx *gorm.DB, quizID uint, lecturerID string) (bool, error)
}

// QuestionRepository interface for quiz question operations
type QuestionRepository interface {
	GetByQuiz(ctx context.Context, tx *gorm.DB, quizID uint) ([]models.QuizQuestion, error)

	// ReplaceForQuiz swaps the full question set of a quiz in one shot
	// (delete-then-insert).
	ReplaceForQuiz(ctx context.Context, tx *gorm.DB, quizID uint, questions []models.QuizQuestion) error

	SumMarks(ctx context.Context, tx *gorm.DB, quizID uint) (float64, error)
}
