package repositories

import (
	"context"
	"errors"

	"github.com/campus-hub/quiz-service/internal/models"
	"gorm.io/gorm"
)

// Repository aggregates the per-entity stores. Implementations are expected
// to be stateless; callers pass an optional transaction handle to every
// operation and use WithTransaction to group writes into one atomic unit.
type Repository interface {
	Quiz() QuizRepository
	Question() QuestionRepository
	Attempt() AttemptRepository
	Answer() AnswerRepository
	Violation() ViolationRepository

	// WithTransaction runs fn inside a single database transaction. The tx
	// handle passed to fn must be forwarded to every repository call made
	// within it.
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// IsNotFoundError reports whether err represents a missing record.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// ===== SHARED FILTER STRUCTS =====

type QuizFilters struct {
	ModuleID   *uint   `json:"module_id"`
	LecturerID *string `json:"lecturer_id"`
	Published  *bool   `json:"published"`
	Limit      int     `json:"limit"`
	Offset     int     `json:"offset"`
	SortBy     string  `json:"sort_by"`    // "created_at", "title"
	SortOrder  string  `json:"sort_order"` // "asc", "desc"
}

type AttemptFilters struct {
	QuizID    *uint                 `json:"quiz_id"`
	StudentID *string               `json:"student_id"`
	Status    *models.AttemptStatus `json:"status"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
}
