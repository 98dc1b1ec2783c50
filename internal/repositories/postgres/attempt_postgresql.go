package postgres

import (
	"context"
	"time"

	"github.com/campus-hub/quiz-service/internal/models"
	"github.com/campus-hub/quiz-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttemptPostgreSQL struct {
	db *gorm.DB
}

func NewAttemptPostgreSQL(db *gorm.DB) repositories.AttemptRepository {
	return &AttemptPostgreSQL{db: db}
}

func (a *AttemptPostgreSQL) Create(ctx context.Context, tx *gorm.DB, attempt *models.QuizAttempt) error {
	return session(ctx, a.db, tx).Create(attempt).Error
}

func (a *AttemptPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	if err := session(ctx, a.db, tx).First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (a *AttemptPostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	if err := session(ctx, a.db, tx).
		Preload("Quiz").
		Preload("Answers").
		Preload("Violations").
		First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (a *AttemptPostgreSQL) Update(ctx context.Context, tx *gorm.DB, attempt *models.QuizAttempt) error {
	return session(ctx, a.db, tx).Save(attempt).Error
}

// GetByIDForUpdate takes a SELECT ... FOR UPDATE row lock; concurrent
// mutations of the same attempt serialize on this row for the duration of
// the surrounding transaction.
func (a *AttemptPostgreSQL) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	if err := session(ctx, a.db, tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (a *AttemptPostgreSQL) GetByQuizAndStudent(ctx context.Context, tx *gorm.DB, quizID uint, studentID string) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	if err := session(ctx, a.db, tx).
		Where("quiz_id = ? AND student_id = ?", quizID, studentID).
		First(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (a *AttemptPostgreSQL) GetByQuizAndStudentForUpdate(ctx context.Context, tx *gorm.DB, quizID uint, studentID string) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	if err := session(ctx, a.db, tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("quiz_id = ? AND student_id = ?", quizID, studentID).
		First(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (a *AttemptPostgreSQL) GetByQuizzesAndStudent(ctx context.Context, tx *gorm.DB, quizIDs []uint, studentID string) ([]*models.QuizAttempt, error) {
	if len(quizIDs) == 0 {
		return nil, nil
	}

	var attempts []*models.QuizAttempt
	if err := session(ctx, a.db, tx).
		Where("quiz_id IN ? AND student_id = ?", quizIDs, studentID).
		Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (a *AttemptPostgreSQL) ListByQuiz(ctx context.Context, tx *gorm.DB, quizID uint, filters repositories.AttemptFilters) ([]*models.QuizAttempt, error) {
	query := session(ctx, a.db, tx).
		Model(&models.QuizAttempt{}).
		Where("quiz_id = ?", quizID)

	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var attempts []*models.QuizAttempt
	if err := query.Order("started_at ASC").Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

// GetExpiredInProgress returns attempts still marked IN_PROGRESS whose quiz
// deadline passed before cutoff. Consumed by the external timeout sweep.
func (a *AttemptPostgreSQL) GetExpiredInProgress(ctx context.Context, tx *gorm.DB, cutoff time.Time) ([]*models.QuizAttempt, error) {
	var attempts []*models.QuizAttempt
	if err := session(ctx, a.db, tx).
		Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
		Where("quiz_attempts.status = ?", models.AttemptInProgress).
		Where("quiz_attempts.started_at + (quizzes.duration * INTERVAL '1 minute') < ?", cutoff).
		Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}
