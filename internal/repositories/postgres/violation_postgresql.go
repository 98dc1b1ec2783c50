package postgres

import (
	"context"

	"github.com/campus-hub/quiz-service/internal/models"
	"github.com/campus-hub/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

// ViolationPostgreSQL is intentionally append-and-count only: violation rows
// are an audit log and are never updated or deleted.
type ViolationPostgreSQL struct {
	db *gorm.DB
}

func NewViolationPostgreSQL(db *gorm.DB) repositories.ViolationRepository {
	return &ViolationPostgreSQL{db: db}
}

func (v *ViolationPostgreSQL) Create(ctx context.Context, tx *gorm.DB, violation *models.QuizViolation) error {
	return session(ctx, v.db, tx).Create(violation).Error
}

func (v *ViolationPostgreSQL) GetByAttempt(ctx context.Context, tx *gorm.DB, attemptID uint) ([]models.QuizViolation, error) {
	var violations []models.QuizViolation
	if err := session(ctx, v.db, tx).
		Where("attempt_id = ?", attemptID).
		Order("created_at ASC").
		Find(&violations).Error; err != nil {
		return nil, err
	}
	return violations, nil
}

func (v *ViolationPostgreSQL) CountByAttempt(ctx context.Context, tx *gorm.DB, attemptID uint) (int64, error) {
	var count int64
	if err := session(ctx, v.db, tx).
		Model(&models.QuizViolation{}).
		Where("attempt_id = ?", attemptID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
