package postgres

import (
	"context"
	"fmt"

	"github.com/campus-hub/quiz-service/internal/models"
	"github.com/campus-hub/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type AnswerPostgreSQL struct {
	db *gorm.DB
}

func NewAnswerPostgreSQL(db *gorm.DB) repositories.AnswerRepository {
	return &AnswerPostgreSQL{db: db}
}

func (a *AnswerPostgreSQL) GetByAttempt(ctx context.Context, tx *gorm.DB, attemptID uint) ([]models.QuizAnswer, error) {
	var answers []models.QuizAnswer
	if err := session(ctx, a.db, tx).
		Where("attempt_id = ?", attemptID).
		Order("question_id ASC").
		Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (a *AnswerPostgreSQL) ReplaceForAttempt(ctx context.Context, tx *gorm.DB, attemptID uint, answers []models.QuizAnswer) error {
	db := session(ctx, a.db, tx)

	if err := db.Where("attempt_id = ?", attemptID).Delete(&models.QuizAnswer{}).Error; err != nil {
		return fmt.Errorf("failed to delete existing answers: %w", err)
	}
	if len(answers) == 0 {
		return nil
	}
	for i := range answers {
		answers[i].ID = 0
		answers[i].AttemptID = attemptID
	}
	if err := db.Create(&answers).Error; err != nil {
		return fmt.Errorf("failed to insert answers: %w", err)
	}
	return nil
}

func (a *AnswerPostgreSQL) DeleteForAttempt(ctx context.Context, tx *gorm.DB, attemptID uint) error {
	return session(ctx, a.db, tx).
		Where("attempt_id = ?", attemptID).
		Delete(&models.QuizAnswer{}).Error
}
