package postgres

import (
	"context"
	"fmt"

	"github.com/campus-hub/quiz-service/internal/models"
	"github.com/campus-hub/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

func (q *QuestionPostgreSQL) GetByQuiz(ctx context.Context, tx *gorm.DB, quizID uint) ([]models.QuizQuestion, error) {
	var questions []models.QuizQuestion
	if err := session(ctx, q.db, tx).
		Where("quiz_id = ?", quizID).
		Order("id ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) ReplaceForQuiz(ctx context.Context, tx *gorm.DB, quizID uint, questions []models.QuizQuestion) error {
	db := session(ctx, q.db, tx)

	if err := db.Where("quiz_id = ?", quizID).Delete(&models.QuizQuestion{}).Error; err != nil {
		return fmt.Errorf("failed to delete existing questions: %w", err)
	}
	if len(questions) == 0 {
		return nil
	}
	for i := range questions {
		questions[i].ID = 0
		questions[i].QuizID = quizID
	}
	if err := db.Create(&questions).Error; err != nil {
		return fmt.Errorf("failed to insert questions: %w", err)
	}
	return nil
}

func (q *QuestionPostgreSQL) SumMarks(ctx context.Context, tx *gorm.DB, quizID uint) (float64, error) {
	var total float64
	if err := session(ctx, q.db, tx).
		Model(&models.QuizQuestion{}).
		Where("quiz_id = ?", quizID).
		Select("COALESCE(SUM(marks), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
