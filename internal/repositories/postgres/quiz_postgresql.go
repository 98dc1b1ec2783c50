package postgres

import (
	"context"

	"github.com/campus-hub/quiz-service/internal/models"
	"github.com/campus-hub/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type QuizPostgreSQL struct {
	db *gorm.DB
}

func NewQuizPostgreSQL(db *gorm.DB) repositories.QuizRepository {
	return &QuizPostgreSQL{db: db}
}

func (q *QuizPostgreSQL) Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error {
	return session(ctx, q.db, tx).Create(quiz).Error
}

func (q *QuizPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := session(ctx, q.db, tx).First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (q *QuizPostgreSQL) GetByIDWithQuestions(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := session(ctx, q.db, tx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (q *QuizPostgreSQL) Update(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error {
	return session(ctx, q.db, tx).Save(quiz).Error
}

func (q *QuizPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return session(ctx, q.db, tx).Delete(&models.Quiz{}, id).Error
}

func (q *QuizPostgreSQL) ListByModule(ctx context.Context, tx *gorm.DB, moduleID uint, filters repositories.QuizFilters) ([]*models.Quiz, error) {
	var quizzes []*models.Quiz

	query := session(ctx, q.db, tx).Model(&models.Quiz{}).Where("module_id = ?", moduleID)
	if filters.Published != nil {
		query = query.Where("published = ?", *filters.Published)
	}
	if filters.LecturerID != nil {
		query = query.Where("lecturer_id = ?", *filters.LecturerID)
	}
	query = applySortAndPage(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (q *QuizPostgreSQL) UpdateTotalMarks(ctx context.Context, tx *gorm.DB, id uint, total float64) error {
	return session(ctx, q.db, tx).
		Model(&models.Quiz{}).
		Where("id = ?", id).
		Update("total_marks", total).Error
}

func (q *QuizPostgreSQL) SetPublished(ctx context.Context, tx *gorm.DB, id uint, published bool) error {
	return session(ctx, q.db, tx).
		Model(&models.Quiz{}).
		Where("id = ?", id).
		Update("published", published).Error
}

func (q *QuizPostgreSQL) IsOwner(ctx context.Context, tx *gorm.DB, quizID uint, lecturerID string) (bool, error) {
	var count int64
	if err := session(ctx, q.db, tx).
		Model(&models.Quiz{}).
		Where("id = ? AND lecturer_id = ?", quizID, lecturerID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func applySortAndPage(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	switch sortBy {
	case "title":
		sortBy = "title"
	case "created_at", "":
		sortBy = "created_at"
	default:
		sortBy = "created_at"
	}
	if sortOrder != "asc" {
		sortOrder = "desc"
	}
	query = query.Order(sortBy + " " + sortOrder)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}
