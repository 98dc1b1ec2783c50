package postgres

import (
	"context"

	"github.com/campus-hub/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type Repository struct {
	db        *gorm.DB
	quiz      repositories.QuizRepository
	question  repositories.QuestionRepository
	attempt   repositories.AttemptRepository
	answer    repositories.AnswerRepository
	violation repositories.ViolationRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &Repository{
		db:        db,
		quiz:      NewQuizPostgreSQL(db),
		question:  NewQuestionPostgreSQL(db),
		attempt:   NewAttemptPostgreSQL(db),
		answer:    NewAnswerPostgreSQL(db),
		violation: NewViolationPostgreSQL(db),
	}
}

func (r *Repository) Quiz() repositories.QuizRepository           { return r.quiz }
func (r *Repository) Question() repositories.QuestionRepository   { return r.question }
func (r *Repository) Attempt() repositories.AttemptRepository     { return r.attempt }
func (r *Repository) Answer() repositories.AnswerRepository       { return r.answer }
func (r *Repository) Violation() repositories.ViolationRepository { return r.violation }

func (r *Repository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// session resolves the gorm handle for a call: the surrounding transaction
// when one was passed, the root connection otherwise.
func session(ctx context.Context, db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
