package services

import (
	"context"
	"time"

	"github.com/campus-hub/quiz-service/internal/models"
	"github.com/campus-hub/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

// fakeStore is an in-memory repositories.Repository. Transactions are a
// no-op (fn runs against the same maps) and the tx handle is ignored, which
// is enough to exercise the service-level decision logic.
type fakeStore struct {
	quizzes       map[uint]*models.Quiz
	questions     map[uint][]models.QuizQuestion
	attempts      map[uint]*models.QuizAttempt
	answers       map[uint][]models.QuizAnswer
	violations    map[uint][]models.QuizViolation
	nextAttemptID uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		quizzes:       make(map[uint]*models.Quiz),
		questions:     make(map[uint][]models.QuizQuestion),
		attempts:      make(map[uint]*models.QuizAttempt),
		answers:       make(map[uint][]models.QuizAnswer),
		violations:    make(map[uint][]models.QuizViolation),
		nextAttemptID: 1,
	}
}

func (f *fakeStore) Quiz() repositories.QuizRepository           { return (*fakeQuizzes)(f) }
func (f *fakeStore) Question() repositories.QuestionRepository   { return (*fakeQuestions)(f) }
func (f *fakeStore) Attempt() repositories.AttemptRepository     { return (*fakeAttempts)(f) }
func (f *fakeStore) Answer() repositories.AnswerRepository       { return (*fakeAnswers)(f) }
func (f *fakeStore) Violation() repositories.ViolationRepository { return (*fakeViolations)(f) }

func (f *fakeStore) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func copyAttempt(a *models.QuizAttempt) *models.QuizAttempt {
	cp := *a
	return &cp
}

// ===== QUIZZES =====

type fakeQuizzes fakeStore

func (f *fakeQuizzes) Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error {
	f.quizzes[quiz.ID] = quiz
	return nil
}

func (f *fakeQuizzes) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error) {
	quiz, ok := f.quizzes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *quiz
	return &cp, nil
}

func (f *fakeQuizzes) GetByIDWithQuestions(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error) {
	quiz, err := f.GetByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	quiz.Questions = append([]models.QuizQuestion(nil), f.questions[id]...)
	return quiz, nil
}

func (f *fakeQuizzes) Update(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error {
	f.quizzes[quiz.ID] = quiz
	return nil
}

func (f *fakeQuizzes) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	delete(f.quizzes, id)
	delete(f.questions, id)
	return nil
}

func (f *fakeQuizzes) ListByModule(ctx context.Context, tx *gorm.DB, moduleID uint, filters repositories.QuizFilters) ([]*models.Quiz, error) {
	var out []*models.Quiz
	for _, quiz := range f.quizzes {
		if quiz.ModuleID != moduleID {
			continue
		}
		if filters.Published != nil && quiz.Published != *filters.Published {
			continue
		}
		cp := *quiz
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeQuizzes) UpdateTotalMarks(ctx context.Context, tx *gorm.DB, id uint, total float64) error {
	if quiz, ok := f.quizzes[id]; ok {
		quiz.TotalMarks = total
	}
	return nil
}

func (f *fakeQuizzes) SetPublished(ctx context.Context, tx *gorm.DB, id uint, published bool) error {
	quiz, ok := f.quizzes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	quiz.Published = published
	return nil
}

func (f *fakeQuizzes) IsOwner(ctx context.Context, tx *gorm.DB, quizID uint, lecturerID string) (bool, error) {
	quiz, ok := f.quizzes[quizID]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	return quiz.LecturerID == lecturerID, nil
}

// ===== QUESTIONS =====

type fakeQuestions fakeStore

func (f *fakeQuestions) GetByQuiz(ctx context.Context, tx *gorm.DB, quizID uint) ([]models.QuizQuestion, error) {
	return append([]models.QuizQuestion(nil), f.questions[quizID]...), nil
}

func (f *fakeQuestions) ReplaceForQuiz(ctx context.Context, tx *gorm.DB, quizID uint, questions []models.QuizQuestion) error {
	f.questions[quizID] = questions
	return nil
}

func (f *fakeQuestions) SumMarks(ctx context.Context, tx *gorm.DB, quizID uint) (float64, error) {
	var total float64
	for _, q := range f.questions[quizID] {
		total += q.Marks
	}
	return total, nil
}

// ===== ATTEMPTS =====

type fakeAttempts fakeStore

func (f *fakeAttempts) Create(ctx context.Context, tx *gorm.DB, attempt *models.QuizAttempt) error {
	attempt.ID = f.nextAttemptID
	f.nextAttemptID++
	f.attempts[attempt.ID] = copyAttempt(attempt)
	return nil
}

func (f *fakeAttempts) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.QuizAttempt, error) {
	attempt, ok := f.attempts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return copyAttempt(attempt), nil
}

func (f *fakeAttempts) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.QuizAttempt, error) {
	attempt, err := f.GetByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if quiz, ok := f.quizzes[attempt.QuizID]; ok {
		attempt.Quiz = *quiz
	}
	attempt.Answers = append([]models.QuizAnswer(nil), f.answers[id]...)
	attempt.Violations = append([]models.QuizViolation(nil), f.violations[id]...)
	return attempt, nil
}

func (f *fakeAttempts) Update(ctx context.Context, tx *gorm.DB, attempt *models.QuizAttempt) error {
	if _, ok := f.attempts[attempt.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.attempts[attempt.ID] = copyAttempt(attempt)
	return nil
}

func (f *fakeAttempts) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.QuizAttempt, error) {
	return f.GetByID(ctx, tx, id)
}

func (f *fakeAttempts) GetByQuizAndStudent(ctx context.Context, tx *gorm.DB, quizID uint, studentID string) (*models.QuizAttempt, error) {
	for _, attempt := range f.attempts {
		if attempt.QuizID == quizID && attempt.StudentID == studentID {
			return copyAttempt(attempt), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttempts) GetByQuizAndStudentForUpdate(ctx context.Context, tx *gorm.DB, quizID uint, studentID string) (*models.QuizAttempt, error) {
	return f.GetByQuizAndStudent(ctx, tx, quizID, studentID)
}

func (f *fakeAttempts) GetByQuizzesAndStudent(ctx context.Context, tx *gorm.DB, quizIDs []uint, studentID string) ([]*models.QuizAttempt, error) {
	ids := make(map[uint]bool, len(quizIDs))
	for _, id := range quizIDs {
		ids[id] = true
	}
	var out []*models.QuizAttempt
	for _, attempt := range f.attempts {
		if ids[attempt.QuizID] && attempt.StudentID == studentID {
			out = append(out, copyAttempt(attempt))
		}
	}
	return out, nil
}

func (f *fakeAttempts) ListByQuiz(ctx context.Context, tx *gorm.DB, quizID uint, filters repositories.AttemptFilters) ([]*models.QuizAttempt, error) {
	var out []*models.QuizAttempt
	for _, attempt := range f.attempts {
		if attempt.QuizID == quizID {
			out = append(out, copyAttempt(attempt))
		}
	}
	return out, nil
}

func (f *fakeAttempts) GetExpiredInProgress(ctx context.Context, tx *gorm.DB, cutoff time.Time) ([]*models.QuizAttempt, error) {
	var out []*models.QuizAttempt
	for _, attempt := range f.attempts {
		if attempt.Status != models.AttemptInProgress {
			continue
		}
		quiz, ok := f.quizzes[attempt.QuizID]
		if !ok {
			continue
		}
		if attempt.StartedAt.Add(time.Duration(quiz.Duration) * time.Minute).Before(cutoff) {
			out = append(out, copyAttempt(attempt))
		}
	}
	return out, nil
}

// ===== ANSWERS =====

type fakeAnswers fakeStore

func (f *fakeAnswers) GetByAttempt(ctx context.Context, tx *gorm.DB, attemptID uint) ([]models.QuizAnswer, error) {
	return append([]models.QuizAnswer(nil), f.answers[attemptID]...), nil
}

func (f *fakeAnswers) ReplaceForAttempt(ctx context.Context, tx *gorm.DB, attemptID uint, answers []models.QuizAnswer) error {
	rows := make([]models.QuizAnswer, len(answers))
	copy(rows, answers)
	for i := range rows {
		rows[i].AttemptID = attemptID
	}
	f.answers[attemptID] = rows
	return nil
}

func (f *fakeAnswers) DeleteForAttempt(ctx context.Context, tx *gorm.DB, attemptID uint) error {
	delete(f.answers, attemptID)
	return nil
}

// ===== VIOLATIONS =====

type fakeViolations fakeStore

func (f *fakeViolations) Create(ctx context.Context, tx *gorm.DB, violation *models.QuizViolation) error {
	violation.ID = uint(len(f.violations[violation.AttemptID]) + 1)
	f.violations[violation.AttemptID] = append(f.violations[violation.AttemptID], *violation)
	return nil
}

func (f *fakeViolations) GetByAttempt(ctx context.Context, tx *gorm.DB, attemptID uint) ([]models.QuizViolation, error) {
	return append([]models.QuizViolation(nil), f.violations[attemptID]...), nil
}

func (f *fakeViolations) CountByAttempt(ctx context.Context, tx *gorm.DB, attemptID uint) (int64, error) {
	return int64(len(f.violations[attemptID])), nil
}
