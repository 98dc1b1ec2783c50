package services

import (
	"testing"
	"time"

	"github.com/campus-hub/quiz-service/internal/models"
)

func visibilityFixtures() (*models.QuizAttempt, *models.Quiz, []models.QuizAnswer) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	submitted := start.Add(10 * time.Minute)
	score := 7.5
	attempt := &models.QuizAttempt{
		ID:          42,
		QuizID:      7,
		StudentID:   "student-1",
		Status:      models.AttemptSubmitted,
		StartedAt:   start,
		SubmittedAt: &submitted,
		Score:       &score,
	}
	quiz := &models.Quiz{ID: 7, Duration: 30}
	answers := []models.QuizAnswer{
		{AttemptID: 42, QuestionID: 1, SelectedOption: strPtr("A"), IsCorrect: true},
		{AttemptID: 42, QuestionID: 2, SelectedOption: strPtr("C"), IsCorrect: false},
	}
	return attempt, quiz, answers
}

func TestBuildAttemptView(t *testing.T) {
	t.Run("student before deadline gets redacted view", func(t *testing.T) {
		attempt, quiz, answers := visibilityFixtures()
		now := attempt.StartedAt.Add(10 * time.Minute)

		view := BuildAttemptView(attempt, quiz, answers, models.RoleStudent, now)
		if !view.ResultsPending {
			t.Error("results_pending = false, want true while time remains")
		}
		if view.Score != nil {
			t.Errorf("score = %v, want nil", *view.Score)
		}
		if len(view.Answers) != 0 {
			t.Errorf("answers leaked: %d rows", len(view.Answers))
		}
		if view.Status != models.AttemptSubmitted {
			t.Errorf("detail view status = %s, want SUBMITTED unmasked", view.Status)
		}
	})

	t.Run("student after deadline plus grace gets full view", func(t *testing.T) {
		attempt, quiz, answers := visibilityFixtures()
		now := attempt.StartedAt.Add(31 * time.Minute)

		view := BuildAttemptView(attempt, quiz, answers, models.RoleStudent, now)
		if view.ResultsPending {
			t.Error("results_pending = true after the window closed")
		}
		if view.Score == nil || *view.Score != 7.5 {
			t.Errorf("score = %v, want 7.5", view.Score)
		}
		if len(view.Answers) != 2 {
			t.Errorf("answers = %d, want 2", len(view.Answers))
		}
	})

	t.Run("cancelled attempt is never redacted", func(t *testing.T) {
		attempt, quiz, answers := visibilityFixtures()
		attempt.Status = models.AttemptCancelled
		now := attempt.StartedAt.Add(5 * time.Minute)

		view := BuildAttemptView(attempt, quiz, answers, models.RoleStudent, now)
		if view.ResultsPending {
			t.Error("cancelled attempt should show full detail immediately")
		}
		if view.Score == nil {
			t.Error("score withheld on cancelled attempt")
		}
	})

	t.Run("lecturer always sees the full record", func(t *testing.T) {
		attempt, quiz, answers := visibilityFixtures()
		now := attempt.StartedAt.Add(1 * time.Minute)

		view := BuildAttemptView(attempt, quiz, answers, models.RoleLecturer, now)
		if view.ResultsPending || view.Score == nil || len(view.Answers) != 2 {
			t.Errorf("lecturer view redacted: pending=%v score=%v answers=%d",
				view.ResultsPending, view.Score, len(view.Answers))
		}
	})

	t.Run("remaining seconds clamp at zero", func(t *testing.T) {
		attempt, quiz, answers := visibilityFixtures()
		now := attempt.StartedAt.Add(2 * time.Hour)

		view := BuildAttemptView(attempt, quiz, answers, models.RoleAdmin, now)
		if view.RemainingSecs != 0 {
			t.Errorf("remaining_seconds = %d, want 0", view.RemainingSecs)
		}
	})
}

func TestMaskedListStatus(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	quiz := &models.Quiz{ID: 7, Duration: 30}

	tests := []struct {
		name   string
		status models.AttemptStatus
		role   models.UserRole
		now    time.Time
		want   models.AttemptStatus
	}{
		{
			name:   "student submitted with time left is masked",
			status: models.AttemptSubmitted,
			role:   models.RoleStudent,
			now:    start.Add(10 * time.Minute),
			want:   models.AttemptInProgress,
		},
		{
			name:   "student timed out with time left is masked",
			status: models.AttemptTimedOut,
			role:   models.RoleStudent,
			now:    start.Add(10 * time.Minute),
			want:   models.AttemptInProgress,
		},
		{
			name:   "student submitted after the window shows true status",
			status: models.AttemptSubmitted,
			role:   models.RoleStudent,
			now:    start.Add(31 * time.Minute),
			want:   models.AttemptSubmitted,
		},
		{
			name:   "cancelled is never masked",
			status: models.AttemptCancelled,
			role:   models.RoleStudent,
			now:    start.Add(5 * time.Minute),
			want:   models.AttemptCancelled,
		},
		{
			name:   "lecturer sees true status regardless of time",
			status: models.AttemptSubmitted,
			role:   models.RoleLecturer,
			now:    start.Add(5 * time.Minute),
			want:   models.AttemptSubmitted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempt := &models.QuizAttempt{Status: tt.status, StartedAt: start}
			if got := MaskedListStatus(attempt, quiz, tt.role, tt.now); got != tt.want {
				t.Errorf("MaskedListStatus() = %s, want %s", got, tt.want)
			}
		})
	}
}
