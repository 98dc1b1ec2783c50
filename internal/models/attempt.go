package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "IN_PROGRESS"
	AttemptSubmitted  AttemptStatus = "SUBMITTED"
	// AttemptTimedOut is written by an external timeout sweep, never by this
	// service. It must still be accepted as an input state: while time
	// remains a resume flips it back to IN_PROGRESS.
	AttemptTimedOut  AttemptStatus = "TIMED_OUT"
	AttemptCancelled AttemptStatus = "CANCELLED"
)

func (s AttemptStatus) Valid() bool {
	switch s {
	case AttemptInProgress, AttemptSubmitted, AttemptTimedOut, AttemptCancelled:
		return true
	}
	return false
}

// Scan rejects unknown status values at the persistence boundary instead of
// propagating them into the state machine.
func (s *AttemptStatus) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("attempt status: cannot scan %T", value)
	}

	status := AttemptStatus(raw)
	if !status.Valid() {
		return fmt.Errorf("attempt status: unknown value %q", raw)
	}
	*s = status
	return nil
}

func (s AttemptStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("attempt status: unknown value %q", string(s))
	}
	return string(s), nil
}

// QuizAttempt is one student's timed instance of taking one quiz. At most one
// attempt exists per (quiz, student); restart mutates it in place rather than
// recreating it.
type QuizAttempt struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	QuizID    uint   `json:"quiz_id" gorm:"not null;uniqueIndex:idx_quiz_student"`
	StudentID string `json:"student_id" gorm:"not null;size:255;uniqueIndex:idx_quiz_student"`

	Status      AttemptStatus `json:"status" gorm:"not null;type:varchar(20);default:IN_PROGRESS;index"`
	StartedAt   time.Time     `json:"started_at" gorm:"not null"`
	SubmittedAt *time.Time    `json:"submitted_at"`
	Score       *float64      `json:"score"`
	Reason      *string       `json:"reason" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Quiz       Quiz            `json:"quiz,omitempty" gorm:"foreignKey:QuizID"`
	Answers    []QuizAnswer    `json:"answers,omitempty" gorm:"foreignKey:AttemptID;constraint:OnDelete:CASCADE"`
	Violations []QuizViolation `json:"violations,omitempty" gorm:"foreignKey:AttemptID"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// QuizAnswer belongs to one attempt and one question. The full answer set is
// replaced (delete-then-insert) on every submit and restart so scoring always
// sees a single consistent snapshot.
type QuizAnswer struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	AttemptID  uint `json:"attempt_id" gorm:"not null;uniqueIndex:idx_attempt_question"`
	QuestionID uint `json:"question_id" gorm:"not null;uniqueIndex:idx_attempt_question"`

	SelectedOption *string `json:"selected_option" gorm:"size:1"`
	IsCorrect      bool    `json:"is_correct"`

	CreatedAt time.Time `json:"created_at"`
}

func (QuizAnswer) TableName() string {
	return "quiz_answers"
}
