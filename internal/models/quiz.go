package models

import (
	"time"

	"gorm.io/gorm"
)

type Quiz struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	ModuleID   uint   `json:"module_id" gorm:"not null;index"`
	Title      string `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	LecturerID string `json:"lecturer_id" gorm:"not null;index;size:255"`

	Duration       int        `json:"duration" gorm:"not null" validate:"required,min=1,max=300"` // minutes
	AvailableFrom  *time.Time `json:"available_from"`
	AvailableUntil *time.Time `json:"available_until"`
	Published      bool       `json:"published" gorm:"default:false;index"`

	// Derived from question marks; recomputed on every question change,
	// never patched incrementally.
	TotalMarks float64 `json:"total_marks" gorm:"not null;default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Questions []QuizQuestion `json:"questions" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
	Attempts  []QuizAttempt  `json:"attempts,omitempty" gorm:"foreignKey:QuizID"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

type QuizQuestion struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	QuizID uint `json:"quiz_id" gorm:"not null;index"`

	Text    string  `json:"text" gorm:"not null;type:text" validate:"required"`
	OptionA string  `json:"option_a" gorm:"not null;type:text" validate:"required"`
	OptionB string  `json:"option_b" gorm:"not null;type:text" validate:"required"`
	OptionC *string `json:"option_c" gorm:"type:text"`
	OptionD *string `json:"option_d" gorm:"type:text"`

	CorrectOption string  `json:"correct_option" gorm:"not null;size:1" validate:"required,option_letter"`
	Marks         float64 `json:"marks" gorm:"not null" validate:"required,gt=0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// OptionText returns the text behind an option letter, or nil when the
// option is not populated. CorrectOption must always reference a populated
// option; HasOption is the guard the quiz service enforces on every write.
func (q *QuizQuestion) OptionText(letter string) *string {
	switch letter {
	case "A":
		return &q.OptionA
	case "B":
		return &q.OptionB
	case "C":
		return q.OptionC
	case "D":
		return q.OptionD
	}
	return nil
}

func (q *QuizQuestion) HasOption(letter string) bool {
	text := q.OptionText(letter)
	return text != nil && *text != ""
}
