package events

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
)

// EventType represents different types of notification events
type EventType string

const (
	EventQuizPublished EventType = "quiz.published"
)

// NotificationEvent is the base event structure for all notification events
type NotificationEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// QuizPublishedEvent tells the notification service to fan a "quiz
// published" message out to the module's enrolled students.
type QuizPublishedEvent struct {
	QuizID     uint       `json:"quiz_id"`
	QuizTitle  string     `json:"quiz_title"`
	ModuleID   uint       `json:"module_id"`
	LecturerID string     `json:"lecturer_id"`
	Duration   int        `json:"duration"` // minutes
	OpensAt    *time.Time `json:"opens_at,omitempty"`
	ClosesAt   *time.Time `json:"closes_at,omitempty"`
}

func NewQuizPublishedEvent(quizID uint, title string, moduleID uint, lecturerID string, duration int, opensAt, closesAt *time.Time) *NotificationEvent {
	return &NotificationEvent{
		ID:        GenerateEventID(),
		Type:      EventQuizPublished,
		Timestamp: time.Now(),
		Source:    "quiz-service",
		Version:   "1.0",
		Data: QuizPublishedEvent{
			QuizID:     quizID,
			QuizTitle:  title,
			ModuleID:   moduleID,
			LecturerID: lecturerID,
			Duration:   duration,
			OpensAt:    opensAt,
			ClosesAt:   closesAt,
		},
	}
}

// GenerateEventID returns a unique id for a notification event.
func GenerateEventID() string {
	return watermill.NewUUID()
}
