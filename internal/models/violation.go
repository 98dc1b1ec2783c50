package models

import (
	"time"

	"gorm.io/datatypes"
)

type ViolationType string

const (
	ViolationTabSwitch      ViolationType = "tab_switch"
	ViolationWindowBlur     ViolationType = "window_blur"
	ViolationFullscreenExit ViolationType = "fullscreen_exit"
	ViolationMultipleFaces  ViolationType = "multiple_faces"
	ViolationNoFace         ViolationType = "no_face"
	ViolationCopyPaste      ViolationType = "copy_paste"
	ViolationScreenshot     ViolationType = "screenshot"
	ViolationOther          ViolationType = "other"
)

func (t ViolationType) Valid() bool {
	switch t {
	case ViolationTabSwitch, ViolationWindowBlur, ViolationFullscreenExit,
		ViolationMultipleFaces, ViolationNoFace, ViolationCopyPaste,
		ViolationScreenshot, ViolationOther:
		return true
	}
	return false
}

// QuizViolation is an append-only proctoring log entry. Rows are never
// mutated or deleted; they survive restarts as an audit trail and are only
// ever counted.
type QuizViolation struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	AttemptID uint          `json:"attempt_id" gorm:"not null;index"`
	Type      ViolationType `json:"type" gorm:"not null;size:40" validate:"required,violation_type"`
	Details   string        `json:"details" gorm:"type:text"`

	// Raw client context (user agent, screen state, ...) for audit review.
	Metadata datatypes.JSON `json:"metadata,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
}

func (QuizViolation) TableName() string {
	return "quiz_violations"
}
