package services

import (
	"errors"
	"fmt"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound      = errors.New("resource not found")
	ErrForbidden     = errors.New("forbidden - insufficient permissions")
	ErrInternalError = errors.New("internal server error")

	// Quiz specific errors
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrQuizNotPublished   = errors.New("quiz is not published")
	ErrQuizNotAvailable   = errors.New("quiz is outside its availability window")
	ErrQuestionBadOption  = errors.New("correct option does not reference a populated option")
	ErrQuizAccessDenied   = errors.New("access denied to quiz")
	ErrModuleAccessDenied = errors.New("access denied to module")

	// Attempt specific errors
	ErrAttemptNotFound     = errors.New("attempt not found")
	ErrAttemptExpired      = errors.New("time for this attempt has expired")
	ErrAttemptCancelled    = errors.New("attempt was cancelled due to a security violation")
	ErrAttemptNotActive    = errors.New("attempt is not in progress")
	ErrAttemptFinished     = errors.New("attempt is already finished")
	ErrAttemptAccessDenied = errors.New("access denied to attempt")
)

// ===== CUSTOM ERROR TYPES =====

type PermissionError struct {
	UserID     string `json:"user_id"`
	ResourceID uint   `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s %d - %s",
		pe.UserID, pe.Action, pe.Resource, pe.ResourceID, pe.Reason)
}

func NewPermissionError(userID string, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrQuizNotFound) ||
		errors.Is(err, ErrAttemptNotFound)
}

// IsForbidden checks if error represents a permission failure
func IsForbidden(err error) bool {
	if errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrQuizAccessDenied) ||
		errors.Is(err, ErrModuleAccessDenied) ||
		errors.Is(err, ErrAttemptAccessDenied) {
		return true
	}
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsInvalidState checks if error represents a rejected state transition
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrAttemptNotActive) ||
		errors.Is(err, ErrAttemptFinished) ||
		errors.Is(err, ErrQuizNotPublished) ||
		errors.Is(err, ErrQuizNotAvailable)
}

// IsExpired checks if error represents a deadline rejection
func IsExpired(err error) bool {
	return errors.Is(err, ErrAttemptExpired)
}

// IsCancelled checks if error represents a terminal cancelled attempt
func IsCancelled(err error) bool {
	return errors.Is(err, ErrAttemptCancelled)
}
