package services

import (
	"fmt"

	"github.com/campus-hub/quiz-service/internal/models"
)

// MaxViolationsPerAttempt is the escalation threshold: reaching it cancels
// the attempt regardless of whether the client asked for an explicit cancel.
const MaxViolationsPerAttempt = 5

// ViolationDecision is the outcome of recording one proctoring violation.
type ViolationDecision struct {
	Count          int64  `json:"violation_count"`
	Cancelled      bool   `json:"cancelled"`
	WarningMessage string `json:"warning_message,omitempty"`
	Reason         string `json:"-"`
}

// EvaluateViolation applies the escalation policy to the violation count
// after the insert. The count is attempt-scoped and cumulative; nothing
// resets it, including lecturer restart (the audit log survives restarts).
func EvaluateViolation(violationType models.ViolationType, details string, explicitCancel bool, countAfterInsert int64) ViolationDecision {
	decision := ViolationDecision{Count: countAfterInsert}

	if explicitCancel || countAfterInsert >= MaxViolationsPerAttempt {
		decision.Cancelled = true
		decision.Reason = details
		if decision.Reason == "" {
			decision.Reason = fmt.Sprintf("cancelled after security violation: %s", violationType)
		}
		return decision
	}

	decision.WarningMessage = fmt.Sprintf("Security Warning (%d/%d)", countAfterInsert, MaxViolationsPerAttempt)
	return decision
}
