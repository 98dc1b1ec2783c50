package services

import "time"

// DeadlineGrace is the tolerance window added past a nominal attempt
// deadline to absorb client/server clock drift and network latency. Every
// deadline check in the service (start/resume eligibility, result
// visibility, list masking) goes through this one constant; divergent grace
// values between call sites would be a correctness bug.
const DeadlineGrace = 10 * time.Second

// AttemptDeadline returns the instant an attempt's time window closes,
// grace included.
func AttemptDeadline(startedAt time.Time, durationMinutes int) time.Time {
	return startedAt.Add(time.Duration(durationMinutes) * time.Minute).Add(DeadlineGrace)
}

// IsAttemptExpired reports whether now is at or past the attempt's deadline.
// The deadline, not any stored status, is authoritative: callers re-derive
// expiry on every read instead of trusting a stale IN_PROGRESS.
func IsAttemptExpired(startedAt time.Time, durationMinutes int, now time.Time) bool {
	return !now.Before(AttemptDeadline(startedAt, durationMinutes))
}

// RemainingTime returns how long the attempt still has before its deadline,
// never negative.
func RemainingTime(startedAt time.Time, durationMinutes int, now time.Time) time.Duration {
	remaining := AttemptDeadline(startedAt, durationMinutes).Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}
