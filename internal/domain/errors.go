package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Engine argument errors. These are caller contract violations: the
	// engine rejects them without mutating state.
	ErrNegativeXP     = errors.New("xp amount must be non-negative")
	ErrEmptySubject   = errors.New("subject tag must not be empty")
	ErrUnknownCategory = errors.New("unknown achievement category")

	// Achievement log errors
	ErrAchievementNotFound = errors.New("achievement not found")

	// Auth client errors
	ErrAuthRejected    = errors.New("authentication rejected")
	ErrAuthUnavailable = errors.New("auth service unreachable")
)
