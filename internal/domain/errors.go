package domain

import (
	"errors"
)

// ──────────────────────────────────────────────────────────────────────────────
// Sentinel errors — compare with errors.Is()
// ──────────────────────────────────────────────────────────────────────────────

// Ledger errors
var (
	// ErrBetNotFound is returned when no bet matches the given id.
	ErrBetNotFound = errors.New("bet not found")

	// ErrNoBetsToCancel is returned by cancel-last on an empty ledger.
	ErrNoBetsToCancel = errors.New("no bets to cancel")

	// ErrMatchNotFound is returned when no catalogue match has the given id.
	ErrMatchNotFound = errors.New("match not found")
)

// Validation errors — rejected before the request reaches the pipeline.
var (
	// ErrInvalidStake is returned when a stake is non-numeric, zero, or negative.
	ErrInvalidStake = errors.New("stake must be a positive decimal")

	// ErrInvalidOdds is returned when odds are non-numeric, zero, or negative.
	ErrInvalidOdds = errors.New("odds must be a positive decimal")

	// ErrInvalidStatus is returned when a status is outside
	// pending/placed/cancelled. Settlement statuses are not accepted.
	ErrInvalidStatus = errors.New("invalid bet status")

	// ErrEmptyCommand is returned when a voice command body carries no text.
	ErrEmptyCommand = errors.New("command text must not be empty")
)

// Collaborator errors
var (
	// ErrOracleUnavailable is returned when the semantic validator is not
	// configured or unreachable. Callers degrade to the deterministic
	// parser rather than failing the session.
	ErrOracleUnavailable = errors.New("semantic validator unavailable")
)

// ──────────────────────────────────────────────────────────────────────────────
// Helper predicates
// ──────────────────────────────────────────────────────────────────────────────

// notFoundErrors collects the "entity not found" sentinels so IsNotFound
// stays in sync automatically.
var notFoundErrors = []error{
	ErrBetNotFound,
	ErrMatchNotFound,
	ErrNoBetsToCancel,
}

// IsNotFound returns true when err (or any error in its chain) is one of
// the domain "not found" errors. Use this instead of comparing error values
// directly when translating domain errors to HTTP 404 responses.
func IsNotFound(err error) bool {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsValidation returns true for client-input errors that map to HTTP 400.
func IsValidation(err error) bool {
	validationErrors := []error{
		ErrInvalidStake,
		ErrInvalidOdds,
		ErrInvalidStatus,
		ErrEmptyCommand,
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
