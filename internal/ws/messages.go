// Package ws holds WebSocket message types and the Hub implementation.
// messages.go defines all message structs broadcast to connected clients.
package ws

import (
	"time"

	"github.com/voxbet/terminal/internal/domain"
)

// MsgType identifies the kind of WS message so clients can switch on it.
type MsgType string

const (
	MsgTypeBetPlaced            MsgType = "bet_placed"
	MsgTypeBetCancelled         MsgType = "bet_cancelled"
	MsgTypeBetStatusChanged     MsgType = "bet_status_changed"
	MsgTypeConfirmationRequired MsgType = "confirmation_required"
	MsgTypeError                MsgType = "error"
)

// ──────────────────────────────────────────────────────────────────────────────
// Bet lifecycle messages
// ──────────────────────────────────────────────────────────────────────────────

// BetEventMessage notifies all clients of a ledger change so open terminals
// keep their betting slips in sync. The same shape serves placed, cancelled,
// and status-changed events; Type discriminates.
type BetEventMessage struct {
	Type      MsgType     `json:"type"`
	Bet       *domain.Bet `json:"bet"`
	Timestamp time.Time   `json:"timestamp"`
}

// ──────────────────────────────────────────────────────────────────────────────
// ConfirmationRequiredMessage — broadcast when the gate holds a candidate.
// ──────────────────────────────────────────────────────────────────────────────

// ConfirmationRequiredMessage tells clients a wager is parked awaiting a
// verbal "yes", so the UI can surface the confirmation prompt. Money fields
// are pre-formatted to two decimal places for direct rendering.
type ConfirmationRequiredMessage struct {
	Type         MsgType   `json:"type"`
	Selection    string    `json:"selection"`
	Match        string    `json:"match"`
	Stake        string    `json:"stake"`
	Odds         string    `json:"odds"`
	PotentialWin string    `json:"potentialWin"`
	Reason       string    `json:"reason"`
	Timestamp    time.Time `json:"timestamp"`
}

// ──────────────────────────────────────────────────────────────────────────────
// ErrorMessage — sent to a single client on a non-fatal error.
// ──────────────────────────────────────────────────────────────────────────────

// ErrorMessage is sent directly to one client (not broadcast).
type ErrorMessage struct {
	Type    MsgType `json:"type"`
	Code    string  `json:"code"`
	Message string  `json:"message"`
}
