// Package domain defines the core business entities for the voice betting
// terminal: bets, intents, and the reference catalogue.
package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ──────────────────────────────────────────────────────────────────────────────
// Types & constants
// ──────────────────────────────────────────────────────────────────────────────

// BetStatus represents the current state of a ledger bet.
type BetStatus string

const (
	BetStatusPending   BetStatus = "pending"   // committed, awaiting place-all
	BetStatusPlaced    BetStatus = "placed"    // confirmed by the user
	BetStatusCancelled BetStatus = "cancelled" // voided by the user
)

// IsValid returns true if the status is part of the ledger vocabulary.
// Settlement states (won/lost) are deliberately absent.
func (s BetStatus) IsValid() bool {
	return s == BetStatusPending || s == BetStatusPlaced || s == BetStatusCancelled
}

// DefaultOdds is the price used when neither the specific nor the general
// odds tier matches a selection.
var DefaultOdds = decimal.NewFromFloat(2.0)

// ──────────────────────────────────────────────────────────────────────────────
// Bet
// ──────────────────────────────────────────────────────────────────────────────

// Bet is a single ledger entry. IDs are assigned by the store in insertion
// order and never reused; CreatedAt is informational only — cancel-last
// always works on id order.
type Bet struct {
	ID           int64           `json:"id"           db:"id"`
	Selection    string          `json:"selection"    db:"selection"`
	Match        string          `json:"match"        db:"match"`
	Stake        decimal.Decimal `json:"stake"        db:"stake"`
	Odds         decimal.Decimal `json:"odds"         db:"odds"`
	PotentialWin decimal.Decimal `json:"potentialWin" db:"potential_win"`
	Status       BetStatus       `json:"status"       db:"status"`
	CreatedAt    time.Time       `json:"createdAt"    db:"created_at"`
}

// IsPending returns true while the bet can still be bulk-placed.
func (b *Bet) IsPending() bool {
	return b.Status == BetStatusPending
}

// MarshalJSON emits the money fields with exactly two decimal places,
// matching the DECIMAL(10,2) ledger columns. decimal.Decimal's own
// marshaller trims trailing zeros ("17.50" would become "17.5").
func (b Bet) MarshalJSON() ([]byte, error) {
	type wire struct {
		ID           int64     `json:"id"`
		Selection    string    `json:"selection"`
		Match        string    `json:"match"`
		Stake        string    `json:"stake"`
		Odds         string    `json:"odds"`
		PotentialWin string    `json:"potentialWin"`
		Status       BetStatus `json:"status"`
		CreatedAt    time.Time `json:"createdAt"`
	}
	return json.Marshal(wire{
		ID:           b.ID,
		Selection:    b.Selection,
		Match:        b.Match,
		Stake:        b.Stake.StringFixed(2),
		Odds:         b.Odds.StringFixed(2),
		PotentialWin: b.PotentialWin.StringFixed(2),
		Status:       b.Status,
		CreatedAt:    b.CreatedAt,
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// PricedBet — candidate produced by the pipeline, prior to any commit
// ──────────────────────────────────────────────────────────────────────────────

// PricedBet is a fully resolved and priced wager that has not yet touched
// the ledger. The potential win is derived, never stored independently of
// its inputs.
type PricedBet struct {
	Selection string          `json:"selection"`
	Match     string          `json:"match"`
	Stake     decimal.Decimal `json:"stake"`
	Odds      decimal.Decimal `json:"odds"`
}

// PotentialWin recomputes stake × odds rounded to two decimal places.
func (p PricedBet) PotentialWin() decimal.Decimal {
	return p.Stake.Mul(p.Odds).Round(2)
}

// MarshalJSON emits two-decimal money strings, same as Bet.
func (p PricedBet) MarshalJSON() ([]byte, error) {
	type wire struct {
		Selection string `json:"selection"`
		Match     string `json:"match"`
		Stake     string `json:"stake"`
		Odds      string `json:"odds"`
	}
	return json.Marshal(wire{
		Selection: p.Selection,
		Match:     p.Match,
		Stake:     p.Stake.StringFixed(2),
		Odds:      p.Odds.StringFixed(2),
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// PendingConfirmation — the gate's single slot
// ──────────────────────────────────────────────────────────────────────────────

// ConfirmReason explains why a candidate was held for confirmation.
type ConfirmReason string

const (
	ConfirmReasonHighValue     ConfirmReason = "high-value"
	ConfirmReasonLowConfidence ConfirmReason = "low-confidence"
)

// PendingConfirmation holds the one candidate awaiting an affirming
// utterance. A newer bet intent overwrites it — last writer wins.
type PendingConfirmation struct {
	Candidate PricedBet     `json:"candidate"`
	Reason    ConfirmReason `json:"reason"`
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateBetRequest — value object used by BetService
// ──────────────────────────────────────────────────────────────────────────────

// CreateBetRequest carries the validated inputs for creating a ledger bet.
type CreateBetRequest struct {
	Selection    string
	Match        string
	Stake        decimal.Decimal
	Odds         decimal.Decimal
	PotentialWin decimal.Decimal
	Status       BetStatus
}

// NewCreateBetRequest builds a request from a priced candidate, deriving
// the potential win at this moment; the value is frozen on commit.
func NewCreateBetRequest(p PricedBet) CreateBetRequest {
	return CreateBetRequest{
		Selection:    p.Selection,
		Match:        p.Match,
		Stake:        p.Stake,
		Odds:         p.Odds,
		PotentialWin: p.PotentialWin(),
		Status:       BetStatusPending,
	}
}
