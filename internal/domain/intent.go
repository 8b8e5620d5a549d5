package domain

import (
	"github.com/shopspring/decimal"
)

// ──────────────────────────────────────────────────────────────────────────────
// Intent — the structured interpretation of one utterance
// ──────────────────────────────────────────────────────────────────────────────

// IntentType discriminates the Intent variant.
type IntentType string

const (
	IntentBet       IntentType = "bet"
	IntentShowOdds  IntentType = "show_odds"
	IntentCancelBet IntentType = "cancel_bet"
	IntentAffirm    IntentType = "affirm"
	IntentUnknown   IntentType = "unknown"
)

// Intent is produced fresh per utterance and never mutated. Both the
// deterministic parser and the external oracle emit this same shape, with
// a confidence score attached, so the confirmation gate never needs to
// know which producer it is looking at.
type Intent struct {
	Type IntentType

	// Bet fields — populated only when Type == IntentBet.
	Stake        decimal.Decimal
	RawSelection string
	RawOutcome   string
	ExplicitOdds *decimal.Decimal // odds spoken by the user, bypasses inference

	// Unknown payload — the verbatim utterance, for help messages and logs.
	RawText string

	// Confidence in [0,1]; the gate compares it against the configured floor.
	Confidence float64
}

// IsBet returns true for the bet variant.
func (i Intent) IsBet() bool { return i.Type == IntentBet }

// WithConfidence returns a copy with the confidence replaced. Used when an
// upstream transcription confidence is lower than the parser's own score.
func (i Intent) WithConfidence(c float64) Intent {
	i.Confidence = c
	return i
}

// UnknownIntent builds the fallback variant for unparseable input.
func UnknownIntent(rawText string) Intent {
	return Intent{Type: IntentUnknown, RawText: rawText, Confidence: 0.1}
}

// ──────────────────────────────────────────────────────────────────────────────
// ResolvedSelection
// ──────────────────────────────────────────────────────────────────────────────

// UnresolvedMatch is the sentinel event name meaning "no known event
// matched". It is a valid terminal state, not an error.
const UnresolvedMatch = "Unknown Match"

// ResolvedSelection is the catalogue-normalised form of a raw selection.
type ResolvedSelection struct {
	Selection string // canonical selection label, or trimmed raw text
	Match     string // canonical event name, or UnresolvedMatch
}

// Resolved reports whether the selection matched a catalogue event.
func (r ResolvedSelection) Resolved() bool {
	return r.Match != UnresolvedMatch
}
