package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/voxbet/terminal/internal/config"
	"github.com/voxbet/terminal/internal/domain"
	"github.com/voxbet/terminal/internal/nlu"
)

// ──────────────────────────────────────────────────────────────────────────────
// Result & actions
// ──────────────────────────────────────────────────────────────────────────────

// Command actions returned to the terminal UI. Every interpretation maps to
// exactly one of these.
const (
	ActionBetCreated           = "bet_created"
	ActionConfirmationRequired = "confirmation_required"
	ActionBetConfirmed         = "bet_confirmed"
	ActionBetCancelled         = "bet_cancelled"
	ActionConfirmDiscarded     = "confirmation_discarded"
	ActionNoBetsToCancel       = "no_bets_to_cancel"
	ActionShowOdds             = "show_odds"
	ActionNotUnderstood        = "command_not_understood"
)

// CommandResult is the outcome of interpreting one utterance.
type CommandResult struct {
	Success      bool              `json:"success"`
	Action       string            `json:"action"`
	Message      string            `json:"message"`
	Bet          *domain.Bet       `json:"bet,omitempty"`
	Candidate    *domain.PricedBet `json:"candidate,omitempty"`
	Matches      []domain.Match    `json:"matches,omitempty"`
	Confirmation string            `json:"confirmation,omitempty"`
	TraceID      string            `json:"traceId"`
}

// IntentProducer is the minimal interface CommandService needs from the
// oracle. Implemented by OracleService.
type IntentProducer interface {
	Interpret(ctx context.Context, command string) (domain.Intent, error)
}

// ──────────────────────────────────────────────────────────────────────────────
// CommandService
// ──────────────────────────────────────────────────────────────────────────────

// CommandService runs the full utterance pipeline: parse → resolve → price →
// confirmation gate → ledger. It owns the session's single pending
// confirmation slot; every interpretation is a read-modify-write of that
// slot under one mutex, so interleaved utterances serialise cleanly.
type CommandService struct {
	parser   *nlu.Parser
	resolver *nlu.Resolver
	bets     *BetService
	cat      *domain.Catalogue
	cfg      *config.Config
	oracle   IntentProducer // nil when the oracle is not configured

	mu      sync.Mutex
	pending *domain.PendingConfirmation

	hub ConfirmationBroadcaster // injected after WS Hub is built
}

// ConfirmationBroadcaster pushes gate events to connected clients.
// Implemented by ws.Hub.
type ConfirmationBroadcaster interface {
	BroadcastConfirmationRequired(pc *domain.PendingConfirmation)
}

// NewCommandService creates a CommandService.
func NewCommandService(
	parser *nlu.Parser,
	resolver *nlu.Resolver,
	bets *BetService,
	cat *domain.Catalogue,
	cfg *config.Config,
) *CommandService {
	return &CommandService{
		parser:   parser,
		resolver: resolver,
		bets:     bets,
		cat:      cat,
		cfg:      cfg,
	}
}

// SetOracle injects the oracle dependency post-construction.
func (s *CommandService) SetOracle(o IntentProducer) { s.oracle = o }

// SetBroadcaster injects the WS Hub dependency post-construction.
func (s *CommandService) SetBroadcaster(b ConfirmationBroadcaster) { s.hub = b }

// ──────────────────────────────────────────────────────────────────────────────
// Entry points
// ──────────────────────────────────────────────────────────────────────────────

// Interpret runs one utterance through the deterministic pipeline.
// transcriptionConfidence, when non-nil, caps the parser's own confidence:
// a shaky transcription should never auto-commit just because the text it
// produced happens to match a template cleanly.
func (s *CommandService) Interpret(ctx context.Context, command string, transcriptionConfidence *float64) (*CommandResult, error) {
	if strings.TrimSpace(command) == "" {
		return nil, domain.ErrEmptyCommand
	}

	intent := s.parser.Parse(command)
	if transcriptionConfidence != nil && *transcriptionConfidence < intent.Confidence {
		intent = intent.WithConfidence(*transcriptionConfidence)
	}
	return s.dispatch(ctx, intent)
}

// Validate runs one utterance through the oracle first, falling back to the
// deterministic parser when the oracle is unconfigured or unreachable. Both
// paths feed the same gate, so the commit rules cannot diverge.
func (s *CommandService) Validate(ctx context.Context, command string) (*CommandResult, error) {
	if strings.TrimSpace(command) == "" {
		return nil, domain.ErrEmptyCommand
	}

	if s.oracle != nil {
		intent, err := s.oracle.Interpret(ctx, command)
		if err == nil {
			return s.dispatch(ctx, intent)
		}
		slog.Warn("oracle unavailable, falling back to deterministic parse", "error", err)
	}
	return s.dispatch(ctx, s.parser.Parse(command))
}

// PendingConfirmation returns a copy of the candidate currently held by the
// gate, or nil when the session is idle.
func (s *CommandService) PendingConfirmation() *domain.PendingConfirmation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return nil
	}
	pc := *s.pending
	return &pc
}

// ──────────────────────────────────────────────────────────────────────────────
// Dispatch — the gate's state machine
// ──────────────────────────────────────────────────────────────────────────────

func (s *CommandService) dispatch(ctx context.Context, intent domain.Intent) (*CommandResult, error) {
	traceID := uuid.New().String()
	log := slog.With("trace_id", traceID, "intent", string(intent.Type), "confidence", intent.Confidence)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch intent.Type {
	case domain.IntentBet:
		return s.handleBet(ctx, log, traceID, intent)
	case domain.IntentAffirm:
		return s.handleAffirm(ctx, log, traceID)
	case domain.IntentCancelBet:
		return s.handleCancel(ctx, log, traceID)
	case domain.IntentShowOdds:
		log.Info("showing odds")
		return &CommandResult{
			Success: true,
			Action:  ActionShowOdds,
			Message: "Displaying current odds for all matches",
			Matches: s.cat.Matches,
			TraceID: traceID,
		}, nil
	default:
		log.Info("command not understood", "raw", intent.RawText)
		return &CommandResult{
			Success: false,
			Action:  ActionNotUnderstood,
			Message: "Sorry, I didn't understand that command. Try saying something similar like 'Bet 10 pounds on Djokovic to win'",
			TraceID: traceID,
		}, nil
	}
}

// handleBet resolves and prices the candidate, then either commits it or
// parks it in the confirmation slot. A newer candidate overwrites an older
// one without ceremony — last writer wins.
func (s *CommandService) handleBet(ctx context.Context, log *slog.Logger, traceID string, intent domain.Intent) (*CommandResult, error) {
	// A new bet intent always evicts the held candidate, whether or not the
	// new one ends up held itself. A stale candidate must never outlive the
	// utterance that superseded it.
	s.pending = nil

	resolved := s.resolver.Resolve(intent.RawSelection)

	odds := s.resolver.InferOdds(intent.RawSelection, intent.RawOutcome)
	if intent.ExplicitOdds != nil {
		odds = *intent.ExplicitOdds
	}

	candidate := domain.PricedBet{
		Selection: resolved.Selection,
		Match:     resolved.Match,
		Stake:     intent.Stake,
		Odds:      odds,
	}

	if reason, held := s.gateReason(candidate, intent.Confidence); held {
		s.pending = &domain.PendingConfirmation{Candidate: candidate, Reason: reason}
		log.Info("confirmation required",
			"reason", string(reason),
			"selection", candidate.Selection,
			"stake", candidate.Stake.String(),
		)
		if s.hub != nil {
			s.hub.BroadcastConfirmationRequired(s.pending)
		}
		return &CommandResult{
			Success:   true,
			Action:    ActionConfirmationRequired,
			Message:   "Confirmation required before placing this bet",
			Candidate: &candidate,
			Confirmation: fmt.Sprintf(
				"You are placing £%s on %s at odds %s. Potential win: £%s. Say yes to confirm.",
				candidate.Stake.StringFixed(2), candidate.Selection,
				candidate.Odds.String(), candidate.PotentialWin().StringFixed(2),
			),
			TraceID: traceID,
		}, nil
	}

	bet, err := s.bets.CreateBet(ctx, domain.NewCreateBetRequest(candidate))
	if err != nil {
		return nil, fmt.Errorf("command_service.handleBet: %w", err)
	}

	log.Info("bet created",
		"bet_id", bet.ID,
		"selection", bet.Selection,
		"stake", bet.Stake.String(),
		"odds", bet.Odds.String(),
	)
	return &CommandResult{
		Success: true,
		Action:  ActionBetCreated,
		Message: fmt.Sprintf("Bet placed: £%s on %s at odds %s. Potential win: £%s",
			bet.Stake.StringFixed(2), bet.Selection, bet.Odds.String(), bet.PotentialWin.StringFixed(2)),
		Bet:     bet,
		TraceID: traceID,
	}, nil
}

// handleAffirm commits the held candidate. An affirmation with nothing
// pending is just noise.
func (s *CommandService) handleAffirm(ctx context.Context, log *slog.Logger, traceID string) (*CommandResult, error) {
	if s.pending == nil {
		log.Info("affirmation with no pending confirmation")
		return &CommandResult{
			Success: false,
			Action:  ActionNotUnderstood,
			Message: "There is no bet awaiting confirmation",
			TraceID: traceID,
		}, nil
	}

	candidate := s.pending.Candidate
	bet, err := s.bets.CreateBet(ctx, domain.NewCreateBetRequest(candidate))
	if err != nil {
		return nil, fmt.Errorf("command_service.handleAffirm: %w", err)
	}
	s.pending = nil

	log.Info("pending bet confirmed", "bet_id", bet.ID, "selection", bet.Selection)
	return &CommandResult{
		Success: true,
		Action:  ActionBetConfirmed,
		Message: fmt.Sprintf("Bet placed: £%s on %s at odds %s. Potential win: £%s",
			bet.Stake.StringFixed(2), bet.Selection, bet.Odds.String(), bet.PotentialWin.StringFixed(2)),
		Bet:     bet,
		TraceID: traceID,
	}, nil
}

// handleCancel discards the pending candidate when one exists; only an idle
// session reaches into the ledger and removes the most recent bet.
func (s *CommandService) handleCancel(ctx context.Context, log *slog.Logger, traceID string) (*CommandResult, error) {
	if s.pending != nil {
		discarded := s.pending.Candidate
		s.pending = nil
		log.Info("pending confirmation discarded", "selection", discarded.Selection)
		return &CommandResult{
			Success:   true,
			Action:    ActionConfirmDiscarded,
			Message:   "Pending bet discarded",
			Candidate: &discarded,
			TraceID:   traceID,
		}, nil
	}

	bet, err := s.bets.CancelLast(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoBetsToCancel) {
			log.Info("cancel with empty ledger")
			return &CommandResult{
				Success: false,
				Action:  ActionNoBetsToCancel,
				Message: "No bets to cancel",
				TraceID: traceID,
			}, nil
		}
		return nil, fmt.Errorf("command_service.handleCancel: %w", err)
	}

	log.Info("last bet cancelled", "bet_id", bet.ID, "selection", bet.Selection)
	return &CommandResult{
		Success: true,
		Action:  ActionBetCancelled,
		Message: "Last bet has been cancelled",
		Bet:     bet,
		TraceID: traceID,
	}, nil
}

// gateReason decides whether the candidate must be confirmed before commit.
// High stakes are checked before low confidence so the reason shown to the
// user names the stricter rule when both apply.
func (s *CommandService) gateReason(candidate domain.PricedBet, confidence float64) (domain.ConfirmReason, bool) {
	threshold := decimal.NewFromFloat(s.cfg.Gate.ConfirmThreshold)
	if candidate.Stake.GreaterThan(threshold) {
		return domain.ConfirmReasonHighValue, true
	}
	if confidence < s.cfg.Gate.ConfidenceFloor {
		return domain.ConfirmReasonLowConfidence, true
	}
	return "", false
}
