package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/voxbet/terminal/internal/config"
	"github.com/voxbet/terminal/internal/domain"
	"github.com/voxbet/terminal/internal/nlu"
	"github.com/voxbet/terminal/internal/repository"
	"github.com/voxbet/terminal/internal/service"
)

// ── Fixture ───────────────────────────────────────────────────────────────────

type commandFixture struct {
	cmd   *service.CommandService
	store *repository.MemoryBetStore
}

func newCommandFixture(t *testing.T) *commandFixture {
	t.Helper()

	cat := domain.SeedCatalogue()
	store := repository.NewMemoryBetStore()
	bets := service.NewBetService(store)
	cfg := &config.Config{
		Gate: config.GateConfig{ConfirmThreshold: 50, ConfidenceFloor: 0.5},
	}
	cmd := service.NewCommandService(nlu.NewParser(), nlu.NewResolver(cat), bets, cat, cfg)
	return &commandFixture{cmd: cmd, store: store}
}

func (f *commandFixture) ledger(t *testing.T) []*domain.Bet {
	t.Helper()
	bets, err := f.store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	return bets
}

// ── Auto-commit path ──────────────────────────────────────────────────────────

func TestCommandService_SmallBetAutoCommits(t *testing.T) {
	f := newCommandFixture(t)

	res, err := f.cmd.Interpret(context.Background(), "bet 10 pounds on Djokovic to win", nil)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if !res.Success || res.Action != service.ActionBetCreated {
		t.Fatalf("expected bet_created, got success=%v action=%q", res.Success, res.Action)
	}
	if res.Bet == nil {
		t.Fatal("expected a committed bet in the result")
	}
	if res.Bet.Selection != "Djokovic" || res.Bet.Match != "Wimbledon Final" {
		t.Fatalf("unexpected resolution: %q / %q", res.Bet.Selection, res.Bet.Match)
	}
	if got := res.Bet.PotentialWin.StringFixed(2); got != "17.50" {
		t.Fatalf("potential win = %q, want 17.50", got)
	}
	if res.TraceID == "" {
		t.Fatal("expected a trace id on the result")
	}

	bets := f.ledger(t)
	if len(bets) != 1 || bets[0].Status != domain.BetStatusPending {
		t.Fatalf("expected 1 pending ledger bet, got %+v", bets)
	}
}

func TestCommandService_UnresolvedSelectionStillCommits(t *testing.T) {
	f := newCommandFixture(t)

	res, err := f.cmd.Interpret(context.Background(), "bet 10 on Federer", nil)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if res.Action != service.ActionBetCreated {
		t.Fatalf("expected bet_created, got %q", res.Action)
	}
	if res.Bet.Match != domain.UnresolvedMatch {
		t.Fatalf("expected unresolved match sentinel, got %q", res.Bet.Match)
	}
	if got := res.Bet.Odds.String(); got != "2" {
		t.Fatalf("expected default odds 2, got %q", got)
	}
}

func TestCommandService_ExplicitOddsBypassInference(t *testing.T) {
	f := newCommandFixture(t)

	res, err := f.cmd.Interpret(context.Background(), "bet 10 on Djokovic to win at odds 5.5", nil)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if got := res.Bet.Odds.String(); got != "5.5" {
		t.Fatalf("expected spoken odds 5.5, got %q", got)
	}
}

// ── Confirmation gate ─────────────────────────────────────────────────────────

func TestCommandService_HighValueBetRequiresConfirmation(t *testing.T) {
	f := newCommandFixture(t)
	ctx := context.Background()

	res, err := f.cmd.Interpret(ctx, "bet 75 on Arsenal", nil)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if res.Action != service.ActionConfirmationRequired {
		t.Fatalf("expected confirmation_required, got %q", res.Action)
	}
	if res.Confirmation == "" {
		t.Fatal("expected a confirmation prompt")
	}
	if len(f.ledger(t)) != 0 {
		t.Fatal("held candidate must not touch the ledger")
	}

	pc := f.cmd.PendingConfirmation()
	if pc == nil || pc.Reason != domain.ConfirmReasonHighValue {
		t.Fatalf("expected high-value pending confirmation, got %+v", pc)
	}

	// Affirm commits the held candidate.
	res, err = f.cmd.Interpret(ctx, "yes", nil)
	if err != nil {
		t.Fatalf("Interpret affirm: %v", err)
	}
	if res.Action != service.ActionBetConfirmed {
		t.Fatalf("expected bet_confirmed, got %q", res.Action)
	}
	if got := res.Bet.PotentialWin.StringFixed(2); got != "180.00" {
		t.Fatalf("potential win = %q, want 180.00", got)
	}
	if f.cmd.PendingConfirmation() != nil {
		t.Fatal("gate slot must be empty after commit")
	}
	if len(f.ledger(t)) != 1 {
		t.Fatal("expected exactly one committed bet")
	}
}

func TestCommandService_LowConfidenceRequiresConfirmation(t *testing.T) {
	f := newCommandFixture(t)

	conf := 0.3
	res, err := f.cmd.Interpret(context.Background(), "bet 10 on Nadal", &conf)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if res.Action != service.ActionConfirmationRequired {
		t.Fatalf("expected confirmation_required, got %q", res.Action)
	}
	pc := f.cmd.PendingConfirmation()
	if pc == nil || pc.Reason != domain.ConfirmReasonLowConfidence {
		t.Fatalf("expected low-confidence reason, got %+v", pc)
	}
}

func TestCommandService_NewerCandidateSupersedes(t *testing.T) {
	f := newCommandFixture(t)
	ctx := context.Background()

	if _, err := f.cmd.Interpret(ctx, "bet 75 on Arsenal", nil); err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if _, err := f.cmd.Interpret(ctx, "bet 100 on Nadal", nil); err != nil {
		t.Fatalf("Interpret: %v", err)
	}

	res, err := f.cmd.Interpret(ctx, "yes", nil)
	if err != nil {
		t.Fatalf("Interpret affirm: %v", err)
	}
	if res.Bet.Selection != "Nadal" {
		t.Fatalf("expected the newer candidate committed, got %q", res.Bet.Selection)
	}
	if len(f.ledger(t)) != 1 {
		t.Fatal("the superseded candidate must never reach the ledger")
	}
}

func TestCommandService_AutoCommitDiscardsHeldCandidate(t *testing.T) {
	f := newCommandFixture(t)
	ctx := context.Background()

	if _, err := f.cmd.Interpret(ctx, "bet 75 on Arsenal", nil); err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if f.cmd.PendingConfirmation() == nil {
		t.Fatal("expected the high-value bet to be held")
	}

	// A small bet that sails through the gate still evicts the held one.
	res, err := f.cmd.Interpret(ctx, "bet 10 pounds on Djokovic", nil)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if res.Action != service.ActionBetCreated {
		t.Fatalf("action = %q, want %q", res.Action, service.ActionBetCreated)
	}
	if pc := f.cmd.PendingConfirmation(); pc != nil {
		t.Fatalf("held candidate survived an auto-commit: %+v", pc.Candidate)
	}

	// The stale candidate is gone, so an affirmation commits nothing.
	res, err = f.cmd.Interpret(ctx, "yes", nil)
	if err != nil {
		t.Fatalf("Interpret affirm: %v", err)
	}
	if res.Action != service.ActionNotUnderstood {
		t.Fatalf("action = %q, want %q", res.Action, service.ActionNotUnderstood)
	}
	bets := f.ledger(t)
	if len(bets) != 1 || bets[0].Selection != "Djokovic" {
		t.Fatalf("ledger = %d bets, want only the Djokovic bet", len(bets))
	}
}

func TestCommandService_AffirmWithNothingPending(t *testing.T) {
	f := newCommandFixture(t)

	res, err := f.cmd.Interpret(context.Background(), "yes", nil)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if res.Success || res.Action != service.ActionNotUnderstood {
		t.Fatalf("stray affirmation should not succeed, got success=%v action=%q", res.Success, res.Action)
	}
}

// ── Cancel semantics ──────────────────────────────────────────────────────────

func TestCommandService_CancelDiscardsPendingCandidateOnly(t *testing.T) {
	f := newCommandFixture(t)
	ctx := context.Background()

	// One committed bet, then a held candidate.
	if _, err := f.cmd.Interpret(ctx, "bet 10 on Djokovic", nil); err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if _, err := f.cmd.Interpret(ctx, "bet 75 on Arsenal", nil); err != nil {
		t.Fatalf("Interpret: %v", err)
	}

	res, err := f.cmd.Interpret(ctx, "cancel my bet", nil)
	if err != nil {
		t.Fatalf("Interpret cancel: %v", err)
	}
	if res.Action != service.ActionConfirmDiscarded {
		t.Fatalf("expected confirmation_discarded, got %q", res.Action)
	}
	if f.cmd.PendingConfirmation() != nil {
		t.Fatal("gate slot must be empty after discard")
	}
	if len(f.ledger(t)) != 1 {
		t.Fatal("committed bet must survive a candidate discard")
	}
}

func TestCommandService_IdleCancelRemovesNewestBet(t *testing.T) {
	f := newCommandFixture(t)
	ctx := context.Background()

	f.cmd.Interpret(ctx, "bet 10 on Djokovic", nil)
	f.cmd.Interpret(ctx, "bet 20 on Nadal", nil)

	res, err := f.cmd.Interpret(ctx, "cancel my bet", nil)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if res.Action != service.ActionBetCancelled {
		t.Fatalf("expected bet_cancelled, got %q", res.Action)
	}
	if res.Bet.Selection != "Nadal" {
		t.Fatalf("expected newest bet cancelled, got %q", res.Bet.Selection)
	}
	if len(f.ledger(t)) != 1 {
		t.Fatal("expected one bet left in the ledger")
	}
}

func TestCommandService_CancelOnEmptyLedger(t *testing.T) {
	f := newCommandFixture(t)

	res, err := f.cmd.Interpret(context.Background(), "cancel my bet", nil)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if res.Success || res.Action != service.ActionNoBetsToCancel {
		t.Fatalf("expected no_bets_to_cancel, got success=%v action=%q", res.Success, res.Action)
	}
}

// ── Non-mutating paths ────────────────────────────────────────────────────────

func TestCommandService_ShowOdds(t *testing.T) {
	f := newCommandFixture(t)

	res, err := f.cmd.Interpret(context.Background(), "show me the odds", nil)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if res.Action != service.ActionShowOdds {
		t.Fatalf("expected show_odds, got %q", res.Action)
	}
	if len(res.Matches) != 2 {
		t.Fatalf("expected 2 catalogue matches, got %d", len(res.Matches))
	}
	if len(f.ledger(t)) != 0 {
		t.Fatal("show odds must not mutate the ledger")
	}
}

func TestCommandService_UnknownCommand(t *testing.T) {
	f := newCommandFixture(t)

	res, err := f.cmd.Interpret(context.Background(), "what time is it", nil)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if res.Success || res.Action != service.ActionNotUnderstood {
		t.Fatalf("expected command_not_understood, got success=%v action=%q", res.Success, res.Action)
	}
	if res.Message == "" {
		t.Fatal("expected a help message")
	}
	if len(f.ledger(t)) != 0 {
		t.Fatal("unknown command must not mutate the ledger")
	}
}

func TestCommandService_EmptyCommand(t *testing.T) {
	f := newCommandFixture(t)

	if _, err := f.cmd.Interpret(context.Background(), "   ", nil); !errors.Is(err, domain.ErrEmptyCommand) {
		t.Fatalf("expected ErrEmptyCommand, got %v", err)
	}
}

// ── Oracle fallback ───────────────────────────────────────────────────────────

type failingOracle struct{}

func (failingOracle) Interpret(context.Context, string) (domain.Intent, error) {
	return domain.Intent{}, domain.ErrOracleUnavailable
}

func TestCommandService_ValidateDegradesToParser(t *testing.T) {
	f := newCommandFixture(t)
	f.cmd.SetOracle(failingOracle{})

	res, err := f.cmd.Validate(context.Background(), "bet 10 on Djokovic")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if res.Action != service.ActionBetCreated {
		t.Fatalf("expected deterministic fallback to commit, got %q", res.Action)
	}
}

type cannedOracle struct{ intent domain.Intent }

func (c cannedOracle) Interpret(context.Context, string) (domain.Intent, error) {
	return c.intent, nil
}

func TestCommandService_ValidateUsesOracleIntent(t *testing.T) {
	f := newCommandFixture(t)
	f.cmd.SetOracle(cannedOracle{intent: domain.Intent{
		Type:       domain.IntentShowOdds,
		Confidence: 0.9,
	}})

	res, err := f.cmd.Validate(context.Background(), "anything at all")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if res.Action != service.ActionShowOdds {
		t.Fatalf("expected oracle intent to drive the action, got %q", res.Action)
	}
}
