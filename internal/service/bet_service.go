package service

import (
	"context"
	"fmt"

	"github.com/voxbet/terminal/internal/domain"
	"github.com/voxbet/terminal/internal/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Interfaces injected into services to avoid import cycles
// ──────────────────────────────────────────────────────────────────────────────

// Broadcaster is the minimal interface the services need from the WS hub.
// Implemented by ws.Hub.
type Broadcaster interface {
	BroadcastBetPlaced(bet *domain.Bet)
	BroadcastBetCancelled(bet *domain.Bet)
	BroadcastBetStatusChanged(bet *domain.Bet)
}

// ──────────────────────────────────────────────────────────────────────────────
// BetService
// ──────────────────────────────────────────────────────────────────────────────

// BetService owns all ledger mutations. Every write is validated here before
// it reaches the store, and every committed change is pushed to connected
// WebSocket clients.
type BetService struct {
	store       repository.BetStore
	broadcaster Broadcaster // injected after WS Hub is built
}

// NewBetService creates a BetService over the given store.
func NewBetService(store repository.BetStore) *BetService {
	return &BetService{store: store}
}

// SetBroadcaster injects the WS Hub dependency post-construction.
func (s *BetService) SetBroadcaster(b Broadcaster) { s.broadcaster = b }

// ──────────────────────────────────────────────────────────────────────────────
// Reads
// ──────────────────────────────────────────────────────────────────────────────

// ListBets returns the full ledger in insertion order.
func (s *BetService) ListBets(ctx context.Context) ([]*domain.Bet, error) {
	bets, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("bet_service.ListBets: %w", err)
	}
	return bets, nil
}

// GetBet returns a single bet by id.
func (s *BetService) GetBet(ctx context.Context, id int64) (*domain.Bet, error) {
	bet, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return bet, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Writes
// ──────────────────────────────────────────────────────────────────────────────

// CreateBet validates the request and appends a bet to the ledger. A zero
// potential win is derived from stake and odds; a non-zero one is trusted as
// given, frozen at the caller's pricing moment.
func (s *BetService) CreateBet(ctx context.Context, req domain.CreateBetRequest) (*domain.Bet, error) {
	if !req.Stake.IsPositive() {
		return nil, domain.ErrInvalidStake
	}
	if !req.Odds.IsPositive() {
		return nil, domain.ErrInvalidOdds
	}
	if req.Status != "" && !req.Status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}
	if req.PotentialWin.IsZero() {
		req.PotentialWin = req.Stake.Mul(req.Odds).Round(2)
	}

	bet, err := s.store.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bet_service.CreateBet: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastBetPlaced(bet)
	}
	return bet, nil
}

// UpdateBetStatus moves a bet to a new status.
func (s *BetService) UpdateBetStatus(ctx context.Context, id int64, status domain.BetStatus) (*domain.Bet, error) {
	if !status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	bet, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastBetStatusChanged(bet)
	}
	return bet, nil
}

// DeleteBet removes a bet from the ledger.
func (s *BetService) DeleteBet(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	return nil
}

// CancelLast removes the most recently created bet and returns it.
func (s *BetService) CancelLast(ctx context.Context) (*domain.Bet, error) {
	bet, err := s.store.CancelLast(ctx)
	if err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastBetCancelled(bet)
	}
	return bet, nil
}

// PlaceAll moves every pending bet to placed and returns how many moved.
func (s *BetService) PlaceAll(ctx context.Context) (int, error) {
	n, err := s.store.PlaceAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("bet_service.PlaceAll: %w", err)
	}
	return n, nil
}
