// Package repository owns bet persistence. The BetStore contract is
// satisfied by an in-memory store (the default) and a PostgreSQL store, so
// the rest of the system never knows which backend it is talking to.
package repository

import (
	"context"
	"sync"
	"time"

	"github.com/voxbet/terminal/internal/domain"
)

// BetStore is the ledger's storage contract. All operations are total:
// missing ids report domain.ErrBetNotFound, an empty ledger reports
// domain.ErrNoBetsToCancel — never a fault the caller must crash on.
type BetStore interface {
	// Create assigns the next id and the creation timestamp, defaults the
	// status to pending when empty, and returns the stored bet.
	Create(ctx context.Context, req domain.CreateBetRequest) (*domain.Bet, error)

	// List returns all bets in insertion order.
	List(ctx context.Context) ([]*domain.Bet, error)

	// GetByID returns one bet or domain.ErrBetNotFound.
	GetByID(ctx context.Context, id int64) (*domain.Bet, error)

	// UpdateStatus sets the status of one bet and returns the updated bet,
	// or domain.ErrBetNotFound.
	UpdateStatus(ctx context.Context, id int64, status domain.BetStatus) (*domain.Bet, error)

	// Delete removes one bet; domain.ErrBetNotFound when absent.
	Delete(ctx context.Context, id int64) error

	// CancelLast removes the most recently created bet — by insertion
	// order, never by timestamp — and returns it. domain.ErrNoBetsToCancel
	// on an empty ledger.
	CancelLast(ctx context.Context) (*domain.Bet, error)

	// PlaceAll transitions every pending bet to placed and returns how many
	// were moved.
	PlaceAll(ctx context.Context) (int, error)
}

// ──────────────────────────────────────────────────────────────────────────────
// MemoryBetStore
// ──────────────────────────────────────────────────────────────────────────────

// MemoryBetStore keeps the ledger in process memory. A single mutex
// serialises all mutation; the order slice is the authoritative insertion
// order so CancelLast stays correct under clock-resolution collisions.
type MemoryBetStore struct {
	mu     sync.Mutex
	bets   map[int64]*domain.Bet
	order  []int64 // ids in creation order
	nextID int64
}

// NewMemoryBetStore creates an empty in-memory ledger store.
func NewMemoryBetStore() *MemoryBetStore {
	return &MemoryBetStore{
		bets:   make(map[int64]*domain.Bet),
		nextID: 1,
	}
}

// Create implements BetStore.
func (s *MemoryBetStore) Create(_ context.Context, req domain.CreateBetRequest) (*domain.Bet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := req.Status
	if status == "" {
		status = domain.BetStatusPending
	}
	b := &domain.Bet{
		ID:           s.nextID,
		Selection:    req.Selection,
		Match:        req.Match,
		Stake:        req.Stake,
		Odds:         req.Odds,
		PotentialWin: req.PotentialWin,
		Status:       status,
		CreatedAt:    time.Now().UTC(),
	}
	s.nextID++ // ids are never reused, even after deletes
	s.bets[b.ID] = b
	s.order = append(s.order, b.ID)

	cp := *b
	return &cp, nil
}

// List implements BetStore.
func (s *MemoryBetStore) List(_ context.Context) ([]*domain.Bet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Bet, 0, len(s.order))
	for _, id := range s.order {
		cp := *s.bets[id]
		out = append(out, &cp)
	}
	return out, nil
}

// GetByID implements BetStore.
func (s *MemoryBetStore) GetByID(_ context.Context, id int64) (*domain.Bet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bets[id]
	if !ok {
		return nil, domain.ErrBetNotFound
	}
	cp := *b
	return &cp, nil
}

// UpdateStatus implements BetStore.
func (s *MemoryBetStore) UpdateStatus(_ context.Context, id int64, status domain.BetStatus) (*domain.Bet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bets[id]
	if !ok {
		return nil, domain.ErrBetNotFound
	}
	b.Status = status
	cp := *b
	return &cp, nil
}

// Delete implements BetStore.
func (s *MemoryBetStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(id)
}

// CancelLast implements BetStore.
func (s *MemoryBetStore) CancelLast(_ context.Context) (*domain.Bet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.order) == 0 {
		return nil, domain.ErrNoBetsToCancel
	}
	lastID := s.order[len(s.order)-1]
	removed := *s.bets[lastID]
	if err := s.deleteLocked(lastID); err != nil {
		return nil, err
	}
	return &removed, nil
}

// PlaceAll implements BetStore.
func (s *MemoryBetStore) PlaceAll(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	placed := 0
	for _, id := range s.order {
		if b := s.bets[id]; b.IsPending() {
			b.Status = domain.BetStatusPlaced
			placed++
		}
	}
	return placed, nil
}

// deleteLocked removes a bet from both the map and the order slice.
// Callers hold s.mu.
func (s *MemoryBetStore) deleteLocked(id int64) error {
	if _, ok := s.bets[id]; !ok {
		return domain.ErrBetNotFound
	}
	delete(s.bets, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
