package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/voxbet/terminal/internal/service"
)

// TestConcurrentInterpret hammers the gate from many goroutines at once.
// Every utterance is a read-modify-write of the single pending slot, so
// under -race this verifies the mutex discipline, and afterwards the ledger
// must hold exactly one bet per auto-committed utterance.
func TestConcurrentInterpret(t *testing.T) {
	const workers = 20
	const perWorker = 10

	f := newCommandFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				if _, err := f.cmd.Interpret(ctx, "bet 10 on Djokovic", nil); err != nil {
					t.Errorf("Interpret: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	bets := f.ledger(t)
	if len(bets) != workers*perWorker {
		t.Fatalf("expected %d committed bets, got %d", workers*perWorker, len(bets))
	}
}

// TestConcurrentAffirmCommitsOnce verifies that when many affirmations race
// for one held candidate, exactly one commits it.
func TestConcurrentAffirmCommitsOnce(t *testing.T) {
	const workers = 20

	f := newCommandFixture(t)
	ctx := context.Background()

	if _, err := f.cmd.Interpret(ctx, "bet 75 on Arsenal", nil); err != nil {
		t.Fatalf("Interpret: %v", err)
	}

	var confirmed int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.cmd.Interpret(ctx, "yes", nil)
			if err != nil {
				t.Errorf("Interpret: %v", err)
				return
			}
			if res.Action == service.ActionBetConfirmed {
				mu.Lock()
				confirmed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if confirmed != 1 {
		t.Fatalf("expected exactly 1 confirmation to win, got %d", confirmed)
	}
	if len(f.ledger(t)) != 1 {
		t.Fatalf("expected exactly 1 ledger bet, got %d", len(f.ledger(t)))
	}
}
