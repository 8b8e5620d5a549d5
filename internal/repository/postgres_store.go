package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/voxbet/terminal/internal/domain"
)

// PostgresBetStore is the durable BetStore backend. Ids come from a BIGSERIAL
// column, so insertion order and id order coincide — CancelLast selects
// MAX(id), matching the memory store's semantics exactly.
type PostgresBetStore struct {
	db *sqlx.DB
}

// NewPostgresBetStore creates a store over an open connection pool.
func NewPostgresBetStore(db *sqlx.DB) *PostgresBetStore {
	return &PostgresBetStore{db: db}
}

// EnsureSchema creates the bets table when absent. Idempotent; called once
// at startup.
func (s *PostgresBetStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS bets (
			id            BIGSERIAL PRIMARY KEY,
			selection     TEXT          NOT NULL,
			match         TEXT          NOT NULL,
			stake         DECIMAL(10,2) NOT NULL,
			odds          DECIMAL(10,2) NOT NULL,
			potential_win DECIMAL(10,2) NOT NULL,
			status        TEXT          NOT NULL DEFAULT 'pending',
			created_at    TIMESTAMPTZ   NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("postgres_store.EnsureSchema: %w", err)
	}
	return nil
}

// Create implements BetStore.
func (s *PostgresBetStore) Create(ctx context.Context, req domain.CreateBetRequest) (*domain.Bet, error) {
	status := req.Status
	if status == "" {
		status = domain.BetStatusPending
	}

	var b domain.Bet
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO bets (selection, match, stake, odds, potential_win, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, selection, match, stake, odds, potential_win, status, created_at`,
		req.Selection, req.Match, req.Stake, req.Odds, req.PotentialWin,
		string(status), time.Now().UTC(),
	).StructScan(&b)
	if err != nil {
		return nil, fmt.Errorf("postgres_store.Create: %w", err)
	}
	return &b, nil
}

// List implements BetStore. Ordered by id — insertion order.
func (s *PostgresBetStore) List(ctx context.Context) ([]*domain.Bet, error) {
	bets := []*domain.Bet{}
	err := s.db.SelectContext(ctx, &bets, `SELECT * FROM bets ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("postgres_store.List: %w", err)
	}
	return bets, nil
}

// GetByID implements BetStore.
func (s *PostgresBetStore) GetByID(ctx context.Context, id int64) (*domain.Bet, error) {
	var b domain.Bet
	err := s.db.GetContext(ctx, &b, `SELECT * FROM bets WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBetNotFound
		}
		return nil, fmt.Errorf("postgres_store.GetByID: %w", err)
	}
	return &b, nil
}

// UpdateStatus implements BetStore.
func (s *PostgresBetStore) UpdateStatus(ctx context.Context, id int64, status domain.BetStatus) (*domain.Bet, error) {
	var b domain.Bet
	err := s.db.QueryRowxContext(ctx, `
		UPDATE bets SET status = $1 WHERE id = $2
		RETURNING id, selection, match, stake, odds, potential_win, status, created_at`,
		string(status), id,
	).StructScan(&b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBetNotFound
		}
		return nil, fmt.Errorf("postgres_store.UpdateStatus: %w", err)
	}
	return &b, nil
}

// Delete implements BetStore.
func (s *PostgresBetStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres_store.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrBetNotFound
	}
	return nil
}

// CancelLast implements BetStore. The subquery pins the newest bet by id so
// concurrent deletes cannot remove two different "last" rows.
func (s *PostgresBetStore) CancelLast(ctx context.Context) (*domain.Bet, error) {
	var b domain.Bet
	err := s.db.QueryRowxContext(ctx, `
		DELETE FROM bets
		WHERE id = (SELECT MAX(id) FROM bets)
		RETURNING id, selection, match, stake, odds, potential_win, status, created_at`,
	).StructScan(&b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoBetsToCancel
		}
		return nil, fmt.Errorf("postgres_store.CancelLast: %w", err)
	}
	return &b, nil
}

// PlaceAll implements BetStore.
func (s *PostgresBetStore) PlaceAll(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bets SET status = $1 WHERE status = $2`,
		string(domain.BetStatusPlaced), string(domain.BetStatusPending))
	if err != nil {
		return 0, fmt.Errorf("postgres_store.PlaceAll: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("postgres_store.PlaceAll: rows affected: %w", err)
	}
	return int(n), nil
}
