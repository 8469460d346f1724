package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcoot/liarsdice-go/internal/ledger"
	"github.com/mcoot/liarsdice-go/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS balances (
	owner      TEXT PRIMARY KEY,
	amount     BIGINT NOT NULL DEFAULT 0 CHECK (amount >= 0),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Ledger is a Postgres-backed bankroll
type Ledger struct {
	db *pgxpool.Pool
}

// New connects to Postgres and verifies the connection
func New(ctx context.Context, databaseURL string) (*Ledger, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	return &Ledger{db: pool}, nil
}

// NewWithPool wraps an existing pool
func NewWithPool(db *pgxpool.Pool) *Ledger {
	return &Ledger{db: db}
}

// Ensure Ledger implements the interface
var _ ledger.Ledger = (*Ledger)(nil)

// EnsureSchema creates the balances table if it does not exist
func (l *Ledger) EnsureSchema(ctx context.Context) error {
	_, err := l.db.Exec(ctx, schema)
	return err
}

// Close releases the pool
func (l *Ledger) Close() {
	l.db.Close()
}

func (l *Ledger) Balance(ctx context.Context, owner model.PlayerID) (int64, error) {
	var amount int64
	err := l.db.QueryRow(ctx, `SELECT amount FROM balances WHERE owner = $1`, string(owner)).Scan(&amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return amount, nil
}

func (l *Ledger) UpdateBalance(ctx context.Context, owner model.PlayerID, amount int64) error {
	if amount < 0 {
		return model.ErrInvalidAmount
	}
	_, err := l.db.Exec(ctx, `
		INSERT INTO balances (owner, amount) VALUES ($1, $2)
		ON CONFLICT (owner) DO UPDATE SET amount = EXCLUDED.amount, updated_at = now()
	`, string(owner), amount)
	return err
}

func (l *Ledger) MintToken(ctx context.Context, target model.PlayerID, amount int64) error {
	if amount <= 0 {
		return model.ErrInvalidAmount
	}
	_, err := l.db.Exec(ctx, `
		INSERT INTO balances (owner, amount) VALUES ($1, $2)
		ON CONFLICT (owner) DO UPDATE SET amount = balances.amount + EXCLUDED.amount, updated_at = now()
	`, string(target), amount)
	return err
}
