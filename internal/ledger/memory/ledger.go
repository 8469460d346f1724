package memory

import (
	"context"
	"sync"

	"github.com/mcoot/liarsdice-go/internal/ledger"
	"github.com/mcoot/liarsdice-go/internal/model"
)

// Ledger is an in-memory bankroll
type Ledger struct {
	mu       sync.RWMutex
	balances map[model.PlayerID]int64
}

// New creates an empty in-memory ledger
func New() *Ledger {
	return &Ledger{balances: make(map[model.PlayerID]int64)}
}

// Ensure Ledger implements the interface
var _ ledger.Ledger = (*Ledger)(nil)

func (l *Ledger) Balance(ctx context.Context, owner model.PlayerID) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[owner], nil
}

func (l *Ledger) UpdateBalance(ctx context.Context, owner model.PlayerID, amount int64) error {
	if amount < 0 {
		return model.ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[owner] = amount
	return nil
}

func (l *Ledger) MintToken(ctx context.Context, target model.PlayerID, amount int64) error {
	if amount <= 0 {
		return model.ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[target] += amount
	return nil
}
