// Package ledger is the token bankroll that stakes are settled against.
package ledger

import (
	"context"

	"github.com/mcoot/liarsdice-go/internal/model"
)

// Ledger defines the bankroll contract
type Ledger interface {
	// Balance returns the owner's balance; unknown owners have 0
	Balance(ctx context.Context, owner model.PlayerID) (int64, error)

	// UpdateBalance sets the owner's balance
	UpdateBalance(ctx context.Context, owner model.PlayerID, amount int64) error

	// MintToken adds amount to the target's balance
	MintToken(ctx context.Context, target model.PlayerID, amount int64) error
}

// Transfer moves up to amount from one owner to another and returns how much
// actually moved. It never takes a balance below zero.
func Transfer(ctx context.Context, l Ledger, from, to model.PlayerID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, nil
	}
	balance, err := l.Balance(ctx, from)
	if err != nil {
		return 0, err
	}
	paid := min(amount, balance)
	if paid <= 0 {
		return 0, nil
	}
	if err := l.UpdateBalance(ctx, from, balance-paid); err != nil {
		return 0, err
	}
	if err := l.MintToken(ctx, to, paid); err != nil {
		return 0, err
	}
	return paid, nil
}
