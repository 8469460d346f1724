package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/liarsdice-go/internal/ledger"
	"github.com/mcoot/liarsdice-go/internal/model"
)

func TestLedger(t *testing.T) {
	ctx := context.Background()
	l := New()

	bal, err := l.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(0), bal)

	require.NoError(t, l.MintToken(ctx, "alice", 100))
	require.NoError(t, l.MintToken(ctx, "alice", 50))
	bal, _ = l.Balance(ctx, "alice")
	assert.Equal(t, int64(150), bal)

	require.NoError(t, l.UpdateBalance(ctx, "alice", 20))
	bal, _ = l.Balance(ctx, "alice")
	assert.Equal(t, int64(20), bal)

	assert.ErrorIs(t, l.MintToken(ctx, "alice", 0), model.ErrInvalidAmount)
	assert.ErrorIs(t, l.UpdateBalance(ctx, "alice", -1), model.ErrInvalidAmount)
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	l := New()
	require.NoError(t, l.MintToken(ctx, "loser", 30))

	paid, err := ledger.Transfer(ctx, l, "loser", "winner", 20)
	require.NoError(t, err)
	assert.Equal(t, int64(20), paid)

	paid, err = ledger.Transfer(ctx, l, "loser", "winner", 20)
	require.NoError(t, err)
	assert.Equal(t, int64(10), paid, "capped at remaining balance")

	paid, err = ledger.Transfer(ctx, l, "loser", "winner", 20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), paid)

	loser, _ := l.Balance(ctx, "loser")
	winner, _ := l.Balance(ctx, "winner")
	assert.Equal(t, int64(0), loser)
	assert.Equal(t, int64(30), winner)
}
