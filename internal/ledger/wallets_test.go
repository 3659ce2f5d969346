package ledger

import (
	"context"
	"testing"
	"time"

	"expense_tracker/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWallet(t *testing.T) {
	f := newFixture(t, memory.New())
	ctx := context.Background()

	w, err := f.r.CreateWallet(ctx, "alice", "  Savings ", dec("250.75"))
	require.NoError(t, err)
	assert.NotEmpty(t, w.ID)
	assert.Equal(t, "Savings", w.Name)
	assert.Equal(t, "alice", w.OwnerID)
	assertAggregate(t, agg("250.75", "0", "0"), w.Aggregate)
	assert.True(t, w.InitialBalance.Equal(dec("250.75")))

	tests := []struct {
		name    string
		owner   string
		wallet  string
		initial string
	}{
		{"missing owner", "", "Main", "0"},
		{"blank name", "alice", "   ", "0"},
		{"negative initial balance", "alice", "Main", "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.r.CreateWallet(ctx, tt.owner, tt.wallet, dec(tt.initial))
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestListWalletsIsPerOwner(t *testing.T) {
	f := newFixture(t, memory.New())
	ctx := context.Background()

	first := f.wallet(t, "alice", "10")
	time.Sleep(time.Millisecond) // Distinct creation times
	second := f.wallet(t, "alice", "20")
	f.wallet(t, "bob", "30")

	ws, err := f.r.ListWallets(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, ws, 2)
	assert.Equal(t, second, ws[0].ID, "newest first")
	assert.Equal(t, first, ws[1].ID)

	ws, err = f.r.ListWallets(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, ws)
}
