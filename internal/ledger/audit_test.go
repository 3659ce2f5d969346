package ledger

import (
	"context"
	"testing"

	"expense_tracker/internal/store/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditConsistentWallet(t *testing.T) {
	f := newFixture(t, memory.New())
	ctx := context.Background()
	w := f.wallet(t, "u1", "40")
	_, err := f.r.CreateOrUpdate(ctx, "u1", income(w, "15.50"))
	require.NoError(t, err)
	_, err = f.r.CreateOrUpdate(ctx, "u1", expense(w, "5.25"))
	require.NoError(t, err)

	rep, err := f.r.Audit(ctx, w)
	require.NoError(t, err)
	assert.True(t, rep.Consistent)
	assert.Equal(t, 2, rep.Transactions)
	assertAggregate(t, agg("50.25", "15.50", "5.25"), rep.Expected)
}

func TestAuditUnknownWallet(t *testing.T) {
	f := newFixture(t, memory.New())
	_, err := f.r.Audit(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateWalletValidation(t *testing.T) {
	f := newFixture(t, memory.New())
	ctx := context.Background()

	_, err := f.r.CreateWallet(ctx, "u1", "  ", decimal.Zero)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.r.CreateWallet(ctx, "u1", "Cash", dec("-1"))
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.r.CreateWallet(ctx, "", "Cash", decimal.Zero)
	assert.ErrorIs(t, err, ErrValidation)

	w, err := f.r.CreateWallet(ctx, "u1", " Cash ", dec("12"))
	require.NoError(t, err)
	assert.Equal(t, "Cash", w.Name)

	ws, err := f.r.ListWallets(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, ws, 1)
	assert.Equal(t, w.ID, ws[0].ID)
}
