package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"expense_tracker/internal/domain"
	"expense_tracker/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveWalletVersionCheck(t *testing.T) {
	ctx := context.Background()
	s := New()
	w := domain.NewWallet("u1", "Cash", decimal.NewFromInt(10))
	require.NoError(t, s.CreateWallet(ctx, &w))
	require.NotEmpty(t, w.ID)

	stale := w
	w.Balance = decimal.NewFromInt(20)
	require.NoError(t, s.SaveWallet(ctx, &w))
	assert.Equal(t, int64(1), w.Version)

	stale.Balance = decimal.NewFromInt(5)
	assert.ErrorIs(t, s.SaveWallet(ctx, &stale), store.ErrConflict)

	got, err := s.GetWallet(ctx, w.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(20)))
}

func TestQueryTransactions(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	for i, owner := range []string{"u1", "u1", "u2", "u1"} {
		tx := domain.Transaction{OwnerID: owner, WalletID: "w1", Type: domain.Income, Amount: decimal.NewFromInt(1), Date: base.AddDate(0, 0, i)}
		require.NoError(t, s.SaveTransaction(ctx, &tx))
	}

	all, err := s.QueryTransactions(ctx, store.TransactionFilter{OwnerID: "u1"})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].Date.After(all[1].Date))
	assert.True(t, all[1].Date.After(all[2].Date))

	limited, err := s.QueryTransactions(ctx, store.TransactionFilter{OwnerID: "u1", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	ranged, err := s.QueryTransactions(ctx, store.TransactionFilter{OwnerID: "u1", From: base.AddDate(0, 0, 1), To: base.AddDate(0, 0, 2)})
	require.NoError(t, err)
	assert.Len(t, ranged, 1)
}

func TestDeleteMissingTransaction(t *testing.T) {
	assert.ErrorIs(t, New().DeleteTransaction(context.Background(), "nope"), store.ErrNotFound)
}

func TestListWalletsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()
	old := domain.Wallet{OwnerID: "u1", Name: "old", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	fresh := domain.Wallet{OwnerID: "u1", Name: "new", CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	other := domain.Wallet{OwnerID: "u2", Name: "other"}
	for _, w := range []*domain.Wallet{&old, &fresh, &other} {
		require.NoError(t, s.CreateWallet(ctx, w))
	}

	ws, err := s.ListWallets(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, ws, 2)
	assert.Equal(t, "new", ws[0].Name)
	assert.Equal(t, "old", ws[1].Name)
}

func TestWithinTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	s := NewTransactional()
	w := domain.NewWallet("u1", "Cash", decimal.NewFromInt(10))
	require.NoError(t, s.CreateWallet(ctx, &w))

	boom := errors.New("boom")
	err := s.WithinTransaction(ctx, func(tx store.Store) error {
		w.Balance = decimal.NewFromInt(99)
		if err := tx.SaveWallet(ctx, &w); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.GetWallet(ctx, w.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, int64(0), got.Version)
}

func TestRollbackKeepsWritesMadeOutsideTheTransaction(t *testing.T) {
	ctx := context.Background()
	s := NewTransactional()
	started := make(chan struct{})
	release := make(chan struct{})
	outside := make(chan error, 1)

	go func() {
		_ = s.WithinTransaction(ctx, func(tx store.Store) error {
			close(started)
			<-release
			return errors.New("rollback")
		})
	}()
	<-started
	w := domain.NewWallet("u2", "Outside", decimal.Zero)
	go func() { outside <- s.CreateWallet(ctx, &w) }()

	select {
	case <-outside:
		t.Fatal("plain write ran while a transaction was open")
	case <-time.After(20 * time.Millisecond):
	}
	close(release)
	require.NoError(t, <-outside)

	_, err := s.GetWallet(ctx, w.ID)
	assert.NoError(t, err)
}
