package ledger

import (
	"context" // Store round-trips
	"errors"  // Conflict detection
	"fmt"     // Error wrapping
	"strings" // Name normalization

	"expense_tracker/internal/domain" // Domain models
	"expense_tracker/internal/store"  // Store contract

	"github.com/shopspring/decimal" // Exact money arithmetic
	"github.com/sirupsen/logrus"    // Structured logging
)

// compensationAttempts bounds the re-read/re-write loop of a compensating write
const compensationAttempts = 3

// loadWallet reads a wallet and hides wallets owned by someone else
func loadWallet(ctx context.Context, st store.Store, ownerID, id string) (domain.Wallet, error) {
	w, err := st.GetWallet(ctx, id)
	if err != nil {
		return w, storeErr("load wallet "+id, err)
	}
	if w.OwnerID != ownerID {
		return domain.Wallet{}, fmt.Errorf("load wallet %s: %w", id, ErrNotFound)
	}
	return w, nil
}

func saveWallet(ctx context.Context, st store.Store, w *domain.Wallet) error {
	if err := st.SaveWallet(ctx, w); err != nil {
		return storeErr("save wallet "+w.ID, err)
	}
	return nil
}

// loadTransaction reads a transaction and hides transactions owned by someone else
func loadTransaction(ctx context.Context, st store.Store, ownerID, id string) (domain.Transaction, error) {
	t, err := st.GetTransaction(ctx, id)
	if err != nil {
		return t, storeErr("load transaction "+id, err)
	}
	if t.OwnerID != ownerID {
		return domain.Transaction{}, fmt.Errorf("load transaction %s: %w", id, ErrNotFound)
	}
	return t, nil
}

// adjust re-reads a wallet, applies fn and writes it back, retrying lost races.
// Compensating writes go through here.
func adjust(ctx context.Context, st store.Store, walletID string, fn func(domain.Aggregate) domain.Aggregate) error {
	var err error
	for range compensationAttempts {
		var w domain.Wallet
		if w, err = st.GetWallet(ctx, walletID); err != nil {
			return storeErr("load wallet "+walletID, err)
		}
		w.Aggregate = fn(w.Aggregate)
		if err = saveWallet(ctx, st, &w); !errors.Is(err, store.ErrConflict) {
			return err
		}
	}
	return err
}

// CreateWallet creates a wallet for ownerID starting at the given balance
func (r *Reconciler) CreateWallet(ctx context.Context, ownerID, name string, initial decimal.Decimal) (domain.Wallet, error) {
	name = strings.TrimSpace(name)
	switch {
	case ownerID == "":
		return domain.Wallet{}, invalid("missing owner")
	case name == "":
		return domain.Wallet{}, invalid("wallet name is required")
	case initial.IsNegative():
		return domain.Wallet{}, invalid("initial balance cannot be negative")
	case !domain.InCents(initial):
		return domain.Wallet{}, invalid("initial balance %s has more than %d decimals", initial, domain.MoneyScale)
	}
	w := domain.NewWallet(ownerID, name, initial)
	if err := r.store.CreateWallet(ctx, &w); err != nil {
		r.log.WithFields(logrus.Fields{
			"owner_id": ownerID,     // User ID
			"error":    err.Error(), // Error message
		}).Error("Failed to create wallet")
		return domain.Wallet{}, storeErr("create wallet", err)
	}
	r.log.WithFields(logrus.Fields{
		"owner_id":  ownerID,          // User ID
		"wallet_id": w.ID,             // Wallet ID
		"balance":   initial.String(), // Starting balance
	}).Info("Wallet created")
	return w, nil
}

// ListWallets returns the owner's wallets, newest first
func (r *Reconciler) ListWallets(ctx context.Context, ownerID string) ([]domain.Wallet, error) {
	ws, err := r.store.ListWallets(ctx, ownerID)
	if err != nil {
		return nil, storeErr("list wallets", err)
	}
	return ws, nil
}
