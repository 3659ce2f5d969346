package ledger

import (
	"context" // Store round-trips

	"expense_tracker/internal/domain" // Domain models
	"expense_tracker/internal/store"  // Store contract

	"github.com/shopspring/decimal" // Exact money arithmetic
	"github.com/sirupsen/logrus"    // Structured logging
)

// AuditReport compares a wallet's cached aggregates with what its transactions add up to.
type AuditReport struct {
	WalletID     string           `json:"wallet_id"`
	Cached       domain.Aggregate `json:"cached"`
	Expected     domain.Aggregate `json:"expected"`
	Transactions int              `json:"transactions"`
	Consistent   bool             `json:"consistent"`
}

// Audit recomputes a wallet's aggregates from its persisted transactions. It is the
// tool for cleaning up after a PartialFailureError.
func (r *Reconciler) Audit(ctx context.Context, walletID string) (AuditReport, error) {
	w, err := r.store.GetWallet(ctx, walletID)
	if err != nil {
		return AuditReport{}, storeErr("load wallet "+walletID, err)
	}
	txs, err := r.store.QueryTransactions(ctx, store.TransactionFilter{WalletID: walletID})
	if err != nil {
		return AuditReport{}, storeErr("query transactions", err)
	}
	expected := domain.Aggregate{Balance: w.InitialBalance, TotalIncome: decimal.Zero, TotalExpense: decimal.Zero}
	valid := true
	for _, t := range txs {
		if !t.Type.Valid() {
			valid = false // Unknown type, cannot be folded
			continue
		}
		expected = fold(expected, t.Type, t.Amount)
	}
	rep := AuditReport{
		WalletID:     walletID,
		Cached:       w.Aggregate,
		Expected:     expected,
		Transactions: len(txs),
		Consistent:   valid && expected.Equal(w.Aggregate),
	}
	if !rep.Consistent {
		r.log.WithFields(logrus.Fields{
			"wallet_id":        walletID,                  // Wallet ID
			"cached_balance":   w.Balance.String(),        // Stored balance
			"expected_balance": expected.Balance.String(), // Recomputed balance
		}).Warn("Wallet aggregates drifted from transactions")
	}
	return rep, nil
}
