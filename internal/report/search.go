package report

import (
	"context" // Store round-trips
	"strings" // Case folding

	"expense_tracker/internal/domain" // Domain models
	"expense_tracker/internal/store"  // Store contract
)

// Search returns the owner's transactions, newest first, matching q (see Match).
func (p *Projector) Search(ctx context.Context, ownerID, q string) ([]domain.Transaction, error) {
	txs, err := p.store.QueryTransactions(ctx, store.TransactionFilter{OwnerID: ownerID})
	if err != nil {
		return nil, err
	}
	return Filter(txs, q), nil
}

// Filter keeps the transactions matching q. An empty query keeps everything.
func Filter(txs []domain.Transaction, q string) []domain.Transaction {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return txs
	}
	out := make([]domain.Transaction, 0, len(txs))
	for _, t := range txs {
		if Match(t, q) {
			out = append(out, t)
		}
	}
	return out
}

// Match reports whether the lower-cased query q appears in the category label,
// the description or the amount of t.
func Match(t domain.Transaction, q string) bool {
	return strings.Contains(strings.ToLower(domain.CategoryLabel(t)), q) ||
		strings.Contains(strings.ToLower(t.Description), q) ||
		strings.Contains(t.Amount.String(), q)
}
