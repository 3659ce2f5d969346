// Package store defines the document store capability the ledger runs against.
//
// Implementations only need per-document atomicity. Stores that can also run several
// writes atomically implement Transactor, and the ledger then uses it instead of
// compensating steps.
package store

import (
	"context" // Cancellation for store round-trips
	"errors"  // Sentinel errors
	"time"    // Date range filters

	"expense_tracker/internal/domain" // Domain models
)

var (
	// ErrNotFound is returned when the requested document does not exist
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned by SaveWallet when the stored version moved on
	ErrConflict = errors.New("concurrent modification")
)

// TransactionFilter narrows QueryTransactions. Zero values mean "no filter".
type TransactionFilter struct {
	OwnerID  string    // Owning user, always set by callers
	WalletID string    // Restrict to one wallet
	From     time.Time // Inclusive lower bound on Date
	To       time.Time // Inclusive upper bound on Date
	Limit    int       // Maximum rows, 0 for all
}

// Match reports whether t passes the filter
func (f TransactionFilter) Match(t domain.Transaction) bool {
	if f.OwnerID != "" && t.OwnerID != f.OwnerID {
		return false
	}
	if f.WalletID != "" && t.WalletID != f.WalletID {
		return false
	}
	if !f.From.IsZero() && t.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && t.Date.After(f.To) {
		return false
	}
	return true
}

// Store is the capability the ledger, the reports and the API are written against.
type Store interface {
	GetWallet(ctx context.Context, id string) (domain.Wallet, error)
	CreateWallet(ctx context.Context, w *domain.Wallet) error
	// SaveWallet writes the aggregates of w if its Version still matches the stored one,
	// then bumps w.Version. A mismatch yields ErrConflict.
	SaveWallet(ctx context.Context, w *domain.Wallet) error
	ListWallets(ctx context.Context, ownerID string) ([]domain.Wallet, error)

	GetTransaction(ctx context.Context, id string) (domain.Transaction, error)
	// SaveTransaction inserts t (assigning an id when empty) or overwrites it.
	SaveTransaction(ctx context.Context, t *domain.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	// QueryTransactions returns matching transactions ordered by Date, newest first.
	QueryTransactions(ctx context.Context, f TransactionFilter) ([]domain.Transaction, error)
}

// Transactor is implemented by stores that can run several writes atomically.
type Transactor interface {
	// WithinTransaction calls fn with a Store bound to one transaction. The transaction
	// commits when fn returns nil and rolls back otherwise.
	WithinTransaction(ctx context.Context, fn func(tx Store) error) error
}
