package memory

import (
	"context" // Store signature
	"sync"    // Serializes transactions

	"expense_tracker/internal/domain" // Domain models
	"expense_tracker/internal/store"  // Store contract
)

// Transactional wraps a Store and adds all-or-nothing WithinTransaction semantics by
// snapshotting the maps. Plain calls wait while a transaction runs, so a rollback
// never discards a write made outside of it.
type Transactional struct {
	store *Store
	txMu  sync.Mutex
}

// NewTransactional returns an empty store that implements store.Transactor
func NewTransactional() *Transactional {
	return &Transactional{store: New()}
}

func (t *Transactional) WithinTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	t.txMu.Lock()
	defer t.txMu.Unlock()
	ws, ts := t.store.snapshot()
	if err := fn(t.store); err != nil {
		t.store.restore(ws, ts)
		return err
	}
	return nil
}

func (t *Transactional) GetWallet(ctx context.Context, id string) (domain.Wallet, error) {
	t.txMu.Lock()
	defer t.txMu.Unlock()
	return t.store.GetWallet(ctx, id)
}

func (t *Transactional) CreateWallet(ctx context.Context, w *domain.Wallet) error {
	t.txMu.Lock()
	defer t.txMu.Unlock()
	return t.store.CreateWallet(ctx, w)
}

func (t *Transactional) SaveWallet(ctx context.Context, w *domain.Wallet) error {
	t.txMu.Lock()
	defer t.txMu.Unlock()
	return t.store.SaveWallet(ctx, w)
}

func (t *Transactional) ListWallets(ctx context.Context, ownerID string) ([]domain.Wallet, error) {
	t.txMu.Lock()
	defer t.txMu.Unlock()
	return t.store.ListWallets(ctx, ownerID)
}

func (t *Transactional) GetTransaction(ctx context.Context, id string) (domain.Transaction, error) {
	t.txMu.Lock()
	defer t.txMu.Unlock()
	return t.store.GetTransaction(ctx, id)
}

func (t *Transactional) SaveTransaction(ctx context.Context, tx *domain.Transaction) error {
	t.txMu.Lock()
	defer t.txMu.Unlock()
	return t.store.SaveTransaction(ctx, tx)
}

func (t *Transactional) DeleteTransaction(ctx context.Context, id string) error {
	t.txMu.Lock()
	defer t.txMu.Unlock()
	return t.store.DeleteTransaction(ctx, id)
}

func (t *Transactional) QueryTransactions(ctx context.Context, f store.TransactionFilter) ([]domain.Transaction, error) {
	t.txMu.Lock()
	defer t.txMu.Unlock()
	return t.store.QueryTransactions(ctx, f)
}

var (
	_ store.Store      = (*Store)(nil)
	_ store.Store      = (*Transactional)(nil)
	_ store.Transactor = (*Transactional)(nil)
)
