// Package memory is an in-process Store used by tests and local development.
package memory

import (
	"context" // Store signature
	"sort"    // Result ordering
	"sync"    // Guards the maps
	"time"    // Creation timestamps

	"expense_tracker/internal/domain" // Domain models
	"expense_tracker/internal/store"  // Store contract

	"github.com/google/uuid" // Identifier generation
)

// Store keeps wallets and transactions in maps. It offers per-document atomicity only,
// like a hosted document database.
type Store struct {
	mu      sync.Mutex
	wallets map[string]domain.Wallet
	txs     map[string]domain.Transaction
}

// New returns an empty store
func New() *Store {
	return &Store{
		wallets: make(map[string]domain.Wallet),
		txs:     make(map[string]domain.Transaction),
	}
}

func (s *Store) GetWallet(ctx context.Context, id string) (domain.Wallet, error) {
	if err := ctx.Err(); err != nil {
		return domain.Wallet{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[id]
	if !ok {
		return domain.Wallet{}, store.ErrNotFound
	}
	return w, nil
}

func (s *Store) CreateWallet(ctx context.Context, w *domain.Wallet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}
	s.wallets[w.ID] = *w
	return nil
}

func (s *Store) SaveWallet(ctx context.Context, w *domain.Wallet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.wallets[w.ID]
	if !ok {
		return store.ErrNotFound
	}
	if cur.Version != w.Version {
		return store.ErrConflict
	}
	cur.Aggregate = w.Aggregate
	cur.Version++
	s.wallets[w.ID] = cur
	w.Version = cur.Version
	return nil
}

func (s *Store) ListWallets(ctx context.Context, ownerID string) ([]domain.Wallet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Wallet
	for _, w := range s.wallets {
		if w.OwnerID == ownerID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) GetTransaction(ctx context.Context, id string) (domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txs[id]
	if !ok {
		return domain.Transaction{}, store.ErrNotFound
	}
	return t, nil
}

func (s *Store) SaveTransaction(ctx context.Context, t *domain.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	s.txs[t.ID] = *t
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.txs[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.txs, id)
	return nil
}

func (s *Store) QueryTransactions(ctx context.Context, f store.TransactionFilter) ([]domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Transaction
	for _, t := range s.txs {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID < out[j].ID
		}
		return out[i].Date.After(out[j].Date)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// snapshot copies both maps
func (s *Store) snapshot() (map[string]domain.Wallet, map[string]domain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws := make(map[string]domain.Wallet, len(s.wallets))
	for k, v := range s.wallets {
		ws[k] = v
	}
	ts := make(map[string]domain.Transaction, len(s.txs))
	for k, v := range s.txs {
		ts[k] = v
	}
	return ws, ts
}

func (s *Store) restore(ws map[string]domain.Wallet, ts map[string]domain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets, s.txs = ws, ts
}
