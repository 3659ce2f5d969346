// Package gormstore implements store.Store on top of GORM (MySQL in production).
package gormstore

import (
	"context" // Cancellation for queries
	"errors"  // Error translation

	"expense_tracker/internal/domain" // Domain models
	"expense_tracker/internal/store"  // Store contract

	"gorm.io/gorm" // GORM ORM library
)

// Store is a GORM backed store.Store and store.Transactor
type Store struct {
	db *gorm.DB
}

// New wraps an open GORM connection
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// translate maps GORM errors onto the store sentinels
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}

func (s *Store) GetWallet(ctx context.Context, id string) (domain.Wallet, error) {
	var w domain.Wallet
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&w).Error // Query wallet by ID
	return w, translate(err)
}

func (s *Store) CreateWallet(ctx context.Context, w *domain.Wallet) error {
	return s.db.WithContext(ctx).Create(w).Error // Insert, BeforeCreate assigns the ID
}

// SaveWallet performs a conditional update on (id, version) so that a concurrent writer
// that read the same version loses instead of silently overwriting.
func (s *Store) SaveWallet(ctx context.Context, w *domain.Wallet) error {
	res := s.db.WithContext(ctx).Model(&domain.Wallet{}).
		Where("id = ? AND version = ?", w.ID, w.Version).
		Updates(map[string]any{
			"balance":       w.Balance,      // New balance
			"total_income":  w.TotalIncome,  // New income total
			"total_expense": w.TotalExpense, // New expense total
			"version":       w.Version + 1,  // Bump version
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Either the wallet vanished or somebody else won the race
		var count int64
		if err := s.db.WithContext(ctx).Model(&domain.Wallet{}).Where("id = ?", w.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return store.ErrNotFound
		}
		return store.ErrConflict
	}
	w.Version++
	return nil
}

func (s *Store) ListWallets(ctx context.Context, ownerID string) ([]domain.Wallet, error) {
	var ws []domain.Wallet
	err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at desc").Find(&ws).Error
	return ws, err
}

func (s *Store) GetTransaction(ctx context.Context, id string) (domain.Transaction, error) {
	var t domain.Transaction
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&t).Error // Query transaction by ID
	return t, translate(err)
}

func (s *Store) SaveTransaction(ctx context.Context, t *domain.Transaction) error {
	if t.ID == "" {
		return s.db.WithContext(ctx).Create(t).Error // New record
	}
	return s.db.WithContext(ctx).Save(t).Error // Upsert existing record
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Transaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) QueryTransactions(ctx context.Context, f store.TransactionFilter) ([]domain.Transaction, error) {
	query := s.db.WithContext(ctx).Model(&domain.Transaction{}) // Start building the query
	if f.OwnerID != "" {
		query = query.Where("owner_id = ?", f.OwnerID) // Filter by owner
	}
	if f.WalletID != "" {
		query = query.Where("wallet_id = ?", f.WalletID) // Filter by wallet
	}
	if !f.From.IsZero() {
		query = query.Where("date >= ?", f.From) // Filter by start date
	}
	if !f.To.IsZero() {
		query = query.Where("date <= ?", f.To) // Filter by end date
	}
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}
	var txs []domain.Transaction
	err := query.Order("date desc").Order("id").Find(&txs).Error
	return txs, err
}

// WithinTransaction runs fn inside a database transaction
func (s *Store) WithinTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

var (
	_ store.Store      = (*Store)(nil)
	_ store.Transactor = (*Store)(nil)
)
