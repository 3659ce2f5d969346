package domain

import (
	"time" // Transaction dates

	"github.com/google/uuid"        // Identifier generation
	"github.com/shopspring/decimal" // Exact money arithmetic
	"gorm.io/gorm"                  // GORM hooks
)

// TransactionType is either income or expense
type TransactionType string

const (
	Income  TransactionType = "income"  // Money coming into a wallet
	Expense TransactionType = "expense" // Money leaving a wallet
)

// Valid reports whether t is one of the known types
func (t TransactionType) Valid() bool {
	switch t {
	case Income, Expense:
		return true
	}
	return false
}

// Total returns the lifetime total of a that t accumulates into, or nil for an unknown type.
func (t TransactionType) Total(a *Aggregate) *decimal.Decimal {
	switch t {
	case Income:
		return &a.TotalIncome
	case Expense:
		return &a.TotalExpense
	}
	return nil
}

// Transaction Model
type Transaction struct {
	ID          string          `json:"id" gorm:"primaryKey;size:36"`              // Primary key (uuid)
	OwnerID     string          `json:"owner_id" gorm:"size:36;index;not null"`    // Owning user
	WalletID    string          `json:"wallet_id" gorm:"size:36;index;not null"`   // Wallet the amount is applied to
	Type        TransactionType `json:"type" gorm:"size:16;not null"`              // income or expense
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"` // Always positive
	Category    string          `json:"category,omitempty" gorm:"size:64"`         // Expense category key
	Description string          `json:"description,omitempty"`                     // Free text
	ReceiptURL  string          `json:"receipt_url,omitempty"`                     // Uploaded receipt
	Date        time.Time       `json:"date" gorm:"index;not null"`                // User-editable date
	CreatedAt   time.Time       `json:"created_at" gorm:"autoCreateTime"`          // Timestamp of creation
}

// BeforeCreate assigns a uuid when the caller did not pick one
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Effect is the part of a transaction that touches wallet aggregates
type Effect struct {
	Type     TransactionType
	Amount   decimal.Decimal
	WalletID string
}

// Effect returns the aggregate-relevant fields of t
func (t Transaction) Effect() Effect {
	return Effect{Type: t.Type, Amount: t.Amount, WalletID: t.WalletID}
}

// Same reports whether both effects move the same money on the same wallet.
func (e Effect) Same(o Effect) bool {
	return e.Type == o.Type && e.WalletID == o.WalletID && e.Amount.Equal(o.Amount)
}
