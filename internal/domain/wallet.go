package domain

import (
	"time" // Creation timestamps

	"github.com/google/uuid"        // Identifier generation
	"github.com/shopspring/decimal" // Exact money arithmetic
	"gorm.io/gorm"                  // GORM hooks
)

// Aggregate is the denormalized money summary cached on every wallet
type Aggregate struct {
	Balance      decimal.Decimal `json:"balance" gorm:"type:decimal(20,2);not null;default:0"`       // Current spendable amount
	TotalIncome  decimal.Decimal `json:"total_income" gorm:"type:decimal(20,2);not null;default:0"`  // Lifetime income
	TotalExpense decimal.Decimal `json:"total_expense" gorm:"type:decimal(20,2);not null;default:0"` // Lifetime expense
}

// Equal reports whether both aggregates hold the same amounts, ignoring decimal exponents.
func (a Aggregate) Equal(b Aggregate) bool {
	return a.Balance.Equal(b.Balance) && a.TotalIncome.Equal(b.TotalIncome) && a.TotalExpense.Equal(b.TotalExpense)
}

// Wallet Model
type Wallet struct {
	Aggregate `gorm:"embedded"` // Cached balance and totals

	ID             string          `json:"id" gorm:"primaryKey;size:36"`                                 // Primary key (uuid)
	OwnerID        string          `json:"owner_id" gorm:"size:36;index;not null"`                       // Foreign key to User
	Name           string          `json:"name" gorm:"not null"`                                         // Display name
	InitialBalance decimal.Decimal `json:"initial_balance" gorm:"type:decimal(20,2);not null;default:0"` // Balance at creation
	Version        int64           `json:"version" gorm:"not null;default:0"`                            // Optimistic concurrency counter
	CreatedAt      time.Time       `json:"created_at" gorm:"autoCreateTime"`                             // Timestamp of creation
}

// BeforeCreate assigns a uuid when the caller did not pick one
func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

// NewWallet builds a wallet whose balance starts at initial with empty totals
func NewWallet(ownerID, name string, initial decimal.Decimal) Wallet {
	return Wallet{
		OwnerID:        ownerID,
		Name:           name,
		InitialBalance: initial,
		Aggregate: Aggregate{
			Balance:      initial,
			TotalIncome:  decimal.Zero,
			TotalExpense: decimal.Zero,
		},
	}
}
