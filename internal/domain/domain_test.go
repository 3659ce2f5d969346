package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionTypeTotal(t *testing.T) {
	a := Aggregate{TotalIncome: decimal.NewFromInt(1), TotalExpense: decimal.NewFromInt(2)}

	assert.Same(t, &a.TotalIncome, Income.Total(&a))
	assert.Same(t, &a.TotalExpense, Expense.Total(&a))
	assert.Nil(t, TransactionType("transfer").Total(&a))
	assert.False(t, TransactionType("").Valid())
}

func TestEffectSame(t *testing.T) {
	tx := Transaction{Type: Expense, Amount: decimal.RequireFromString("30.00"), WalletID: "w1"}

	assert.True(t, tx.Effect().Same(Effect{Type: Expense, Amount: decimal.NewFromInt(30), WalletID: "w1"}))
	assert.False(t, tx.Effect().Same(Effect{Type: Income, Amount: decimal.NewFromInt(30), WalletID: "w1"}))
	assert.False(t, tx.Effect().Same(Effect{Type: Expense, Amount: decimal.NewFromInt(31), WalletID: "w1"}))
	assert.False(t, tx.Effect().Same(Effect{Type: Expense, Amount: decimal.NewFromInt(30), WalletID: "w2"}))
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, IncomeCategory, CategoryLabel(Transaction{Type: Income, Category: "rent"}))
	assert.Equal(t, "Groceries", CategoryLabel(Transaction{Type: Expense, Category: "groceries"}))
	assert.Equal(t, "", CategoryLabel(Transaction{Type: Expense, Category: "unknown"}))
}

func TestNewWallet(t *testing.T) {
	w := NewWallet("u1", "Cash", decimal.NewFromInt(100))

	assert.True(t, w.Balance.Equal(decimal.NewFromInt(100)))
	assert.True(t, w.InitialBalance.Equal(decimal.NewFromInt(100)))
	assert.True(t, w.TotalIncome.IsZero())
	assert.True(t, w.TotalExpense.IsZero())
}
