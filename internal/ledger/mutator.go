package ledger

import (
	"fmt" // Error details

	"expense_tracker/internal/domain" // Domain models

	"github.com/shopspring/decimal" // Exact money arithmetic
)

// Apply folds a transaction of type t and the given amount into a.
// An expense that would take the balance below zero fails with ErrInsufficientFunds.
func Apply(a domain.Aggregate, t domain.TransactionType, amount decimal.Decimal) (domain.Aggregate, error) {
	if err := checkEffect(t, amount); err != nil {
		return a, err
	}
	if t == domain.Expense && a.Balance.Sub(amount).IsNegative() {
		return a, fmt.Errorf("%w: balance %s, expense %s", ErrInsufficientFunds, a.Balance, amount)
	}
	return fold(a, t, amount), nil
}

// Revert removes a previously applied transaction from a. It is the exact inverse of Apply
// and never checks funds; callers must only revert what the wallet actually absorbed.
func Revert(a domain.Aggregate, t domain.TransactionType, amount decimal.Decimal) (domain.Aggregate, error) {
	if err := checkEffect(t, amount); err != nil {
		return a, err
	}
	return fold(a, t, amount.Neg()), nil
}

// fold adds delta to the total selected by t and moves the balance in t's direction.
func fold(a domain.Aggregate, t domain.TransactionType, delta decimal.Decimal) domain.Aggregate {
	total := t.Total(&a)
	*total = total.Add(delta)
	if t == domain.Income {
		a.Balance = a.Balance.Add(delta)
	} else {
		a.Balance = a.Balance.Sub(delta)
	}
	return a
}

func checkEffect(t domain.TransactionType, amount decimal.Decimal) error {
	if !t.Valid() {
		return invalid("unknown transaction type %q", t)
	}
	if !amount.IsPositive() {
		return invalid("amount must be positive")
	}
	if !domain.InCents(amount) {
		return invalid("amount %s has more than %d decimals", amount, domain.MoneyScale)
	}
	return nil
}
