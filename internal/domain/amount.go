package domain

import (
	"errors"  // Sentinel errors
	"strings" // Input normalization

	"github.com/shopspring/decimal" // Exact money arithmetic
)

// MoneyScale is the number of decimals every stored amount carries (decimal(20,2))
const MoneyScale = 2

var (
	// ErrInvalidAmount is returned for amounts that are not positive decimals in cents
	ErrInvalidAmount = errors.New("amount must be a positive decimal number with at most 2 decimals")
	// ErrInvalidBalance is returned for balances that are negative or finer than cents
	ErrInvalidBalance = errors.New("balance must be a non-negative decimal number with at most 2 decimals")
)

// InCents reports whether d is representable with MoneyScale decimals
func InCents(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyScale))
}

// ParseAmount parses a user supplied amount. Both "12.34" and "12,34" are accepted;
// anything else that is not a plain positive number in cents is rejected rather than coerced.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, ok := parsePlain(s)
	if !ok || !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ParseBalance is ParseAmount for starting balances, which may be zero
func ParseBalance(s string) (decimal.Decimal, error) {
	d, ok := parsePlain(s)
	if !ok || d.IsNegative() {
		return decimal.Zero, ErrInvalidBalance
	}
	return d, nil
}

// parsePlain accepts digits with at most one decimal separator and MoneyScale decimals
func parsePlain(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, false
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return decimal.Zero, false
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !InCents(d) {
		return decimal.Zero, false
	}
	return d, true
}
