package ledger

import (
	"testing"

	"expense_tracker/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func agg(balance, income, expense string) domain.Aggregate {
	return domain.Aggregate{Balance: dec(balance), TotalIncome: dec(income), TotalExpense: dec(expense)}
}

func assertAggregate(t *testing.T, want, got domain.Aggregate) {
	t.Helper()
	assert.Truef(t, want.Equal(got), "want {%s %s %s}, got {%s %s %s}",
		want.Balance, want.TotalIncome, want.TotalExpense, got.Balance, got.TotalIncome, got.TotalExpense)
}

func TestApply(t *testing.T) {
	got, err := Apply(agg("100", "0", "0"), domain.Income, dec("20"))
	require.NoError(t, err)
	assertAggregate(t, agg("120", "20", "0"), got)

	got, err = Apply(agg("100", "0", "0"), domain.Expense, dec("30"))
	require.NoError(t, err)
	assertAggregate(t, agg("70", "0", "30"), got)

	got, err = Apply(agg("30", "0", "0"), domain.Expense, dec("30"))
	require.NoError(t, err, "spending the whole balance is allowed")
	assertAggregate(t, agg("0", "0", "30"), got)
}

func TestApplyInsufficientFunds(t *testing.T) {
	start := agg("10", "0", "0")
	got, err := Apply(start, domain.Expense, dec("10.01"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assertAggregate(t, start, got)
}

func TestRevert(t *testing.T) {
	got, err := Revert(agg("120", "20", "0"), domain.Income, dec("20"))
	require.NoError(t, err)
	assertAggregate(t, agg("100", "0", "0"), got)

	got, err = Revert(agg("0", "0", "30"), domain.Expense, dec("30"))
	require.NoError(t, err)
	assertAggregate(t, agg("30", "0", "0"), got)

	// Revert never checks funds
	got, err = Revert(agg("5", "20", "0"), domain.Income, dec("20"))
	require.NoError(t, err)
	assertAggregate(t, agg("-15", "0", "0"), got)
}

func TestMutatorRejectsBadInput(t *testing.T) {
	_, err := Apply(agg("1", "0", "0"), domain.Income, decimal.Zero)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = Apply(agg("1", "0", "0"), domain.Income, dec("-1"))
	assert.ErrorIs(t, err, ErrValidation)
	_, err = Revert(agg("1", "0", "0"), domain.TransactionType("transfer"), dec("1"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestApplyRevertRoundTrip(t *testing.T) {
	wallets := []domain.Aggregate{
		agg("0", "0", "0"),
		agg("100", "0", "0"),
		agg("12.34", "56.78", "44.44"),
		agg("999999.99", "1000000", "0.01"),
	}
	amounts := []string{"0.01", "1", "12.34", "100", "999999.99"}
	for _, w := range wallets {
		for _, a := range amounts {
			for _, typ := range []domain.TransactionType{domain.Income, domain.Expense} {
				applied, err := Apply(w, typ, dec(a))
				if err != nil {
					assert.ErrorIs(t, err, ErrInsufficientFunds)
					continue
				}
				back, err := Revert(applied, typ, dec(a))
				require.NoError(t, err)
				assertAggregate(t, w, back)
			}
		}
	}
}

func decFromInt(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }
