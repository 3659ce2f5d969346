package report

import (
	"context"
	"testing"
	"time"

	"expense_tracker/internal/domain"
	"expense_tracker/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	salary := tx(domain.Income, "2500", day)
	salary.Description = "June salary"
	food := tx(domain.Expense, "42.75", day)
	food.Description = "Weekly shop"
	rent := tx(domain.Expense, "900", day)
	rent.Category = "rent"
	all := []domain.Transaction{salary, food, rent}

	assert.Len(t, Filter(all, ""), 3)
	assert.Equal(t, []domain.Transaction{salary}, Filter(all, "INCOME"))
	assert.Equal(t, []domain.Transaction{food}, Filter(all, "grocer"))
	assert.Equal(t, []domain.Transaction{food}, Filter(all, " shop "))
	assert.Equal(t, []domain.Transaction{food}, Filter(all, "42.7"))
	assert.Equal(t, []domain.Transaction{salary, rent}, Filter(all, "00"))
	assert.Empty(t, Filter(all, "yacht"))
}

func TestProjectorSearch(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	a := tx(domain.Expense, "12", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	a.Description = "coffee beans"
	b := tx(domain.Expense, "8", time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))
	b.Description = "coffee"
	c := tx(domain.Expense, "8", time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC))
	c.Description = "tea"
	for _, t0 := range []*domain.Transaction{&a, &b, &c} {
		require.NoError(t, st.SaveTransaction(ctx, t0))
	}

	got, err := NewProjector(st).Search(ctx, "u1", "coffee")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, b.ID, got[0].ID)
	assert.Equal(t, a.ID, got[1].ID)
}
