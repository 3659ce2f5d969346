package main

import (
	"bytes"
	"context"
	"flag"
	"testing"
	"time"

	"expense_tracker/internal/domain"
	"expense_tracker/internal/ledger"
	"expense_tracker/internal/store"
	"expense_tracker/internal/store/memory"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, st store.Store, cmd subcommands.Command, args ...string) (subcommands.ExitStatus, string) {
	t.Helper()
	var out bytes.Buffer
	e := &env{open: func() (store.Store, error) { return st, nil }, out: &out}
	switch c := cmd.(type) {
	case *auditCmd:
		c.env = e
	case *statsCmd:
		c.env = e
	}
	f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(f)
	require.NoError(t, f.Parse(args))
	return cmd.Execute(context.Background(), f), out.String()
}

func seed(t *testing.T) (*memory.Store, domain.Wallet) {
	t.Helper()
	st := memory.New()
	rec := ledger.NewReconciler(st, nil, nil, 0)
	ctx := context.Background()
	w, err := rec.CreateWallet(ctx, "alice", "Main", decimal.NewFromInt(100))
	require.NoError(t, err)
	_, err = rec.CreateOrUpdate(ctx, "alice", ledger.Draft{
		Type:     domain.Expense,
		Amount:   decimal.NewFromInt(30),
		WalletID: w.ID,
		Date:     time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		Category: "rent",
	})
	require.NoError(t, err)
	return st, w
}

func TestAuditConsistentWallet(t *testing.T) {
	st, w := seed(t)

	status, out := run(t, st, &auditCmd{}, "-owner", "alice")

	assert.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, w.ID+": ok balance=70 expected=70")
}

func TestAuditReportsDrift(t *testing.T) {
	st, w := seed(t)
	ctx := context.Background()
	stored, err := st.GetWallet(ctx, w.ID)
	require.NoError(t, err)
	stored.Balance = decimal.NewFromInt(95)
	require.NoError(t, st.SaveWallet(ctx, &stored))

	status, out := run(t, st, &auditCmd{}, w.ID)

	assert.Equal(t, subcommands.ExitFailure, status)
	assert.Contains(t, out, "DRIFT balance=95 expected=70")
}

func TestAuditUsage(t *testing.T) {
	st, _ := seed(t)
	status, _ := run(t, st, &auditCmd{})
	assert.Equal(t, subcommands.ExitUsageError, status)

	status, out := run(t, st, &auditCmd{}, "missing")
	assert.Equal(t, subcommands.ExitFailure, status)
	assert.Contains(t, out, "not found")
}

func TestStatsPrintsBuckets(t *testing.T) {
	st, _ := seed(t)

	status, out := run(t, st, &statsCmd{}, "-owner", "alice", "-period", "weekly", "-d", "2025-06-04")

	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "Mon")
	assert.Contains(t, out, "30.00")
	assert.Contains(t, out, "1 transactions")

	status, _ = run(t, st, &statsCmd{}, "-owner", "alice", "-period", "daily")
	assert.Equal(t, subcommands.ExitUsageError, status)
}
