package main

import (
	"context" // Command context
	"flag"    // Flag parsing
	"fmt"     // Output

	"expense_tracker/internal/ledger" // Wallet audit

	"github.com/google/subcommands" // Subcommand dispatch
	"github.com/sirupsen/logrus"    // Logging library
	"golang.org/x/sync/errgroup"    // Bounded fan-out
)

// auditParallelism bounds concurrent wallet audits against the database
const auditParallelism = 8

type auditCmd struct {
	env   *env
	owner string
}

func (*auditCmd) Name() string     { return "audit" }
func (*auditCmd) Synopsis() string { return "compare wallet totals with their transactions" }
func (*auditCmd) Usage() string {
	return `ledgerctl audit [-owner <user id>] [<wallet id>...]

  Recomputes each wallet's balance, income and expense from its transactions and
  reports wallets whose stored totals drifted. Exits 1 when any wallet drifted.
`
}

func (c *auditCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.owner, "owner", "", "audit every wallet of this user")
}

func (c *auditCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ids := f.Args()
	if c.owner == "" && len(ids) == 0 {
		fmt.Fprintln(c.env.out, "Error: give -owner or at least one wallet id")
		return subcommands.ExitUsageError
	}
	st, err := c.env.open()
	if err != nil {
		fmt.Fprintf(c.env.out, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	rec := ledger.NewReconciler(st, nil, logrus.StandardLogger(), 0)
	if c.owner != "" {
		ws, err := rec.ListWallets(ctx, c.owner)
		if err != nil {
			fmt.Fprintf(c.env.out, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		for _, w := range ws {
			ids = append(ids, w.ID)
		}
	}

	reports := make([]ledger.AuditReport, len(ids))
	errs := make([]error, len(ids))
	var g errgroup.Group
	g.SetLimit(auditParallelism)
	for i, id := range ids {
		g.Go(func() error {
			reports[i], errs[i] = rec.Audit(ctx, id)
			return nil // Per-wallet failures are reported below
		})
	}
	_ = g.Wait()

	status := subcommands.ExitSuccess
	for i, id := range ids {
		if errs[i] != nil {
			fmt.Fprintf(c.env.out, "%s: %v\n", id, errs[i])
			status = subcommands.ExitFailure
			continue
		}
		rep := reports[i]
		verdict := "ok"
		if !rep.Consistent {
			verdict = "DRIFT"
			status = subcommands.ExitFailure
		}
		fmt.Fprintf(c.env.out, "%s: %s balance=%s expected=%s income=%s/%s expense=%s/%s transactions=%d\n",
			id, verdict,
			rep.Cached.Balance, rep.Expected.Balance,
			rep.Cached.TotalIncome, rep.Expected.TotalIncome,
			rep.Cached.TotalExpense, rep.Expected.TotalExpense,
			rep.Transactions)
	}
	return status
}
