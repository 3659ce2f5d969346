package main

import (
	"context"        // Command context
	"flag"           // Flag parsing
	"fmt"            // Output
	"text/tabwriter" // Column layout
	"time"           // Report end date

	"expense_tracker/internal/report" // Stats projection

	"github.com/google/subcommands" // Subcommand dispatch
)

type statsCmd struct {
	env    *env
	owner  string
	period string
	date   string
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "print a user's income and expense chart" }
func (*statsCmd) Usage() string {
	return `ledgerctl stats -owner <user id> [-period weekly|monthly|yearly] [-d <date>]

  Prints income and expense per day, month or year up to the given date.
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.owner, "owner", "", "user whose transactions are charted")
	f.StringVar(&c.period, "period", string(report.Monthly), "weekly, monthly or yearly")
	f.StringVar(&c.date, "d", "", "end date, YYYY-MM-DD (defaults to now)")
}

func (c *statsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	period, err := report.ParsePeriod(c.period)
	if err != nil || c.owner == "" {
		fmt.Fprintln(c.env.out, "Error: -owner is required and -period must be weekly, monthly or yearly")
		return subcommands.ExitUsageError
	}
	now := time.Now().UTC()
	if c.date != "" {
		d, err := time.Parse("2006-01-02", c.date)
		if err != nil {
			fmt.Fprintf(c.env.out, "Error: invalid date %q\n", c.date)
			return subcommands.ExitUsageError
		}
		now = d.Add(24*time.Hour - time.Nanosecond) // Include the whole day
	}
	st, err := c.env.open()
	if err != nil {
		fmt.Fprintf(c.env.out, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	stats, err := report.NewProjector(st).Stats(ctx, c.owner, period, now)
	if err != nil {
		fmt.Fprintf(c.env.out, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	w := tabwriter.NewWriter(c.env.out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "\tincome\texpense\t")
	for _, b := range stats.Buckets {
		fmt.Fprintf(w, "%s\t%s\t%s\t\n", b.Label, b.Income.StringFixed(2), b.Expense.StringFixed(2))
	}
	w.Flush()
	fmt.Fprintf(c.env.out, "%d transactions\n", len(stats.Transactions))
	return subcommands.ExitSuccess
}
