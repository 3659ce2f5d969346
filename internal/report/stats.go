// Package report builds read-only projections over a user's transactions: chart
// buckets per day, month or year, the recent list and text search. Nothing here
// writes to the store.
package report

import (
	"context" // Store round-trips
	"errors"  // Sentinel errors
	"strconv" // Year labels
	"time"    // Bucket windows

	"expense_tracker/internal/domain" // Domain models
	"expense_tracker/internal/store"  // Store contract

	"github.com/shopspring/decimal" // Exact money arithmetic
)

// Period selects the bucket size of a chart
type Period string

const (
	Weekly  Period = "weekly"  // Last 7 days, one bucket per day
	Monthly Period = "monthly" // Last 12 months, one bucket per month
	Yearly  Period = "yearly"  // Last 5 years, one bucket per year
)

// DefaultRecentLimit is how many transactions Recent returns when asked for 0
const DefaultRecentLimit = 30

// ErrUnknownPeriod is returned for anything but weekly, monthly or yearly
var ErrUnknownPeriod = errors.New("unknown stats period")

// ParsePeriod validates a period name
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case Weekly, Monthly, Yearly:
		return p, nil
	}
	return "", ErrUnknownPeriod
}

// Bucket is one bar pair of a chart
type Bucket struct {
	Label   string          `json:"label"`
	Start   time.Time       `json:"start"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Stats is a chart plus the transactions it was built from
type Stats struct {
	Period       Period               `json:"period"`
	Buckets      []Bucket             `json:"buckets"`
	Transactions []domain.Transaction `json:"transactions"`
}

// Buckets returns the empty buckets of p ending at now, oldest first.
func Buckets(p Period, now time.Time) ([]Bucket, error) {
	loc := now.Location()
	var out []Bucket
	switch p {
	case Weekly:
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		for i := 6; i >= 0; i-- {
			start := today.AddDate(0, 0, -i)
			out = append(out, bucket(start.Format("Mon"), start))
		}
	case Monthly:
		month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		for i := 11; i >= 0; i-- {
			start := month.AddDate(0, -i, 0)
			out = append(out, bucket(start.Format("Jan 06"), start))
		}
	case Yearly:
		for y := now.Year() - 4; y <= now.Year(); y++ {
			out = append(out, bucket(strconv.Itoa(y), time.Date(y, time.January, 1, 0, 0, 0, 0, loc)))
		}
	default:
		return nil, ErrUnknownPeriod
	}
	return out, nil
}

func bucket(label string, start time.Time) Bucket {
	return Bucket{Label: label, Start: start, Income: decimal.Zero, Expense: decimal.Zero}
}

// Fill adds every transaction dated inside [buckets[0].Start, now] to its bucket.
func Fill(buckets []Bucket, now time.Time, txs []domain.Transaction) {
	if len(buckets) == 0 {
		return
	}
	for _, t := range txs {
		d := t.Date.In(now.Location())
		if d.Before(buckets[0].Start) || d.After(now) {
			continue
		}
		i := len(buckets) - 1
		for i > 0 && d.Before(buckets[i].Start) {
			i--
		}
		switch t.Type {
		case domain.Income:
			buckets[i].Income = buckets[i].Income.Add(t.Amount)
		case domain.Expense:
			buckets[i].Expense = buckets[i].Expense.Add(t.Amount)
		}
	}
}

// Projector answers read-only queries over a store
type Projector struct {
	store store.Store
}

// NewProjector returns a Projector reading from st
func NewProjector(st store.Store) *Projector {
	return &Projector{store: st}
}

// Stats scans the owner's transactions of the period ending at now.
func (p *Projector) Stats(ctx context.Context, ownerID string, period Period, now time.Time) (Stats, error) {
	buckets, err := Buckets(period, now)
	if err != nil {
		return Stats{}, err
	}
	txs, err := p.store.QueryTransactions(ctx, store.TransactionFilter{
		OwnerID: ownerID,
		From:    buckets[0].Start,
		To:      now,
	})
	if err != nil {
		return Stats{}, err
	}
	Fill(buckets, now, txs)
	return Stats{Period: period, Buckets: buckets, Transactions: txs}, nil
}

// Recent returns the owner's latest transactions by date
func (p *Projector) Recent(ctx context.Context, ownerID string, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return p.store.QueryTransactions(ctx, store.TransactionFilter{OwnerID: ownerID, Limit: limit})
}
