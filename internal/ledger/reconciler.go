// Package ledger keeps wallet balances and income/expense totals consistent with the
// transactions that reference them.
//
// Every mutating operation is planned as a list of steps (wallet writes, receipt upload,
// record write). When the store implements store.Transactor the steps run inside one
// transaction; otherwise they run as a saga and already committed steps are compensated
// when a later one fails.
package ledger

import (
	"context"       // Cancellation of store round-trips
	"errors"        // Error inspection
	"fmt"           // Error wrapping
	"path/filepath" // Receipt reference checks
	"strings"       // Input normalization
	"time"          // Transaction dates

	"expense_tracker/internal/domain" // Domain models
	"expense_tracker/internal/store"  // Store contract

	"github.com/shopspring/decimal" // Exact money arithmetic
	"github.com/sirupsen/logrus"    // Structured logging
)

// ReceiptFolder is the upload folder receipts are stored under
const ReceiptFolder = "transactions"

// Uploader turns a staged file reference into a stored URL. localRef is always a
// local path relative to the uploader's staging area. Remove deletes a stored file
// again when the operation that uploaded it does not commit.
type Uploader interface {
	Upload(ctx context.Context, localRef, folder string) (string, error)
	Remove(ctx context.Context, url string) error
}

// Draft is a transaction as submitted by a caller. An empty ID creates a new transaction.
type Draft struct {
	ID          string                 `json:"id"`
	Type        domain.TransactionType `json:"type"`
	Amount      decimal.Decimal        `json:"amount"`
	WalletID    string                 `json:"wallet_id"`
	Date        time.Time              `json:"date"`
	Category    string                 `json:"category"`
	Description string                 `json:"description"`
	ReceiptRef  string                 `json:"receipt_ref"` // Staged receipt to upload, if any
}

// Validate checks the draft before any I/O happens
func (d Draft) Validate() error {
	switch {
	case !d.Type.Valid():
		return invalid("type must be income or expense")
	case !d.Amount.IsPositive():
		return invalid("amount must be positive")
	case !domain.InCents(d.Amount):
		return invalid("amount %s has more than %d decimals", d.Amount, domain.MoneyScale)
	case d.WalletID == "":
		return invalid("wallet is required")
	case d.Date.IsZero():
		return invalid("date is required")
	case d.Type == domain.Expense && d.Category == "":
		return invalid("category is required for expenses")
	case d.Type == domain.Expense && !domain.IsExpenseCategory(strings.ToLower(d.Category)):
		return invalid("unknown category %q", d.Category)
	case d.ReceiptRef != "" && !filepath.IsLocal(d.ReceiptRef):
		return invalid("receipt must be a staged file name")
	}
	return nil
}

// apply copies the draft's fields onto t. Income never carries a category.
func (d Draft) apply(t *domain.Transaction) {
	t.Type = d.Type
	t.Amount = d.Amount
	t.WalletID = d.WalletID
	t.Date = d.Date
	t.Description = strings.TrimSpace(d.Description)
	t.Category = ""
	if d.Type == domain.Expense {
		t.Category = strings.ToLower(d.Category)
	}
}

// Reconciler is the orchestrator for transaction create, update and delete.
type Reconciler struct {
	store    store.Store
	uploader Uploader
	log      logrus.FieldLogger
	retries  int
}

// NewReconciler wires the reconciler to its store and uploader. retries bounds how many
// times an operation that lost an optimistic-concurrency race is replayed.
func NewReconciler(st store.Store, up Uploader, log logrus.FieldLogger, retries int) *Reconciler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if retries < 0 {
		retries = 0
	}
	return &Reconciler{store: st, uploader: up, log: log, retries: retries}
}

// plan reads what it needs from st, checks every guard it can up front and returns
// the steps that perform the writes.
type plan func(ctx context.Context, st store.Store) ([]step, error)

// execute runs p, replaying it when a wallet write lost a race and nothing stayed committed.
func (r *Reconciler) execute(ctx context.Context, op string, p plan) error {
	for attempt := 0; ; attempt++ {
		err := r.once(ctx, p)
		if err == nil || !errors.Is(err, store.ErrConflict) || errors.Is(err, ErrPartialFailure) || attempt >= r.retries {
			return err
		}
		r.log.WithFields(logrus.Fields{
			"operation": op,      // Operation name
			"attempt":   attempt, // Attempt number
		}).Warn("Wallet modified concurrently, retrying")
	}
}

func (r *Reconciler) once(ctx context.Context, p plan) error {
	if tr, ok := r.store.(store.Transactor); ok {
		return tr.WithinTransaction(ctx, func(tx store.Store) error {
			steps, err := p(ctx, tx)
			if err != nil {
				return err
			}
			return runSteps(ctx, steps, false) // Rollback undoes everything
		})
	}
	steps, err := p(ctx, r.store)
	if err != nil {
		return err
	}
	return runSteps(ctx, steps, true)
}

// CreateOrUpdate persists a new transaction or edits an existing one, keeping the
// aggregates of every wallet involved consistent.
func (r *Reconciler) CreateOrUpdate(ctx context.Context, ownerID string, d Draft) (domain.Transaction, error) {
	if ownerID == "" {
		return domain.Transaction{}, invalid("missing owner")
	}
	if err := d.Validate(); err != nil {
		return domain.Transaction{}, err
	}
	var out domain.Transaction
	op := "create"
	p := r.planCreate(ownerID, d, &out)
	if d.ID != "" {
		op = "update"
		p = r.planUpdate(ownerID, d, &out)
	}
	fields := logrus.Fields{
		"owner_id":  ownerID,           // User ID
		"wallet_id": d.WalletID,        // Target wallet
		"type":      d.Type,            // Transaction type
		"amount":    d.Amount.String(), // Transaction amount
		"operation": op,                // create or update
	}
	if err := r.execute(ctx, op, p); err != nil {
		r.logFailure(fields, d.ID, err)
		return domain.Transaction{}, err
	}
	fields["transaction_id"] = out.ID
	r.log.WithFields(fields).Info("Transaction saved")
	return out, nil
}

func (r *Reconciler) planCreate(ownerID string, d Draft, out *domain.Transaction) plan {
	return func(ctx context.Context, st store.Store) ([]step, error) {
		w, err := loadWallet(ctx, st, ownerID, d.WalletID)
		if err != nil {
			return nil, err
		}
		if _, err := Apply(w.Aggregate, d.Type, d.Amount); err != nil {
			return nil, err // Nothing written yet
		}
		t := domain.Transaction{OwnerID: ownerID}
		d.apply(&t)
		eff := t.Effect()
		steps := []step{applyStep(st, ownerID, eff)}
		steps = append(steps, r.uploadSteps(&t, d.ReceiptRef)...)
		return append(steps, persistStep(st, &t, out)), nil
	}
}

func (r *Reconciler) planUpdate(ownerID string, d Draft, out *domain.Transaction) plan {
	return func(ctx context.Context, st store.Store) ([]step, error) {
		old, err := loadTransaction(ctx, st, ownerID, d.ID)
		if err != nil {
			return nil, err
		}
		t := old
		d.apply(&t)
		var steps []step
		if prev, next := old.Effect(), t.Effect(); !prev.Same(next) {
			if err := preflightMove(ctx, st, ownerID, prev, next); err != nil {
				return nil, err
			}
			steps = append(steps,
				revertStep(st, ownerID, prev, moveGuard(prev, next)),
				applyStep(st, ownerID, next),
			)
		}
		steps = append(steps, r.uploadSteps(&t, d.ReceiptRef)...)
		return append(steps, persistStep(st, &t, out)), nil
	}
}

// preflightMove checks both guards of a revert-and-reapply before anything is written.
func preflightMove(ctx context.Context, st store.Store, ownerID string, prev, next domain.Effect) error {
	from, err := loadWallet(ctx, st, ownerID, prev.WalletID)
	if err != nil {
		return err
	}
	reverted, err := Revert(from.Aggregate, prev.Type, prev.Amount)
	if err != nil {
		return err
	}
	if err := moveGuard(prev, next)(reverted); err != nil {
		return err
	}
	to := reverted
	if next.WalletID != prev.WalletID {
		w, err := loadWallet(ctx, st, ownerID, next.WalletID)
		if err != nil {
			return err
		}
		to = w.Aggregate
	}
	_, err = Apply(to, next.Type, next.Amount)
	return err
}

// moveGuard checks the old wallet right after the revert, before it is written. Only
// an expense that stays on the same wallet has to be carried by the reverted balance;
// moving or shrinking income that was already spent is allowed to leave it negative.
func moveGuard(prev, next domain.Effect) func(domain.Aggregate) error {
	return func(reverted domain.Aggregate) error {
		if next.WalletID == prev.WalletID && next.Type == domain.Expense && reverted.Balance.LessThan(next.Amount) {
			return fmt.Errorf("%w: balance %s, expense %s", ErrInsufficientFunds, reverted.Balance, next.Amount)
		}
		return nil
	}
}

// Delete reverts a transaction's effect on its wallet and removes it. walletID, when
// given, must name the wallet the transaction currently belongs to.
func (r *Reconciler) Delete(ctx context.Context, ownerID, transactionID, walletID string) error {
	if ownerID == "" || transactionID == "" {
		return invalid("owner and transaction are required")
	}
	fields := logrus.Fields{
		"owner_id":       ownerID,       // User ID
		"transaction_id": transactionID, // Transaction ID
		"wallet_id":      walletID,      // Wallet ID
		"operation":      "delete",      // Operation name
	}
	err := r.execute(ctx, "delete", func(ctx context.Context, st store.Store) ([]step, error) {
		old, err := loadTransaction(ctx, st, ownerID, transactionID)
		if err != nil {
			return nil, err
		}
		if walletID != "" && walletID != old.WalletID {
			return nil, invalid("transaction does not belong to wallet %s", walletID)
		}
		w, err := loadWallet(ctx, st, ownerID, old.WalletID)
		if err != nil {
			return nil, err
		}
		reverted, err := Revert(w.Aggregate, old.Type, old.Amount)
		if err != nil {
			return nil, err
		}
		guard := incomeDeleteGuard(old.Type)
		if err := guard(reverted); err != nil {
			return nil, err
		}
		return []step{
			revertStep(st, ownerID, old.Effect(), guard),
			{
				name: "delete-transaction",
				do: func(ctx context.Context) error {
					if err := st.DeleteTransaction(ctx, transactionID); err != nil {
						return storeErr("delete transaction "+transactionID, err)
					}
					return nil
				},
			},
		}, nil
	})
	if err != nil {
		r.logFailure(fields, transactionID, err)
		return err
	}
	r.log.WithFields(fields).Info("Transaction deleted")
	return nil
}

// incomeDeleteGuard refuses to remove income that has already been spent.
func incomeDeleteGuard(t domain.TransactionType) func(domain.Aggregate) error {
	return func(reverted domain.Aggregate) error {
		if t == domain.Income && reverted.Balance.IsNegative() {
			return ErrInvariantViolation
		}
		return nil
	}
}

// applyStep folds eff into its wallet. Apply re-checks funds against the fresh read.
func applyStep(st store.Store, ownerID string, eff domain.Effect) step {
	return step{
		name: "apply:" + eff.WalletID,
		do: func(ctx context.Context) error {
			w, err := loadWallet(ctx, st, ownerID, eff.WalletID)
			if err != nil {
				return err
			}
			if w.Aggregate, err = Apply(w.Aggregate, eff.Type, eff.Amount); err != nil {
				return err
			}
			return saveWallet(ctx, st, &w)
		},
		undo: func(ctx context.Context) error {
			return adjust(ctx, st, eff.WalletID, func(a domain.Aggregate) domain.Aggregate {
				return fold(a, eff.Type, eff.Amount.Neg())
			})
		},
	}
}

// revertStep removes eff from its wallet; guard sees the reverted aggregate before it is written.
func revertStep(st store.Store, ownerID string, eff domain.Effect, guard func(domain.Aggregate) error) step {
	return step{
		name: "revert:" + eff.WalletID,
		do: func(ctx context.Context) error {
			w, err := loadWallet(ctx, st, ownerID, eff.WalletID)
			if err != nil {
				return err
			}
			if w.Aggregate, err = Revert(w.Aggregate, eff.Type, eff.Amount); err != nil {
				return err
			}
			if err := guard(w.Aggregate); err != nil {
				return err
			}
			return saveWallet(ctx, st, &w)
		},
		undo: func(ctx context.Context) error {
			return adjust(ctx, st, eff.WalletID, func(a domain.Aggregate) domain.Aggregate {
				return fold(a, eff.Type, eff.Amount)
			})
		},
	}
}

func (r *Reconciler) uploadSteps(t *domain.Transaction, ref string) []step {
	if ref == "" {
		return nil
	}
	var url string
	return []step{{
		name:     "upload-receipt",
		external: true,
		do: func(ctx context.Context) error {
			if r.uploader == nil {
				return ErrUploadFailed
			}
			var err error
			if url, err = r.uploader.Upload(ctx, ref, ReceiptFolder); err != nil {
				return fmt.Errorf("%w: %w", ErrUploadFailed, err)
			}
			t.ReceiptURL = url
			return nil
		},
		// An orphaned file does not affect wallet totals, so failing to remove it is only logged
		undo: func(ctx context.Context) error {
			if err := r.uploader.Remove(ctx, url); err != nil {
				r.log.WithFields(logrus.Fields{
					"receipt_url": url,         // Orphaned file
					"error":       err.Error(), // Error message
				}).Warn("Failed to remove uploaded receipt")
			}
			return nil
		},
	}}
}

func persistStep(st store.Store, t, out *domain.Transaction) step {
	return step{
		name: "persist-transaction",
		do: func(ctx context.Context) error {
			if err := st.SaveTransaction(ctx, t); err != nil {
				return storeErr("save transaction", err)
			}
			*out = *t
			return nil
		},
	}
}

func (r *Reconciler) logFailure(fields logrus.Fields, id string, err error) {
	entry := r.log.WithFields(fields).WithField("error", err.Error())
	if id != "" {
		entry = entry.WithField("transaction_id", id)
	}
	var pf *PartialFailureError
	if errors.As(err, &pf) {
		entry.WithFields(logrus.Fields{
			"committed_steps": pf.Completed, // Steps left committed
			"failed_step":     pf.Failed,    // Step that failed
		}).Error("Transaction left partially applied, manual reconciliation needed")
		return
	}
	entry.Warn("Transaction rejected")
}
