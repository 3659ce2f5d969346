package ledger

import (
	"errors"  // Sentinel errors
	"fmt"     // Error wrapping
	"strings" // Step names

	"expense_tracker/internal/store" // Store sentinels
)

// Error taxonomy surfaced to callers. Every failure returned by the Reconciler wraps
// exactly one of these, so callers can branch with errors.Is.
var (
	ErrValidation         = errors.New("invalid transaction data")
	ErrNotFound           = errors.New("not found")
	ErrInsufficientFunds  = errors.New("wallet does not have enough balance")
	ErrInvariantViolation = errors.New("operation would corrupt wallet totals")
	ErrUploadFailed       = errors.New("failed to upload receipt")
	ErrStore              = errors.New("store failure")
	ErrPartialFailure     = errors.New("partially applied")
)

// PartialFailureError reports a multi-step operation that failed after some of its
// steps were committed and could not be undone. The wallets named in Completed need
// manual reconciliation.
type PartialFailureError struct {
	Completed    []string // Steps still committed
	Failed       string   // Step that failed
	Cause        error    // Why Failed failed
	Compensation error    // Why undoing Completed failed
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s: step %q failed (%v) after [%s] committed; compensation failed: %v",
		ErrPartialFailure, e.Failed, e.Cause, strings.Join(e.Completed, ", "), e.Compensation)
}

// Unwrap exposes both ErrPartialFailure and the original cause
func (e *PartialFailureError) Unwrap() []error {
	return []error{ErrPartialFailure, e.Cause}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// storeErr folds a store error into the taxonomy. ErrConflict stays visible in the
// chain so the retry loop can spot it.
func storeErr(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}
