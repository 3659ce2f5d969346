package ledger

import (
	"context" // Step cancellation
)

// step is one committed write of a multi-document operation. undo, when set, is the
// compensating write that takes its effect back. External steps write outside the
// store, so a store rollback does not cover them.
type step struct {
	name     string
	do       func(ctx context.Context) error
	undo     func(ctx context.Context) error
	external bool
}

// runSteps executes steps in order. With compensate set, a failing step triggers the
// undo of every step already done, newest first. If an undo fails the result is a
// *PartialFailureError naming what is still committed. Without compensate only
// external steps are undone; the store rollback handles the rest.
func runSteps(ctx context.Context, steps []step, compensate bool) error {
	done := make([]step, 0, len(steps))
	for _, st := range steps {
		err := ctx.Err()
		if err == nil {
			err = st.do(ctx)
		}
		if err != nil {
			if !compensate {
				return unwind(ctx, externalOnly(done), st.name, err)
			}
			return unwind(ctx, done, st.name, err)
		}
		done = append(done, st)
	}
	return nil
}

func unwind(ctx context.Context, done []step, failed string, cause error) error {
	// Compensation runs even when the caller already gave up on ctx
	cctx := context.WithoutCancel(ctx)
	for i := len(done) - 1; i >= 0; i-- {
		if done[i].undo == nil {
			continue
		}
		if err := done[i].undo(cctx); err != nil {
			names := make([]string, 0, i+1)
			for _, st := range done[:i+1] {
				names = append(names, st.name)
			}
			return &PartialFailureError{Completed: names, Failed: failed, Cause: cause, Compensation: err}
		}
	}
	return cause
}

func externalOnly(steps []step) []step {
	var out []step
	for _, st := range steps {
		if st.external {
			out = append(out, st)
		}
	}
	return out
}
