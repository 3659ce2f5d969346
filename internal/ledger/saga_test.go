package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordingStep(name string, log *[]string, doErr, undoErr error) step {
	return step{
		name: name,
		do: func(context.Context) error {
			if doErr != nil {
				return doErr
			}
			*log = append(*log, "do "+name)
			return nil
		},
		undo: func(context.Context) error {
			if undoErr != nil {
				return undoErr
			}
			*log = append(*log, "undo "+name)
			return nil
		},
	}
}

func TestRunStepsCompensatesInReverse(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	err := runSteps(context.Background(), []step{
		recordingStep("a", &log, nil, nil),
		recordingStep("b", &log, nil, nil),
		recordingStep("c", &log, boom, nil),
	}, true)

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrPartialFailure)
	assert.Equal(t, []string{"do a", "do b", "undo b", "undo a"}, log)
}

func TestRunStepsWithoutCompensation(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	err := runSteps(context.Background(), []step{
		recordingStep("a", &log, nil, nil),
		recordingStep("b", &log, boom, nil),
	}, false)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"do a"}, log)
}

func TestRunStepsUndoesExternalStepsOnRollback(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	file := recordingStep("file", &log, nil, nil)
	file.external = true
	err := runSteps(context.Background(), []step{
		recordingStep("a", &log, nil, nil),
		file,
		recordingStep("c", &log, boom, nil),
	}, false)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"do a", "do file", "undo file"}, log)
}

func TestRunStepsPartialFailure(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	stuck := errors.New("stuck")
	err := runSteps(context.Background(), []step{
		recordingStep("a", &log, nil, nil),
		recordingStep("b", &log, nil, stuck),
		recordingStep("c", &log, boom, nil),
	}, true)

	var pf *PartialFailureError
	require.ErrorAs(t, err, &pf)
	assert.ErrorIs(t, err, ErrPartialFailure)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a", "b"}, pf.Completed)
	assert.Equal(t, "c", pf.Failed)
	assert.ErrorIs(t, pf.Compensation, stuck)
	assert.Equal(t, []string{"do a", "do b"}, log)
}

func TestRunStepsStopsOnCancel(t *testing.T) {
	var log []string
	ctx, cancel := context.WithCancel(context.Background())
	first := recordingStep("a", &log, nil, nil)
	inner := first.do
	first.do = func(ctx context.Context) error {
		cancel()
		return inner(ctx)
	}
	err := runSteps(ctx, []step{first, recordingStep("b", &log, nil, nil)}, true)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"do a", "undo a"}, log)
}
