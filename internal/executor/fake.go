package executor

import (
	"context"
	"fmt"

	"github.com/ja7ad/benchcore/internal/timing"
)

// FakeExecutor is an in-memory Executor for driving the benchmark loop in
// tests without spawning real processes. Records are consumed in order from
// Records, one per call; a call whose index appears in FailOn returns that
// error instead of a record.
type FakeExecutor struct {
	KindValue     Kind
	OverheadValue float64

	// DefaultAction is used for calls whose overrideFailure is nil,
	// mirroring how a real executor's own configured FailureAction applies
	// to benchmark runs.
	DefaultAction FailureAction

	Records []timing.Record
	FailOn  map[int]error // call index (0-based, across all calls) -> error

	calls int
	Calls []FakeCall
}

// FakeCall records one invocation for assertions in tests.
type FakeCall struct {
	Command string
	Tag     IterationTag
	Action  FailureAction
	Policy  OutputPolicy
}

func (e *FakeExecutor) Kind() Kind { return e.KindValue }

func (e *FakeExecutor) TimeOverhead() float64 { return e.OverheadValue }

func (e *FakeExecutor) RunAndMeasure(
	_ context.Context,
	command string,
	tag IterationTag,
	overrideFailure *FailureAction,
	policy OutputPolicy,
) (timing.Record, error) {
	idx := e.calls
	e.calls++

	action := e.DefaultAction
	if overrideFailure != nil {
		action = *overrideFailure
	}
	e.Calls = append(e.Calls, FakeCall{Command: command, Tag: tag, Action: action, Policy: policy})

	if err, ok := e.FailOn[idx]; ok {
		return timing.Record{}, err
	}
	if idx >= len(e.Records) {
		return timing.Record{}, fmt.Errorf("fake executor: no record configured for call %d", idx)
	}

	rec := e.Records[idx]
	if !rec.Status.Success() && action == RaiseOnFailure {
		return rec, fmt.Errorf("fake executor: command exited non-zero")
	}
	return rec, nil
}
