//go:build linux

package executor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These exercise the real spawn path (ShellExecutor/DirectExecutor) against
// actual processes. CountersEnabled stays false: perf counters need
// CAP_PERFMON or a relaxed perf_event_paranoid, which a test environment
// can't assume.

func TestShellExecutor_RunAndMeasure_Basic(t *testing.T) {
	e := &ShellExecutor{FailureAction: IgnoreFailure}
	rec, err := e.RunAndMeasure(context.Background(), "true", Benchmark(0), nil, OutputDiscard)
	require.NoError(t, err)
	assert.True(t, rec.Status.Success())
	assert.GreaterOrEqual(t, rec.TimeReal, 0.0)
}

func TestShellExecutor_RunAndMeasure_NonZeroExit(t *testing.T) {
	e := &ShellExecutor{FailureAction: IgnoreFailure}
	rec, err := e.RunAndMeasure(context.Background(), "exit 7", Benchmark(0), nil, OutputDiscard)
	require.NoError(t, err)
	require.NotNil(t, rec.Status.Code)
	assert.Equal(t, 7, *rec.Status.Code)
}

func TestShellExecutor_RunAndMeasure_RaisesOnFailure(t *testing.T) {
	e := &ShellExecutor{FailureAction: RaiseOnFailure}
	_, err := e.RunAndMeasure(context.Background(), "exit 1", Benchmark(0), nil, OutputDiscard)
	assert.Error(t, err)
}

func TestShellExecutor_Kind(t *testing.T) {
	e := &ShellExecutor{}
	assert.Equal(t, KindShell, e.Kind())
}

func TestDirectExecutor_RunAndMeasure_Basic(t *testing.T) {
	e := &DirectExecutor{FailureAction: IgnoreFailure}
	rec, err := e.RunAndMeasure(context.Background(), "true", Benchmark(0), nil, OutputDiscard)
	require.NoError(t, err)
	assert.True(t, rec.Status.Success())
}

func TestDirectExecutor_RunAndMeasure_NonZeroExit(t *testing.T) {
	e := &DirectExecutor{FailureAction: IgnoreFailure}
	rec, err := e.RunAndMeasure(context.Background(), "false", Benchmark(0), nil, OutputDiscard)
	require.NoError(t, err)
	assert.False(t, rec.Status.Success())
}

func TestDirectExecutor_Kind(t *testing.T) {
	e := &DirectExecutor{}
	assert.Equal(t, KindDirect, e.Kind())
}
