// Package executor implements the abstract run-a-command-and-measure
// contract the benchmark driver consumes: given a command string and an
// iteration tag, spawn it, wait for it to exit, and return a timing.Record.
package executor

import (
	"context"

	"github.com/ja7ad/benchcore/internal/timing"
)

// FailureAction controls what an executor does when the measured command
// exits non-zero.
type FailureAction int

const (
	// IgnoreFailure records the failure in the timing record and lets the
	// driver continue.
	IgnoreFailure FailureAction = iota
	// RaiseOnFailure returns an error instead of a record.
	RaiseOnFailure
)

// Kind distinguishes how an executor spawns the command — used only to
// decide whether the driver should warn about suspiciously fast runs
// (shell overhead dwarfs a sub-5ms workload; direct spawn doesn't carry
// that overhead the same way).
type Kind int

const (
	KindShell Kind = iota
	KindDirect
)

func (k Kind) String() string {
	if k == KindDirect {
		return "direct"
	}
	return "shell"
}

// IterationKind distinguishes warmup, measured, and hook runs — purely
// informational: the shell and direct executors ignore it, and FakeExecutor
// only records it.
type IterationKind int

const (
	NonBenchmarkRun IterationKind = iota
	WarmupRun
	BenchmarkRun
)

// IterationTag tags a single executor invocation with its role in the
// benchmark loop.
type IterationTag struct {
	Kind  IterationKind
	Index int
}

func Warmup(i int) IterationTag    { return IterationTag{Kind: WarmupRun, Index: i} }
func Benchmark(i int) IterationTag { return IterationTag{Kind: BenchmarkRun, Index: i} }
func NonBenchmark() IterationTag   { return IterationTag{Kind: NonBenchmarkRun} }

// OutputPolicy controls what happens to the child's stdout/stderr.
type OutputPolicy int

const (
	// OutputInherit lets the child share the benchmark process's streams.
	OutputInherit OutputPolicy = iota
	// OutputDiscard redirects the child's streams to the null device.
	OutputDiscard
)

// Executor is the narrow capability set the driver depends on: any
// implementation that satisfies it (real process spawn, shell-wrapped
// spawn, an in-memory fake for tests) is substitutable.
type Executor interface {
	// RunAndMeasure spawns command, waits for it to exit, and returns its
	// timing record. overrideFailure, when non-nil, takes precedence over
	// whatever failure action the executor was configured with — used for
	// setup/cleanup/prepare/conclude hooks, which always raise.
	RunAndMeasure(
		ctx context.Context,
		command string,
		tag IterationTag,
		overrideFailure *FailureAction,
		policy OutputPolicy,
	) (timing.Record, error)

	// TimeOverhead is an empirically determined floor representing the
	// minimum wall time attributable to the measurement machinery itself,
	// used by the driver to avoid dividing by an unrealistically small
	// per-run time when computing the adaptive run count.
	TimeOverhead() float64

	// Kind reports whether this executor wraps commands in a shell or
	// spawns them directly.
	Kind() Kind
}
