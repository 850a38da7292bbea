package bench

import (
	"context"
	"fmt"
	"math"

	"github.com/ja7ad/benchcore/internal/executor"
	"github.com/ja7ad/benchcore/internal/pcounter"
	"github.com/ja7ad/benchcore/internal/stats"
	"github.com/ja7ad/benchcore/internal/timing"
)

// Driver runs one benchmark's phases through an Executor and turns the
// collected timing records into a Result. It is single-threaded and
// synchronous — a Driver must not be shared across goroutines, and
// concurrent runs within one benchmark would contaminate timings.
type Driver struct {
	Exec executor.Executor
}

// New builds a Driver around the given executor.
func New(exec executor.Executor) *Driver {
	return &Driver{Exec: exec}
}

func raiseAction() *executor.FailureAction {
	a := executor.RaiseOnFailure
	return &a
}

func ignoreAction() *executor.FailureAction {
	a := executor.IgnoreFailure
	return &a
}

// Run executes the full phase outline — setup, warmup, initial measurement,
// adaptive count determination, the remaining measurement loop, cleanup —
// and returns the summarized result. It returns an error (and no result)
// whenever a hook fails, or when a measured run fails under raise-on-failure
// semantics.
func (d *Driver) Run(ctx context.Context, opts Options) (*Result, error) {
	progress := opts.progress()
	defer progress.FinishAndClear()

	if opts.Setup != "" {
		progress.SetMessage("setup")
		if _, err := d.runHook(ctx, opts.Setup, "setup"); err != nil {
			return nil, err
		}
	}

	for i := 0; i < opts.WarmupCount; i++ {
		progress.SetMessage(fmt.Sprintf("warmup %d/%d", i+1, opts.WarmupCount))
		if _, err := d.runPrepareCommandConclude(ctx, opts, executor.Warmup(i), ignoreAction()); err != nil {
			return nil, err
		}
	}

	var (
		times, userTimes, systemTimes []float64
		memory                        []uint64
		exitCodes                     []int
		counterSamples                []pcounter.Sample
		anyFailure                    bool
	)

	progress.SetMessage("measuring")

	initial, prepareRec, concludeRec, err := d.runPrepareCommandConcludeFull(ctx, opts, executor.Benchmark(0), nil)
	if err != nil {
		return nil, err
	}
	times = append(times, initial.TimeReal)
	userTimes = append(userTimes, initial.TimeUser)
	systemTimes = append(systemTimes, initial.TimeSystem)
	memory = append(memory, initial.MemoryPeakBytes)
	exitCodes = append(exitCodes, exitCodeOf(initial.Status))
	if initial.Counters != nil {
		counterSamples = append(counterSamples, *initial.Counters)
	}
	if !initial.Status.Success() {
		anyFailure = true
	}

	ov := d.Exec.TimeOverhead()
	t0 := initial.TimeReal
	denom := t0 + ov
	if opts.Prepare != "" && prepareRec != nil {
		denom += prepareRec.TimeReal + ov
	}
	if opts.Conclude != "" && concludeRec != nil {
		denom += concludeRec.TimeReal + ov
	}

	count := opts.MinRuns
	if denom > 0 && opts.MinTotalTime > 0 {
		runsInBudget := int(math.Floor(opts.MinTotalTime / denom))
		if runsInBudget > count {
			count = runsInBudget
		}
	}
	if opts.MaxRuns != nil && count > *opts.MaxRuns {
		count = *opts.MaxRuns
	}
	if count < 1 {
		count = 1
	}

	progress.SetLength(count)
	progress.Inc()

	for i := 1; i < count; i++ {
		progress.SetMessage(fmt.Sprintf("measuring %d/%d", i+1, count))
		rec, err := d.runPrepareCommandConclude(ctx, opts, executor.Benchmark(i), nil)
		if err != nil {
			return nil, err
		}
		times = append(times, rec.TimeReal)
		userTimes = append(userTimes, rec.TimeUser)
		systemTimes = append(systemTimes, rec.TimeSystem)
		memory = append(memory, rec.MemoryPeakBytes)
		exitCodes = append(exitCodes, exitCodeOf(rec.Status))
		if rec.Counters != nil {
			counterSamples = append(counterSamples, *rec.Counters)
		}
		if !rec.Status.Success() {
			anyFailure = true
		}
		progress.Inc()
	}

	if opts.Cleanup != "" {
		progress.SetMessage("cleanup")
		if _, err := d.runHook(ctx, opts.Cleanup, "cleanup"); err != nil {
			return nil, err
		}
	}

	result := &Result{
		Command:    opts.Command,
		Mean:       stats.Mean(times),
		Median:     stats.Median(times),
		Min:        stats.Min(times),
		Max:        stats.Max(times),
		UserMean:   stats.Mean(userTimes),
		SystemMean: stats.Mean(systemTimes),
		Times:      times,
		MemoryPeak: memory,
		ExitCodes:  exitCodes,
		Parameters: opts.Parameters,
	}
	if len(times) > 1 {
		sd := stats.StdDev(times, result.Mean)
		result.StdDev = &sd
	}

	if opts.CountersEnabled {
		result.CounterSamples = counterSamples
		result.Counters = pcounter.Aggregate(counterSamples)
	}

	result.Warnings = d.classifyWarnings(opts, times, anyFailure, result.Counters)

	return result, nil
}

// runHook runs a setup, cleanup, prepare or conclude hook with
// raise-on-failure semantics, wrapping any failure with the hook's name and
// a suggestion for intentional non-zero exits.
func (d *Driver) runHook(ctx context.Context, command, name string) (timing.Record, error) {
	rec, err := d.Exec.RunAndMeasure(ctx, command, executor.NonBenchmark(), raiseAction(), executor.OutputInherit)
	if err != nil {
		return rec, fmt.Errorf("%s hook failed: %w (append `|| true` to the command if this failure is intentional)", name, err)
	}
	return rec, nil
}

// runPrepareCommandConclude runs prepare (if configured) -> command -> conclude
// (if configured) and returns the command's own record. Prepare/conclude
// hooks always raise on failure; overrideFailure controls the measured
// command's own failure handling.
func (d *Driver) runPrepareCommandConclude(
	ctx context.Context,
	opts Options,
	tag executor.IterationTag,
	overrideFailure *executor.FailureAction,
) (timing.Record, error) {
	rec, _, _, err := d.runPrepareCommandConcludeFull(ctx, opts, tag, overrideFailure)
	return rec, err
}

func (d *Driver) runPrepareCommandConcludeFull(
	ctx context.Context,
	opts Options,
	tag executor.IterationTag,
	overrideFailure *executor.FailureAction,
) (cmdRec timing.Record, prepareRec, concludeRec *timing.Record, err error) {
	if opts.Prepare != "" {
		rec, err := d.runHook(ctx, opts.Prepare, "prepare")
		if err != nil {
			return timing.Record{}, nil, nil, err
		}
		prepareRec = &rec
	}

	cmdRec, err = d.Exec.RunAndMeasure(ctx, opts.Command, tag, overrideFailure, executor.OutputInherit)
	if err != nil {
		return cmdRec, prepareRec, nil, err
	}

	if opts.Conclude != "" {
		rec, err := d.runHook(ctx, opts.Conclude, "conclude")
		if err != nil {
			return cmdRec, prepareRec, nil, err
		}
		concludeRec = &rec
	}

	return cmdRec, prepareRec, concludeRec, nil
}

func exitCodeOf(s timing.ExitStatus) int {
	switch {
	case s.Code != nil:
		return *s.Code
	case s.Signal != nil:
		return -*s.Signal
	default:
		return -1
	}
}

func (d *Driver) classifyWarnings(opts Options, times []float64, anyFailure bool, counters *pcounter.Sample) []Warning {
	var warnings []Warning

	if d.Exec.Kind() == executor.KindShell {
		for _, t := range times {
			if t < fastExecutionFloor {
				warnings = append(warnings, Warning{Kind: FastExecutionTime})
				break
			}
		}
	}

	if anyFailure && opts.FailureAction == executor.IgnoreFailure {
		warnings = append(warnings, Warning{Kind: NonZeroExitCode})
	}

	ctx := WarningContext{
		WarmupInUse:  opts.WarmupCount > 0,
		PrepareInUse: opts.Prepare != "",
	}
	if len(times) > 0 {
		scores := stats.ModifiedZScores(times)
		if scores[0] > stats.OutlierThreshold {
			warnings = append(warnings, Warning{Kind: SlowInitialRun, FirstSampleRealTime: times[0], Context: ctx})
		} else {
			for _, s := range scores {
				if math.Abs(s) > stats.OutlierThreshold {
					warnings = append(warnings, Warning{Kind: OutliersDetected, Context: ctx})
					break
				}
			}
		}
	}

	if opts.CountersEnabled && !counters.HasData() {
		warnings = append(warnings, Warning{Kind: CountersUnavailable})
	}

	return warnings
}
